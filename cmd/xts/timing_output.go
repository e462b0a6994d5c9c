package main

import (
	"encoding/json"
	"fmt"
	"io"

	"xts/internal/observ"
)

// printTimings writes the phase summary of timer, if timings are enabled.
// Machine-readable output formats get a JSON report instead of text.
func printTimings(out io.Writer, timer *observ.Timer, format string) {
	if out == nil || timer == nil {
		return
	}
	if format == "json" || format == "msgpack" {
		enc := json.NewEncoder(out)
		if err := enc.Encode(struct {
			Timings observ.Report `json:"timings"`
		}{timer.Report()}); err != nil {
			fmt.Fprintf(out, "timings: %v\n", err)
		}
		return
	}
	fmt.Fprint(out, timer.Summary())
}
