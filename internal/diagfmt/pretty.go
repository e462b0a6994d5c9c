package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"xts/internal/diag"
	"xts/internal/source"
)

type palette struct {
	enabled bool
	err     *color.Color
	warn    *color.Color
	info    *color.Color
	code    *color.Color
	gutter  *color.Color
	caret   *color.Color
	note    *color.Color
	fix     *color.Color
	removed *color.Color
	added   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		enabled: enabled,
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		added:   color.New(color.FgGreen),
	}
	if enabled {
		for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix, p.removed, p.added} {
			c.EnableColor()
		}
	}
	return p
}

func (p palette) paint(c *color.Color, s string) string {
	if !p.enabled {
		return s
	}
	return c.Sprint(s)
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.paint(p.err, sev.String())
	case diag.SevWarning:
		return p.paint(p.warn, sev.String())
	default:
		return p.paint(p.info, sev.String())
	}
}

// Pretty форматирует диагностики для терминала:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строки исходника с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	start, _ := resolve(fs, d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col,
		p.severity(d.Severity), p.paint(p.code, d.Code.ID()), d.Message)

	writeSnippet(w, fs, d.Primary, opts, p)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			ns, _ := resolve(fs, note.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.paint(p.note, "note:"),
				formatPath(fs, note.Span.File, opts.PathMode), ns.Line, ns.Col, note.Msg)
		}
	}

	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.paint(p.fix, "fix:"), fix.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range fix.Edits {
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s\n", p.paint(p.removed, "- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s\n", p.paint(p.added, "+ "+line))
				}
			}
		}
	}
}

func resolve(fs *source.FileSet, sp source.Span) (start, end source.LineCol) {
	if _, ok := fs.Lookup(sp.File); !ok {
		return source.LineCol{}, source.LineCol{}
	}
	return fs.Resolve(sp)
}

func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette) {
	f, ok := fs.Lookup(sp.File)
	if !ok || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))

	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, uint32(len(f.LineIdx))+1)
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))
	blank := strings.Repeat(" ", gutterWidth)

	for n := first; n <= last; n++ {
		line := f.GetLine(n)
		fmt.Fprintf(w, "%s %s %s\n",
			p.paint(p.gutter, fmt.Sprintf("%*d", gutterWidth, n)), p.paint(p.gutter, "|"), clip(line, opts.Width))
		if n != start.Line {
			continue
		}
		pad, width := caretGeometry(line, start, end)
		fmt.Fprintf(w, "%s %s %s%s\n", blank, p.paint(p.gutter, "|"), pad,
			p.paint(p.caret, "^"+strings.Repeat("~", width-1)))
	}
}

// caretGeometry returns the padding before the caret and the underline width
// in terminal cells. Tabs in the prefix are kept so the caret lines up.
// A span running past its first line is underlined to the end of that line.
func caretGeometry(line string, start, end source.LineCol) (string, int) {
	col := min(int(start.Col)-1, len(line))
	col = max(col, 0)
	prefix := line[:col]

	var pad strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(line))
	}
	width := runewidth.StringWidth(line[col:stop])
	return pad.String(), max(width, 1)
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}
