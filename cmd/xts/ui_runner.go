package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"xts/internal/driver"
	"xts/internal/ui"
)

type dirOutcome struct {
	result *driver.DirResult
	err    error
}

// runDirWithUI runs TokenizeDir while a Bubble Tea progress view renders
// its events on stderr. opts.Sink is replaced. Ctrl-c in the view cancels
// the run.
func runDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options) (*driver.DirResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		opts.Sink = func(ev driver.Event) { events <- ev }
		res, err := driver.TokenizeDir(ctx, dir, opts)
		outcomeCh <- dirOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events, cancel)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// дочитываем события, иначе воркеры встанут на полном канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
