package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"errgen/internal/driver"
	"errgen/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI runs the driver in the background and renders its progress.
func runWithUI(ctx context.Context, out io.Writer, title string, targets []driver.Target, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan runOutcome, 1)

	files := make([]string, len(targets))
	for i, t := range targets {
		files[i] = t.Path
	}

	go func() {
		runOpts := opts
		next := opts.Progress
		runOpts.Progress = func(ev driver.ProgressEvent) {
			if next != nil {
				next(ev)
			}
			events <- ev
		}
		res, err := driver.Run(ctx, targets, runOpts)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// дочитываем канал, если UI вышел раньше (ctrl+c)
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
