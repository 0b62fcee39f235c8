package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tokensniff/internal/driver"
	"tokensniff/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI draws on stderr, so auto needs stderr to be a terminal.
func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

type checkOutcome struct {
	results []driver.FileResult
	sum     driver.Summary
	err     error
}

// runCheckWithUI runs the analyzer while a progress view consumes its
// events. Quitting the view cancels the run.
func runCheckWithUI(ctx context.Context, analyzer *driver.Analyzer, inputs []driver.Input) ([]driver.FileResult, driver.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)
	go func() {
		a := analyzer.WithProgress(driver.ChannelSink{Ch: events})
		results, sum, err := a.Run(ctx, inputs)
		outcomeCh <- checkOutcome{results: results, sum: sum, err: err}
		close(events)
	}()

	files := make([]string, 0, len(inputs))
	for _, in := range inputs {
		files = append(files, in.Path)
	}
	model := ui.NewProgressModel("checking", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()

	// воркеры не должны блокироваться на полном канале после выхода из UI
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, outcome.sum, uiErr
	}
	return outcome.results, outcome.sum, outcome.err
}
