package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ppfront/internal/driver"
	"ppfront/internal/pipeline"
	"ppfront/internal/ui"
)

type unitsOutcome struct {
	results []*driver.Result
	err     error
}

// runUnitsWithUI обрабатывает единицы в фоне, пока Bubble Tea рисует прогресс в stderr.
func runUnitsWithUI(ctx context.Context, title string, paths []string, opts driver.Options, jobs int) ([]*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan unitsOutcome, 1)

	go func() {
		res, err := driver.ProcessUnits(ctx, paths, opts, jobs, pipeline.ChannelSink{Ch: events})
		outcomeCh <- unitsOutcome{results: res, err: err}
		close(events)
	}()

	plan := opts.Plan
	if len(plan) == 0 {
		plan = pipeline.DefaultPlan()
	}
	model := ui.NewProgressModel(title, paths, plan, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// модель могла выйти раньше времени; не блокируем воркеры
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
