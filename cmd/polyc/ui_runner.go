package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"polyc/internal/pipeline"
	"polyc/internal/registry"
	"polyc/internal/ui"
)

func runBatchWithUI(ctx context.Context, title string, jobs []compileJob, base registry.Options, withTimings bool) ([]fileOutcome, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan []fileOutcome, 1)

	go func() {
		outcomes := runBatch(ctx, jobs, base, withTimings, pipeline.ChannelSink{Ch: events})
		outcomeCh <- outcomes
		close(events)
	}()

	labels := make([]string, len(jobs))
	for i, job := range jobs {
		labels[i] = job.path
	}
	model := ui.NewProgressModel(title, labels, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcomes := <-outcomeCh
	return outcomes, uiErr
}
