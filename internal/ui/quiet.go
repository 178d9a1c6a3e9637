package ui

import "github.com/driftline/ferry/internal/stats"

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan Event) error {
	// Counters are written by the engine; there is nothing to render.
	for range events {
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
