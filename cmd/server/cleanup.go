package main

import (
	"context"
	"log/slog"
	"time"
)

// cleanupStack collects teardown steps as resources are acquired.  run
// executes them in reverse order, so an early return from startup still
// releases everything opened so far.
type cleanupStack struct {
	steps []cleanupStep
}

type cleanupStep struct {
	name string
	fn   func(context.Context) error
}

func (s *cleanupStack) push(name string, fn func(context.Context) error) {
	s.steps = append(s.steps, cleanupStep{name: name, fn: fn})
}

// run gives each step its own timeout and keeps going after failures.
func (s *cleanupStack) run(logger *slog.Logger, timeout time.Duration) {
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := step.fn(ctx); err != nil {
			logger.Error("cleanup failed", "step", step.name, "error", err)
		}
		cancel()
	}
	s.steps = nil
}
