package console

import (
	"time"

	"github.com/cyclopcam/yoloset/pkg/journal"
)

// Run accumulates the summary of a CLI invocation
type Run struct {
	Operation string
	StartedAt time.Time
	Summary   journal.Summary
}

func NewRun(operation string) Run {
	return Run{
		Operation: operation,
		StartedAt: time.Now(),
		Summary: journal.Summary{
			Counts: map[string]int{},
			Detail: map[string]string{},
		},
	}
}
