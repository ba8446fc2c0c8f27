package backoff

import (
	"context"
	"time"
)

// Noop never waits, so attempts run back to back. It is used when a poll interval of zero is asked for.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Backoff(context.Context, int) {}

func (*Noop) BackoffDuration(int) time.Duration {
	return 0
}

var _ Backoff = (*Noop)(nil)
