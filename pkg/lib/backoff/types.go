package backoff

import (
	"context"
	"time"
)

// Backoff waits between successive attempts of an operation.
type Backoff interface {
	// Backoff blocks for the duration appropriate to the number of attempts made so far,
	// or until ctx is done.
	Backoff(ctx context.Context, attempts int)
	// BackoffDuration returns the duration Backoff would wait.
	BackoffDuration(attempts int) time.Duration
}
