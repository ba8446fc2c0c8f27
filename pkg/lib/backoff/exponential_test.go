//go:build unit || !integration

package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoffDuration(t *testing.T) {
	b := NewExponential(100*time.Millisecond, time.Second)

	assert.Equal(t, time.Duration(0), b.BackoffDuration(0))
	assert.Equal(t, 100*time.Millisecond, b.BackoffDuration(1))
	assert.Equal(t, 200*time.Millisecond, b.BackoffDuration(2))
	assert.Equal(t, 800*time.Millisecond, b.BackoffDuration(4))
	assert.Equal(t, time.Second, b.BackoffDuration(5))
	assert.Equal(t, time.Second, b.BackoffDuration(50))
}

func TestExponentialBackoffReturnsWhenContextDone(t *testing.T) {
	b := NewExponential(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	b.Backoff(ctx, 3)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNoop(t *testing.T) {
	b := NewNoop()
	assert.Equal(t, time.Duration(0), b.BackoffDuration(10))
	b.Backoff(context.Background(), 10)
}
