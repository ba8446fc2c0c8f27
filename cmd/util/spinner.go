package util

import (
	"fmt"
	"io"
	"time"

	"github.com/theckman/yacspin"
)

// Spinner shows progress of a long running step on a terminal. It only animates when w is a TTY.
type Spinner struct {
	spin *yacspin.Spinner
}

func NewSpinner(w io.Writer, message string) (*Spinner, error) {
	spin, err := yacspin.New(yacspin.Config{
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[14],
		Writer:            w,
		Suffix:            " ",
		Message:           message,
		StopCharacter:     "✓",
		StopFailCharacter: "✗",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}
	if err = spin.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}
	return &Spinner{spin: spin}, nil
}

// Done stops the spinner with a final message, marking the step failed unless success is set.
func (s *Spinner) Done(success bool, message string) {
	if success {
		s.spin.StopMessage(message)
		_ = s.spin.Stop()
		return
	}
	s.spin.StopFailMessage(message)
	_ = s.spin.StopFail()
}
