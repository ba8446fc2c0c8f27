package closer

import (
	"context"
	"errors"
	"io"
	"net"
	"os"

	"github.com/rs/zerolog/log"
)

// CloseWithLogOnError will close the given resource and log any relevant failure
func CloseWithLogOnError(name string, c io.Closer) {
	err := c.Close()
	if err == nil || errors.Is(err, os.ErrClosed) || errors.Is(err, net.ErrClosed) {
		return
	}

	l := log.With().CallerWithSkipFrameCount(3).Logger() //nolint:gomnd
	l.Err(err).Msgf("Failed to close %s", name)
}

// DrainAndCloseWithLogOnError reads the rest of an HTTP body so the connection can be reused, then closes it.
func DrainAndCloseWithLogOnError(ctx context.Context, name string, c io.ReadCloser) {
	if _, err := io.Copy(io.Discard, c); err != nil && !errors.Is(err, context.Canceled) {
		log.Ctx(ctx).Debug().Err(err).Msgf("Failed to drain %s", name)
	}
	CloseWithLogOnError(name, c)
}
