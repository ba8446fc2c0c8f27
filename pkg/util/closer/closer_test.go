//go:build unit || !integration

package closer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	old := log.Logger
	t.Cleanup(func() {
		log.Logger = old
	})

	var b bytes.Buffer
	log.Logger = log.With().Str("foo", "bar").Logger().Output(&b)
	return &b
}

func TestCloseWithLogOnError_noErrors(t *testing.T) {
	b := captureLog(t)
	CloseWithLogOnError(t.Name(), closer{nil})
	assert.Equal(t, "", b.String())
}

func TestCloseWithLogOnError_logsErrors(t *testing.T) {
	b := captureLog(t)

	CloseWithLogOnError(t.Name(), closer{fmt.Errorf("error message")})

	var content map[string]string
	require.NoError(t, json.Unmarshal(b.Bytes(), &content))

	assert.Equal(t, "bar", content["foo"])
	assert.NotEmpty(t, content["message"])
	assert.Contains(t, content["caller"], "closer_test.go", "%s should point to the function call", content["caller"])
}

func TestCloseWithLogOnError_ignoresAlreadyClosed(t *testing.T) {
	tests := []error{os.ErrClosed, net.ErrClosed}
	for _, test := range tests {
		t.Run(test.Error(), func(t *testing.T) {
			b := captureLog(t)
			CloseWithLogOnError(t.Name(), closer{test})
			assert.Equal(t, "", b.String())
		})
	}
}

func TestDrainAndCloseWithLogOnError(t *testing.T) {
	b := captureLog(t)

	body := &readCloser{Reader: strings.NewReader("unread body")}
	DrainAndCloseWithLogOnError(context.Background(), t.Name(), body)

	assert.True(t, body.closed)
	n, _ := body.Read(make([]byte, 1))
	assert.Zero(t, n, "body should have been drained")
	assert.Equal(t, "", b.String())
}

var _ io.Closer = closer{}

type closer struct {
	err error
}

func (c closer) Close() error {
	return c.err
}

type readCloser struct {
	io.Reader
	closed bool
}

func (r *readCloser) Close() error {
	r.closed = true
	return nil
}
