package eventhandler

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// Tracer is a DeployEventHandler that appends every received event to a file as a JSON line.
//
// Note that we don't need any mutexes here because writing to an os.File is
// thread-safe (see https://github.com/rs/zerolog/blob/master/writer.go#L33)
type Tracer struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

const eventTracerFilePerms fs.FileMode = 0644

// NewTracerToFile returns a Tracer that writes to the specified filename, or an
// error if the file can't be opened.
func NewTracerToFile(filename string) (*Tracer, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, eventTracerFilePerms)
	if err != nil {
		return nil, err
	}

	return &Tracer{
		LogFile: file,
		Logger:  zerolog.New(file).With().Timestamp().Logger(),
	}, nil
}

func (t *Tracer) HandleDeployEvent(ctx context.Context, event DeployEvent) error {
	t.Logger.Log().
		Str("DeployHash", event.DeployHash.String()).
		Func(func(e *zerolog.Event) {
			eventJSON, err := json.Marshal(event)
			if err == nil {
				e.RawJSON("Event", eventJSON)
			} else {
				e.AnErr("MarshalError", err)
			}
		}).Send()
	return nil
}

func (t *Tracer) Shutdown() error {
	if t.LogFile == nil {
		return nil
	}
	err := t.LogFile.Close()
	t.LogFile = nil
	t.Logger = zerolog.Nop()
	return err
}

var _ DeployEventHandler = (*Tracer)(nil)
