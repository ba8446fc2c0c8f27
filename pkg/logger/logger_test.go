//go:build unit || !integration

package logger

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *strings.Builder {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	oldLevel := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
		zerolog.SetGlobalLevel(oldLevel)
	})

	var logging strings.Builder
	configureLogging(LogModeDefault, "debug", func(w *zerolog.ConsoleWriter) {
		w.Out = &logging
		w.NoColor = true
	})
	return &logging
}

func TestConfigureLogging(t *testing.T) {
	logging := captureLogs(t)

	log.Error().Str("CallID", "7").Msg("testing message")

	actual := logging.String()
	t.Log(actual)

	assert.Contains(t, actual, "testing message", "Log statement doesn't contain the log message")
	assert.Contains(t, actual, "[CallID:7]", "Log statement doesn't contain the field")
	assert.Contains(t, actual, "logger/logger_test.go", "Log statement doesn't contain the short caller path")
}

func TestContextWithComponentLogger(t *testing.T) {
	logging := captureLogs(t)

	ctx := ContextWithComponentLogger(context.Background(), "indexer")
	log.Ctx(ctx).Info().Msg("connected")

	assert.Contains(t, logging.String(), "[Component:indexer]")
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, parseLevel("TRACE"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}

func TestParseLogMode(t *testing.T) {
	mode, err := ParseLogMode("JSON")
	require.NoError(t, err)
	assert.Equal(t, LogModeJSON, mode)

	mode, err = ParseLogMode("")
	require.NoError(t, err)
	assert.Equal(t, LogModeDefault, mode)

	_, err = ParseLogMode("xml")
	require.Error(t, err)
}

func TestShortenCaller(t *testing.T) {
	assert.Equal(t, "signer/signer.go", shortenCaller("/home/dev/oracle/pkg/signer/signer.go"))
	assert.Equal(t, "main.go", shortenCaller("main.go"))
}
