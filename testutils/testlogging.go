package testutils

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// NewTestLogger creates a zerolog.Logger that writes to the test's log at debug level.
func NewTestLogger(t testing.TB) zerolog.Logger {
	w := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = testWriter{t}
		w.NoColor = true
		w.PartsExclude = []string{zerolog.TimestampFieldName}
	})
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Caller().Logger()
}

type testWriter struct {
	t testing.TB
}

func (tw testWriter) Write(p []byte) (n int, err error) {
	tw.t.Helper()
	tw.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}
