// Package logging sets up console logging and the build report of a conversion run.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"xtgeoip/ipaddresses"
)

// NewConsoleLogger creates a human readable zerolog.Logger writing to w. Writes
// to w are serialized.
func NewConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: zerolog.SyncWriter(w), TimeFormat: time.RFC3339}).Level(level).With().Timestamp().Logger()
}

// ReportLogger records the outcome of each step of a conversion run.
type ReportLogger interface {
	CountriesLoaded(feed string, countries int, err error)
	RangesCompiled(family ipaddresses.Family, feed string, rows int, err error)
	Close() error
}
