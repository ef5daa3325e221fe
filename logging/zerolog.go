package logging

import (
	"github.com/rs/zerolog"

	"xtgeoip/ipaddresses"
)

// NewZerologReportLogger creates a report logger that only writes to zerolog.
func NewZerologReportLogger(logger zerolog.Logger) ReportLogger {
	return &zerologReportLogger{logger: logger}
}

type zerologReportLogger struct {
	logger zerolog.Logger
}

func (l *zerologReportLogger) CountriesLoaded(feed string, countries int, err error) {
	l.log(newCountriesEntry(feed, countries, err), err)
}

func (l *zerologReportLogger) RangesCompiled(family ipaddresses.Family, feed string, rows int, err error) {
	l.log(newRangesEntry(family, feed, rows, err), err)
}

func (l *zerologReportLogger) Close() error {
	return nil
}

func (l *zerologReportLogger) log(entry *reportEntry, err error) {
	ev := l.logger.Info()
	if err != nil {
		ev = l.logger.Error().Err(err)
	}

	p := entry.Properties
	ev = ev.Str("operation", entry.OperationName).Str("feed", p.Feed).Int("count", p.Count)
	if p.Family != "" {
		ev = ev.Str("family", p.Family)
	}
	ev.Msg(p.Result)
}
