package logging

import (
	"encoding/json"
	"path/filepath"

	"github.com/rs/zerolog"

	"xtgeoip/ipaddresses"
)

type fileReportLogger struct {
	file         LogFile
	logger       zerolog.Logger
	writelogline chan []byte
	writeDone    chan bool
}

// NewFileReportLogger creates a report logger that appends one JSON line per entry to a file.
// It is safe for concurrent use.
func NewFileReportLogger(fileSystem LogFileSystem, logger zerolog.Logger, path string) (ReportLogger, error) {
	r := &fileReportLogger{logger: logger}

	dir := filepath.Dir(path)
	if err := fileSystem.MkDir(dir); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create the report directory")
		return nil, err
	}

	var err error
	r.file, err = fileSystem.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("Failed to open the report file")
		return nil, err
	}

	r.writelogline = make(chan []byte)
	r.writeDone = make(chan bool)
	go func() {
		for v := range r.writelogline {
			if err := r.file.Append(append(v, '\n')); err != nil {
				r.logger.Error().Err(err).Str("file", path).Msg("Failed to append to the report file")
			}
			r.writeDone <- true
		}
		close(r.writeDone)
	}()

	return r, nil
}

func (l *fileReportLogger) CountriesLoaded(feed string, countries int, err error) {
	l.write(newCountriesEntry(feed, countries, err))
}

func (l *fileReportLogger) RangesCompiled(family ipaddresses.Family, feed string, rows int, err error) {
	l.write(newRangesEntry(family, feed, rows, err))
}

func (l *fileReportLogger) Close() error {
	close(l.writelogline)
	for range l.writeDone {
	}
	return l.file.Close()
}

func (l *fileReportLogger) write(entry *reportEntry) {
	bb, err := json.Marshal(entry)
	if err != nil {
		l.logger.Error().Err(err).Msg("Error while marshaling JSON report entry")
		return
	}

	l.writelogline <- bb
	<-l.writeDone
}
