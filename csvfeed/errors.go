package csvfeed

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrLineTooLong is returned when a line exceeds the reader's maximum length.
	ErrLineTooLong = errors.New("line too long")
	// ErrReadFailed is returned when the underlying reader fails.
	ErrReadFailed = errors.New("read error")
)

// LineError attaches the 1-based number of the offending input line to an error.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s (Line %d)", e.Err, e.Line)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// AtLine wraps err with a line number. A nil err stays nil.
func AtLine(line int, err error) error {
	if err == nil {
		return nil
	}
	return &LineError{Line: line, Err: err}
}

// LineOf returns the line number carried by err, or 0 if it has none.
func LineOf(err error) int {
	var le *LineError
	if errors.As(err, &le) {
		return le.Line
	}
	return 0
}
