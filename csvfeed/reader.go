package csvfeed

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

const (
	// DefaultMaxFields is the number of fields a line is split into at most.
	DefaultMaxFields = 16
	// DefaultMaxLineLength bounds the length of a single input line.
	DefaultMaxLineLength = 64 * 1024
)

var (
	// ErrMissingColumns is returned when the header lacks one of the required columns.
	ErrMissingColumns = errors.New("required columns not found in header")
	// ErrInsufficientColumns is returned for a data line with fewer fields than the header requires.
	ErrInsufficientColumns = errors.New("insufficient columns")
)

// Reader reads a feed with a header row line by line. Empty lines are skipped
// but still counted, so reported line numbers match the input.
type Reader struct {
	MaxFields int

	scanner *bufio.Scanner
	line    int
	columns Columns
}

// NewReader creates a Reader that accepts lines up to maxLineLength bytes, not
// counting the newline. A maxLineLength of 0 selects DefaultMaxLineLength.
func NewReader(r io.Reader, maxLineLength int) *Reader {
	if maxLineLength <= 0 {
		maxLineLength = DefaultMaxLineLength
	}

	initial := 4096
	if maxLineLength < initial {
		initial = maxLineLength
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, initial), maxLineLength+1)

	return &Reader{MaxFields: DefaultMaxFields, scanner: s}
}

// Line returns the number of the line most recently read.
func (r *Reader) Line() int {
	return r.line
}

// Columns returns the columns located by ReadHeader.
func (r *Reader) Columns() Columns {
	return r.columns
}

// ReadHeader reads the header row and locates the required columns in it.
// It returns io.EOF if the input holds no lines at all.
func (r *Reader) ReadHeader(required []string) (Columns, error) {
	fields, err := r.next()
	if err != nil {
		return Columns{}, err
	}

	r.columns = DetectColumns(fields, required)
	if !r.columns.Complete() {
		return r.columns, AtLine(r.line, ErrMissingColumns)
	}

	return r.columns, nil
}

// Next returns the fields of the next non-empty line, or io.EOF once the input is exhausted.
// Lines too short to hold every column found by ReadHeader are rejected.
func (r *Reader) Next() ([]string, error) {
	fields, err := r.next()
	if err != nil {
		return nil, err
	}

	if len(fields) < r.columns.Highest+1 {
		return nil, AtLine(r.line, ErrInsufficientColumns)
	}

	return fields, nil
}

func (r *Reader) next() ([]string, error) {
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if text == "" {
			continue
		}
		return Tokenize(text, r.MaxFields), nil
	}

	if err := r.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, AtLine(r.line+1, ErrLineTooLong)
		}
		return nil, AtLine(r.line+1, errors.Wrap(ErrReadFailed, err.Error()))
	}

	return nil, io.EOF
}
