package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// rowWriter writes CSV records. Values are sanitized before they get here,
// so encoding/csv only quotes fields that carry a quote or a line break.
type rowWriter struct {
	csv  *csv.Writer
	rows int
}

func newRowWriter(w io.Writer) *rowWriter {
	return &rowWriter{csv: csv.NewWriter(w)}
}

func (rw *rowWriter) header(record []string) error {
	if err := rw.csv.Write(record); err != nil {
		return fmt.Errorf("%w: failed to write CSV header: %w", ErrSinkFailed, err)
	}
	return nil
}

func (rw *rowWriter) write(record []string) error {
	if err := rw.csv.Write(record); err != nil {
		return fmt.Errorf("%w: failed to write CSV record: %w", ErrSinkFailed, err)
	}
	rw.rows++
	return nil
}

// flush must run on every exit path, the buffered tail is lost otherwise
func (rw *rowWriter) flush() error {
	rw.csv.Flush()
	if err := rw.csv.Error(); err != nil {
		return fmt.Errorf("%w: CSV writer flush error: %w", ErrSinkFailed, err)
	}
	return nil
}
