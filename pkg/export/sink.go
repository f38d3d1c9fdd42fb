package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
)

// CompressedSuffix selects snappy framing for an output file
const CompressedSuffix = ".sz"

// Sink is the destination of one export file
type Sink interface {
	io.Writer
	// Close flushes and releases the sink. It must be called on every path.
	Close() error
	// Location describes where the output went
	Location() string
}

// FileSink writes to a local file, snappy-framed when the name ends in .sz
type FileSink struct {
	path string
	file *os.File
	sw   *snappy.Writer
	w    io.Writer
}

// CreateFile creates (or truncates) the output file
func CreateFile(path string) (*FileSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create export file: %w", ErrSinkFailed, err)
	}

	s := &FileSink{path: path, file: file, w: file}
	if strings.HasSuffix(strings.ToLower(path), CompressedSuffix) {
		s.sw = snappy.NewBufferedWriter(file)
		s.w = s.sw
	}
	return s, nil
}

// Write implements io.Writer
func (s *FileSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Close flushes the snappy stream, if any, then closes the file. The first
// error wins.
func (s *FileSink) Close() (retErr error) {
	if s.sw != nil {
		if err := s.sw.Close(); err != nil {
			retErr = fmt.Errorf("%w: failed to flush compressed export: %w", ErrSinkFailed, err)
		}
	}
	if err := s.file.Close(); err != nil && retErr == nil {
		retErr = fmt.Errorf("%w: failed to close export file: %w", ErrSinkFailed, err)
	}
	return retErr
}

// Location returns the file path
func (s *FileSink) Location() string {
	return s.path
}

// Compressed reports whether the file is snappy-framed
func (s *FileSink) Compressed() bool {
	return s.sw != nil
}

// OpenExport opens an export file for reading, undoing snappy framing when
// the name ends in .sz
func OpenExport(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), CompressedSuffix) {
		return file, nil
	}
	return struct {
		io.Reader
		io.Closer
	}{snappy.NewReader(file), file}, nil
}
