// Package snapshot reads and writes model snapshots: the JSON or YAML
// documents exported from the BIM host that stand in for the live model.
//
// A trailing ".sz" on the file name selects snappy framing around either
// codec, e.g. "tower.json.sz".
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-mepflow/pkg/logging"
	"github.com/dd0wney/cluso-mepflow/pkg/metrics"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
	"github.com/dd0wney/cluso-mepflow/pkg/validation"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
)

// Codec is the document encoding
type Codec string

const (
	CodecJSON Codec = "json"
	CodecYAML Codec = "yaml"
)

// CompressedSuffix marks snappy-framed files
const CompressedSuffix = ".sz"

// Format describes how a snapshot file is encoded
type Format struct {
	Codec      Codec
	Compressed bool
}

// String returns a label such as "json" or "yaml+snappy"
func (f Format) String() string {
	if f.Compressed {
		return string(f.Codec) + "+snappy"
	}
	return string(f.Codec)
}

// DetectFormat derives the format from a file name
func DetectFormat(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))

	var f Format
	if strings.HasSuffix(name, CompressedSuffix) {
		f.Compressed = true
		name = strings.TrimSuffix(name, CompressedSuffix)
	}

	switch filepath.Ext(name) {
	case ".json":
		f.Codec = CodecJSON
	case ".yaml", ".yml":
		f.Codec = CodecYAML
	default:
		return Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	return f, nil
}

// Decode reads a document in the given format
func Decode(r io.Reader, f Format) (*model.Document, error) {
	if f.Compressed {
		r = snappy.NewReader(r)
	}

	var doc model.Document
	switch f.Codec {
	case CodecJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode json snapshot: %w", err)
		}
	case CodecYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode yaml snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: codec %q", ErrUnsupportedFormat, f.Codec)
	}

	if err := normalize(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode writes a document in the given format
func Encode(w io.Writer, doc *model.Document, f Format) (err error) {
	if f.Compressed {
		sw := snappy.NewBufferedWriter(w)
		defer func() {
			if closeErr := sw.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to flush snappy stream: %w", closeErr)
			}
		}()
		w = sw
	}

	switch f.Codec {
	case CodecJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json snapshot: %w", err)
		}
	case CodecYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml snapshot: %w", err)
		}
	default:
		return fmt.Errorf("%w: codec %q", ErrUnsupportedFormat, f.Codec)
	}
	return nil
}

// normalize fills defaults and rejects documents no command can use
func normalize(doc *model.Document) error {
	if doc.LengthUnit == "" {
		doc.LengthUnit = "ft"
	}
	if err := validation.ValidateSite(doc.Site); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for i := range doc.Elements {
		for j := range doc.Elements[i].Connectors {
			c := &doc.Elements[i].Connectors[j]
			c.Direction = c.Direction.Normalize()
		}
	}
	return nil
}

// Loader reads and writes snapshot files, recording metrics for each load
type Loader struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewLoader creates a loader. A nil registry disables metrics.
func NewLoader(logger logging.Logger, reg *metrics.Registry) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{
		logger:  logger.With(logging.Component("snapshot")),
		metrics: reg,
	}
}

// Load reads a snapshot file through a read-only memory map
func (l *Loader) Load(path string) (*model.Document, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc, size, err := load(path, f)
	status := "success"
	if err != nil {
		status = "error"
	}
	if l.metrics != nil {
		l.metrics.RecordSnapshotLoad(f.String(), status, size, time.Since(start))
	}
	if err != nil {
		l.logger.Error("snapshot load failed", logging.Path(path), logging.Error(err))
		return nil, err
	}

	l.logger.Info("snapshot loaded",
		logging.Path(path),
		logging.String("format", f.String()),
		logging.Int("elements", len(doc.Elements)),
		logging.Latency(time.Since(start)))
	return doc, nil
}

func load(path string, f Format) (*model.Document, int64, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer r.Close()

	size := int64(r.Len())
	doc, err := Decode(io.NewSectionReader(r, 0, size), f)
	if err != nil {
		return nil, size, err
	}
	return doc, size, nil
}

// Save writes a snapshot file. The format follows the file name.
func (l *Loader) Save(path string, doc *model.Document) error {
	if err := Save(path, doc); err != nil {
		l.logger.Error("snapshot save failed", logging.Path(path), logging.Error(err))
		return err
	}
	l.logger.Info("snapshot saved", logging.Path(path), logging.Count(len(doc.Elements)))
	return nil
}

// Load reads a snapshot file without metrics or logging
func Load(path string) (*model.Document, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	doc, _, err := load(path, f)
	return doc, err
}

// Save writes doc to path, replacing the file only once it is complete
func Save(path string, doc *model.Document) error {
	f, err := DetectFormat(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc, f); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
