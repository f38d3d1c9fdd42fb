package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/cluso-mepflow/pkg/connectivity"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/graph"
	"github.com/dd0wney/cluso-mepflow/pkg/logging"
	"github.com/dd0wney/cluso-mepflow/pkg/metrics"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
	"github.com/dd0wney/cluso-mepflow/pkg/model/modeltest"
)

func newExporter(t *testing.T, doc *model.Document, reg *metrics.Registry) *Exporter {
	t.Helper()
	g, err := graph.Build(doc)
	require.NoError(t, err)
	proj := geo.NewProjection(doc, geo.Feet, 0)
	return NewExporter(connectivity.NewResolver(g, nil), proj, logging.NewNopLogger(), reg)
}

func readCSV(t *testing.T, r io.Reader) [][]string {
	t.Helper()
	records, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	return records
}

// pipe P -> valve V, plus a fitting and an element type
func network() *model.Document {
	b := modeltest.New().
		Pipe("P").
		Equipment("V", "Gate Valve").
		Fitting("F")
	b.Connect("P", model.DirectionOut, "V", model.DirectionIn)
	b.Connect("P", model.DirectionIn, "F", model.DirectionOut)
	b.Element(model.Element{
		UniqueID:      "type-1",
		Category:      model.CategoryPipeCurves,
		Kind:          model.KindOther,
		IsElementType: true,
	})
	b.Element(model.Element{
		UniqueID: "tag-1",
		Category: "OST_PipeTags",
		Kind:     model.KindOther,
		Location: &model.Location{Point: &model.XYZ{}},
	})
	return b.Doc()
}

func TestRun_FlowExport(t *testing.T) {
	e := newExporter(t, network(), nil)

	var buf bytes.Buffer
	sum, err := e.Run(context.Background(), &buf, Options{Variant: VariantFlow, SkipAccessories: true})
	require.NoError(t, err)

	records := readCSV(t, &buf)
	require.Len(t, records, 4, "header + 2 pipe rows + 1 valve row")
	assert.Equal(t, FlowHeader(), records[0])

	start, end, valve := records[1], records[2], records[3]
	assert.Equal(t, []string{"P", "Pipes", "Pipe P", "Start"}, start[:4])
	assert.Equal(t, "End", end[3])
	assert.Equal(t, "3.0480", end[4], "10 ft east")
	assert.Equal(t, "0.00000000", end[7])
	assert.Equal(t, "0.00002738", end[8])
	assert.Equal(t, end[6], end[9], "altitude repeats elevation")

	// Valve_OUT of the pipe; the fitting is a dead end so no Pipe_IN
	assert.Equal(t, "V", start[13])
	assert.Equal(t, "", start[10])

	assert.Equal(t, "V", valve[0])
	assert.Equal(t, "Location", valve[3])
	assert.Equal(t, "P", valve[10], "valve sees the pipe on its inlet")

	assert.Equal(t, 2, sum.Visited)
	assert.Equal(t, 2, sum.Exported)
	assert.Equal(t, 3, sum.Rows)
	assert.Zero(t, sum.SkipCount())
	_, err = uuid.Parse(sum.RunID)
	assert.NoError(t, err)
}

func TestRun_FittingsExportedWhenNotSkipping(t *testing.T) {
	e := newExporter(t, network(), nil)

	var buf bytes.Buffer
	sum, err := e.Run(context.Background(), &buf, Options{Variant: VariantFlow})
	require.NoError(t, err)

	records := readCSV(t, &buf)
	var uids []string
	for _, r := range records[1:] {
		uids = append(uids, r[0])
	}
	assert.Contains(t, uids, "F")
	assert.NotContains(t, uids, "type-1")
	assert.NotContains(t, uids, "tag-1")
	assert.Equal(t, 3, sum.Visited)
}

// A malformed element in the middle of a batch only costs its
// own rows.
func TestRun_PartialFailureIsolation(t *testing.T) {
	b := modeltest.New().
		Pipe("A").
		Pipe("BAD").
		Equipment("C", "Inline Pump")
	b.Mutate("BAD", func(el *model.Element) {
		el.Location.Curve = append(el.Location.Curve, model.XYZ{X: 20})
	})
	b.Connect("A", model.DirectionOut, "C", model.DirectionIn)

	reg := metrics.NewRegistry()
	e := newExporter(t, b.Doc(), reg)

	var buf bytes.Buffer
	sum, err := e.Run(context.Background(), &buf, Options{Variant: VariantFlow, SkipAccessories: true})
	require.NoError(t, err)

	records := readCSV(t, &buf)
	require.Len(t, records, 4)
	assert.Equal(t, "A", records[1][0])
	assert.Equal(t, "A", records[2][0])
	assert.Equal(t, "C", records[3][0])
	assert.Equal(t, "C", records[1][15], "pump on the pipe's outlet")

	require.Equal(t, 1, sum.SkipCount())
	assert.Equal(t, "BAD", sum.Skipped[0].UniqueID)
	assert.Equal(t, ReasonElementFault, sum.Skipped[0].Reason)
	assert.ErrorIs(t, sum.Skipped[0].Err, graph.ErrInvalidElement)

	c, err := reg.ExportSkipsTotal.GetMetricWithLabelValues(ReasonElementFault)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
}

func TestRun_DanglingReferenceSkipsOnlyOwner(t *testing.T) {
	b := modeltest.New().Pipe("A").Pipe("B")
	ca := b.Connector("A", model.DirectionOut)
	b.Ref("A", ca, "ghost#0")

	e := newExporter(t, b.Doc(), nil)
	var buf bytes.Buffer
	sum, err := e.Run(context.Background(), &buf, Options{})
	require.NoError(t, err)

	assert.Equal(t, VariantFlow, sum.Variant, "empty variant defaults to flow")
	require.Equal(t, 1, sum.SkipCount())
	assert.Equal(t, "A", sum.Skipped[0].UniqueID)
	assert.ErrorIs(t, sum.Skipped[0].Err, graph.ErrDanglingReference)
	assert.Equal(t, 2, sum.Rows)
}

func TestRun_ElementWithoutLocationHasNoRows(t *testing.T) {
	b := modeltest.New().Equipment("E", "Chiller")
	b.Mutate("E", func(el *model.Element) { el.Location = nil })

	e := newExporter(t, b.Doc(), nil)
	var buf bytes.Buffer
	sum, err := e.Run(context.Background(), &buf, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Exported)
	assert.Zero(t, sum.Rows)
	assert.Zero(t, sum.SkipCount())
}

func TestRun_LegacyVariant(t *testing.T) {
	e := newExporter(t, network(), nil)

	var buf bytes.Buffer
	sum, err := e.Run(context.Background(), &buf, Options{Variant: VariantLegacy, SkipAccessories: true})
	require.NoError(t, err)

	records := readCSV(t, &buf)
	assert.Equal(t, LegacyHeader(), records[0])

	byUID := make(map[string]string)
	for _, r := range records[1:] {
		byUID[r[0]] = r[len(r)-1]
	}
	assert.Equal(t, "V|F", byUID["P"])
	assert.Equal(t, "P", byUID["V"])
	assert.Equal(t, "P", byUID["F"], "legacy export always includes fittings")
	assert.Equal(t, 3, sum.Visited)
}

func TestRun_UnknownVariant(t *testing.T) {
	e := newExporter(t, network(), nil)
	_, err := e.Run(context.Background(), io.Discard, Options{Variant: "xml"})
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestRun_Cancelled(t *testing.T) {
	e := newExporter(t, network(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &memorySink{}
	_, err := e.ExportTo(ctx, sink, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, sink.closed, "sink must be closed on abort")
}

func TestRun_SinkFailureIsFatal(t *testing.T) {
	e := newExporter(t, network(), metrics.NewRegistry())

	_, err := e.Run(context.Background(), failingWriter{}, Options{})
	assert.ErrorIs(t, err, ErrSinkFailed)
}

func TestExportTo_CloseErrorReported(t *testing.T) {
	e := newExporter(t, network(), nil)
	sink := &memorySink{closeErr: errors.New("disk full")}

	sum, err := e.ExportTo(context.Background(), sink, Options{})
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, "memory", sum.Location)
}

func TestExportToFile_Compressed(t *testing.T) {
	reg := metrics.NewRegistry()
	e := newExporter(t, network(), reg)
	path := filepath.Join(t.TempDir(), "flow.csv.sz")

	sum, err := e.ExportToFile(context.Background(), path, Options{SkipAccessories: true})
	require.NoError(t, err)
	assert.Equal(t, path, sum.Location)

	rc, err := OpenExport(path)
	require.NoError(t, err)
	defer rc.Close()
	records := readCSV(t, rc)
	assert.Len(t, records, 4)

	runs, err := reg.ExportRunsTotal.GetMetricWithLabelValues("flow", "success")
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, runs.Write(&m))
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
}

func TestExportToFile_BadPath(t *testing.T) {
	e := newExporter(t, network(), nil)
	_, err := e.ExportToFile(context.Background(), filepath.Join(t.TempDir(), "no", "such", "dir.csv"), Options{})
	assert.ErrorIs(t, err, ErrSinkFailed)
}

func TestCategories(t *testing.T) {
	assert.Len(t, Categories(Options{Variant: VariantFlow, SkipAccessories: true}), 3)
	assert.Len(t, Categories(Options{Variant: VariantFlow}), 5)
	assert.Len(t, Categories(Options{Variant: VariantLegacy, SkipAccessories: true}), 5)
}

type memorySink struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (s *memorySink) Close() error {
	s.closed = true
	return s.closeErr
}

func (s *memorySink) Location() string { return "memory" }

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("device unplugged")
}
