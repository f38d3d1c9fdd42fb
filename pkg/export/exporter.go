// Package export writes the CSV exports: the flow-aware coordinate export,
// its legacy single-column variant and the property matrix.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-mepflow/pkg/graph"
	"github.com/dd0wney/cluso-mepflow/pkg/logging"
)

// Run writes one export to w. Elements that fail are skipped and listed in
// the summary; only write failures and cancellation abort the run. The
// context is checked between elements.
func (e *Exporter) Run(ctx context.Context, w io.Writer, opts Options) (*Summary, error) {
	return e.execute(ctx, w, nil, opts)
}

// ExportTo writes one export to sink and closes it on every exit path
func (e *Exporter) ExportTo(ctx context.Context, sink Sink, opts Options) (*Summary, error) {
	return e.execute(ctx, sink, sink, opts)
}

// ExportToFile creates path and writes one export to it
func (e *Exporter) ExportToFile(ctx context.Context, path string, opts Options) (*Summary, error) {
	sink, err := CreateFile(path)
	if err != nil {
		e.logger.Error("export failed", logging.Path(path), logging.Error(err))
		return nil, err
	}
	return e.ExportTo(ctx, sink, opts)
}

func (e *Exporter) execute(ctx context.Context, w io.Writer, sink Sink, opts Options) (sum *Summary, retErr error) {
	if opts.Variant == "" {
		opts.Variant = VariantFlow
	}

	sum = &Summary{
		RunID:   uuid.NewString(),
		Variant: opts.Variant,
		Started: e.now(),
	}
	log := e.logger.With(logging.RunID(sum.RunID), logging.Variant(string(opts.Variant)))
	timer := logging.StartTimer(log, "export run", logging.Bool("skip_accessories", opts.SkipAccessories))

	rw := newRowWriter(w)
	defer func() {
		if err := rw.flush(); err != nil && retErr == nil {
			retErr = err
		}
		if sink != nil {
			sum.Location = sink.Location()
			if err := sink.Close(); err != nil && retErr == nil {
				retErr = err
			}
		}
		sum.Rows = rw.rows
		sum.Duration = e.now().Sub(sum.Started)
		e.finish(sum, retErr, timer)
	}()

	if _, err := ParseVariant(string(opts.Variant)); err != nil {
		return sum, err
	}
	return sum, e.write(ctx, rw, opts, sum, log)
}

func (e *Exporter) write(ctx context.Context, rw *rowWriter, opts Options, sum *Summary, log logging.Logger) error {
	header := FlowHeader()
	if opts.Variant == VariantLegacy {
		header = LegacyHeader()
	}
	if err := rw.header(header); err != nil {
		return err
	}

	filter := make(map[string]struct{})
	for _, c := range Categories(opts) {
		filter[c] = struct{}{}
	}

	g := e.resolver.Graph()
	for i := 0; i < g.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("export cancelled after %d elements: %w", sum.Visited, err)
		}

		idx := graph.NodeIndex(i)
		el := g.Element(idx)
		if el.IsElementType {
			continue
		}
		if _, ok := filter[el.Category]; !ok {
			continue
		}
		sum.Visited++

		rows, skip := e.elementRows(idx, opts)
		if skip != nil {
			sum.Skipped = append(sum.Skipped, *skip)
			log.Warn("element skipped",
				logging.UniqueID(skip.UniqueID),
				logging.Reason(skip.Reason),
				logging.Error(skip.Err))
			if e.metrics != nil {
				e.metrics.RecordElementSkipped(skip.Reason)
			}
			continue
		}

		for _, row := range rows {
			if err := rw.write(row); err != nil {
				return err
			}
		}
		sum.Exported++
		if e.metrics != nil {
			e.metrics.RecordElementExported()
		}
	}
	return nil
}

// elementRows builds every row of one element, or the reason it is skipped.
// Nothing is written for an element until all of its rows are built.
func (e *Exporter) elementRows(idx graph.NodeIndex, opts Options) ([][]string, *Outcome) {
	g := e.resolver.Graph()
	node := g.Node(idx)
	el := &node.Element

	if node.Fault != nil {
		return nil, &Outcome{UniqueID: el.UniqueID, Reason: ReasonElementFault, Err: node.Fault}
	}

	points, err := e.projection.Records(el)
	if err != nil {
		return nil, &Outcome{UniqueID: el.UniqueID, Reason: ReasonGeometry, Err: err}
	}
	if len(points) == 0 {
		return nil, nil
	}

	id := IdentityOf(el)
	rows := make([][]string, 0, len(points))

	switch opts.Variant {
	case VariantLegacy:
		connected, err := e.resolver.ConnectedIDs(idx)
		e.recordResolution("legacy", err, len(connected))
		if err != nil {
			return nil, &Outcome{UniqueID: el.UniqueID, Reason: ReasonConnectivity, Err: err}
		}
		for _, p := range points {
			rows = append(rows, LegacyRow(id, p, connected))
		}
	default:
		res, err := e.resolver.ResolveNode(idx, opts.SkipAccessories)
		mode := "direct"
		if opts.SkipAccessories {
			mode = "skip"
		}
		targets := 0
		if res != nil {
			targets = len(res.Targets())
		}
		e.recordResolution(mode, err, targets)
		if err != nil {
			return nil, &Outcome{UniqueID: el.UniqueID, Reason: ReasonConnectivity, Err: err}
		}
		for _, p := range points {
			rows = append(rows, FlowRow(id, p, res))
		}
	}
	return rows, nil
}

func (e *Exporter) recordResolution(mode string, err error, targets int) {
	if e.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordResolution(mode, status, targets)
}

func (e *Exporter) finish(sum *Summary, err error, timer *logging.TimedOperation) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if e.metrics != nil {
		e.metrics.RecordExportRun(string(sum.Variant), status, sum.Duration, sum.Rows, sum.SkipCount())
	}

	if err != nil {
		timer.EndError(err)
		return
	}
	timer.End(
		logging.Int("visited", sum.Visited),
		logging.Int("exported", sum.Exported),
		logging.Int("rows", sum.Rows),
		logging.Int("skipped", sum.SkipCount()),
		logging.Path(sum.Location))
}
