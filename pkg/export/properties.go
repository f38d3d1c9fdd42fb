package export

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dd0wney/cluso-mepflow/pkg/logging"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

var matrixIdentity = []string{"ElementId", "UniqueId", "Category", "Name"}

// PropertyMatrix is the sparse element-by-parameter table of the
// properties export
type PropertyMatrix struct {
	// Parameters is the sorted union of parameter names
	Parameters []string
	elements   []*model.Element
	values     []map[string]string
}

// BuildPropertyMatrix collects every non-type element visible in the view.
// When an element repeats a parameter name the last value wins.
func BuildPropertyMatrix(doc *model.Document) *PropertyMatrix {
	m := &PropertyMatrix{}
	names := make(map[string]struct{})

	for i := range doc.Elements {
		el := &doc.Elements[i]
		if el.IsElementType || !el.VisibleInView {
			continue
		}
		values := make(map[string]string, len(el.Parameters))
		for _, p := range el.Parameters {
			if p.Name == "" {
				continue
			}
			values[p.Name] = p.FormattedValue()
			names[p.Name] = struct{}{}
		}
		m.elements = append(m.elements, el)
		m.values = append(m.values, values)
	}

	m.Parameters = make([]string, 0, len(names))
	for name := range names {
		m.Parameters = append(m.Parameters, name)
	}
	sort.Strings(m.Parameters)
	return m
}

// Len returns the number of element rows
func (m *PropertyMatrix) Len() int {
	return len(m.elements)
}

// Header returns the identity columns followed by the parameter columns
func (m *PropertyMatrix) Header() []string {
	header := append([]string(nil), matrixIdentity...)
	for _, name := range m.Parameters {
		header = append(header, Sanitize(name))
	}
	return header
}

// Row returns row i; parameters the element lacks are blank
func (m *PropertyMatrix) Row(i int) []string {
	el := m.elements[i]
	row := []string{
		strconv.FormatInt(el.ID, 10),
		el.UniqueID,
		el.CategoryName,
		Sanitize(el.Name),
	}
	values := m.values[i]
	for _, name := range m.Parameters {
		row = append(row, values[name])
	}
	return row
}

// WriteProperties writes the property matrix of doc to w
func (e *Exporter) WriteProperties(ctx context.Context, w io.Writer, doc *model.Document) (rows int, retErr error) {
	m := BuildPropertyMatrix(doc)
	timer := logging.StartTimer(e.logger, "properties export",
		logging.Int("parameters", len(m.Parameters)))

	rw := newRowWriter(w)
	defer func() {
		if err := rw.flush(); err != nil && retErr == nil {
			retErr = err
		}
		rows = rw.rows
		if retErr != nil {
			timer.EndError(retErr)
			return
		}
		timer.End(logging.Int("rows", rows))
	}()

	if err := rw.header(m.Header()); err != nil {
		return 0, err
	}
	for i := 0; i < m.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("properties export cancelled: %w", err)
		}
		if err := rw.write(m.Row(i)); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

// WritePropertiesTo writes the property matrix to sink and closes it
func (e *Exporter) WritePropertiesTo(ctx context.Context, sink Sink, doc *model.Document) (rows int, retErr error) {
	defer func() {
		if err := sink.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	return e.WriteProperties(ctx, sink, doc)
}
