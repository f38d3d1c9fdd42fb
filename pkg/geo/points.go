package geo

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

// Point labels
const (
	LabelStart    = "Start"
	LabelEnd      = "End"
	LabelLocation = "Location"
)

// PointRecord is one exported point of an element
type PointRecord struct {
	Label string
	Local model.XYZ
	Projected
}

// LabeledPoint is a local point before projection
type LabeledPoint struct {
	Label string
	Point model.XYZ
}

// ElementPoints returns the points exported for an element: both curve
// endpoints, or the placement point, or nothing when there is no location.
func ElementPoints(el *model.Element) ([]LabeledPoint, error) {
	loc := el.Location
	if loc == nil {
		return nil, nil
	}
	if len(loc.Curve) > 0 {
		if len(loc.Curve) != 2 {
			return nil, fmt.Errorf("curve has %d endpoints", len(loc.Curve))
		}
		return []LabeledPoint{
			{Label: LabelStart, Point: loc.Curve[0]},
			{Label: LabelEnd, Point: loc.Curve[1]},
		}, nil
	}
	if loc.Point != nil {
		return []LabeledPoint{{Label: LabelLocation, Point: *loc.Point}}, nil
	}
	return nil, nil
}

// Records projects every point of an element
func (p Projection) Records(el *model.Element) ([]PointRecord, error) {
	points, err := ElementPoints(el)
	if err != nil {
		return nil, err
	}
	records := make([]PointRecord, 0, len(points))
	for _, lp := range points {
		records = append(records, PointRecord{
			Label:     lp.Label,
			Local:     lp.Point,
			Projected: p.Project(lp.Point),
		})
	}
	return records, nil
}

// RotateZ rotates p counter-clockwise by angleRad about the vertical axis
// through origin.
func RotateZ(p, origin model.XYZ, angleRad float64) model.XYZ {
	sin, cos := math.Sincos(angleRad)
	d := p.Sub(origin)
	return model.XYZ{
		X: origin.X + d.X*cos - d.Y*sin,
		Y: origin.Y + d.X*sin + d.Y*cos,
		Z: p.Z,
	}
}

// RotateLocation rotates every point of a location in place
func RotateLocation(loc *model.Location, origin model.XYZ, angleRad float64) {
	if loc == nil {
		return
	}
	for i := range loc.Curve {
		loc.Curve[i] = RotateZ(loc.Curve[i], origin, angleRad)
	}
	if loc.Point != nil {
		rotated := RotateZ(*loc.Point, origin, angleRad)
		loc.Point = &rotated
	}
}

// RotateModel rotates every model-category element instance of doc about
// the project base point. It returns the number of elements rotated.
func RotateModel(doc *model.Document, angleRad float64) (int, error) {
	if doc.BasePoint == nil {
		return 0, ErrNoBasePoint
	}
	origin := *doc.BasePoint

	rotated := 0
	for i := range doc.Elements {
		el := &doc.Elements[i]
		if el.IsElementType || !el.HasCategory() || el.CategoryType != model.CategoryTypeModel {
			continue
		}
		RotateLocation(el.Location, origin, angleRad)
		rotated++
	}
	return rotated, nil
}
