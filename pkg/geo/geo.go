// Package geo converts model coordinates into shared coordinates and an
// approximate latitude/longitude.
//
// The latitude/longitude is an equirectangular small-angle approximation
// around the site anchor, not a geodesic projection. It is accurate for
// site-sized extents and degrades with distance from the project origin.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

// DefaultEarthRadius is the WGS84 equatorial radius in meters
const DefaultEarthRadius = 6378137.0

var (
	ErrUnknownUnit = errors.New("unknown length unit")
	ErrNoBasePoint = errors.New("project base point not found")
)

// Unit converts the host's internal length unit to meters
type Unit struct {
	Name          string
	MetersPerUnit float64
}

var units = map[string]Unit{
	"ft": {Name: "ft", MetersPerUnit: 0.3048},
	"in": {Name: "in", MetersPerUnit: 0.0254},
	"mm": {Name: "mm", MetersPerUnit: 0.001},
	"cm": {Name: "cm", MetersPerUnit: 0.01},
	"m":  {Name: "m", MetersPerUnit: 1},
}

// Feet is the host's default internal unit
var Feet = units["ft"]

// ParseUnit looks up a unit by name; an empty name means feet
func ParseUnit(name string) (Unit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Feet, nil
	}
	u, ok := units[name]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return u, nil
}

// UnitNames lists the accepted unit names
func UnitNames() []string {
	return []string{"ft", "in", "mm", "cm", "m"}
}

// ToMeters converts a length in this unit to meters
func (u Unit) ToMeters(v float64) float64 {
	return v * u.MetersPerUnit
}

// SiteAnchor is the latitude/longitude of the project origin, in radians
type SiteAnchor struct {
	LatitudeRad  float64
	LongitudeRad float64
}

// AnchorFromSite converts the snapshot site
func AnchorFromSite(s model.Site) SiteAnchor {
	return SiteAnchor{LatitudeRad: s.LatitudeRad, LongitudeRad: s.LongitudeRad}
}

// LatitudeDeg returns the anchor latitude in degrees
func (a SiteAnchor) LatitudeDeg() float64 {
	return a.LatitudeRad * 180.0 / math.Pi
}

// LongitudeDeg returns the anchor longitude in degrees
func (a SiteAnchor) LongitudeDeg() float64 {
	return a.LongitudeRad * 180.0 / math.Pi
}

// Projection is the site-wide projection setup for one export run
type Projection struct {
	Shared      model.Transform
	Site        SiteAnchor
	Unit        Unit
	EarthRadius float64
}

// NewProjection builds a projection from a snapshot. A missing shared
// transform is the identity, a zero radius is DefaultEarthRadius.
func NewProjection(doc *model.Document, unit Unit, earthRadius float64) Projection {
	shared := model.Identity()
	if doc.SharedTransform != nil {
		shared = *doc.SharedTransform
	}
	if earthRadius <= 0 {
		earthRadius = DefaultEarthRadius
	}
	return Projection{
		Shared:      shared,
		Site:        AnchorFromSite(doc.Site),
		Unit:        unit,
		EarthRadius: earthRadius,
	}
}

// Projected is the geographic payload of one point
type Projected struct {
	EastingM   float64
	NorthingM  float64
	ElevationM float64
	LatDeg     float64
	LonDeg     float64
}

// Project converts a local point. Easting/northing/elevation come from the
// shared-coordinate point; the lat/lon offset uses the local X/Y.
func (p Projection) Project(local model.XYZ) Projected {
	shared := p.Shared.OfPoint(local)

	northM := p.Unit.ToMeters(local.Y)
	eastM := p.Unit.ToMeters(local.X)

	latOffset := northM / p.EarthRadius
	lonOffset := eastM / (p.EarthRadius * math.Cos(p.Site.LatitudeRad))

	return Projected{
		EastingM:   p.Unit.ToMeters(shared.X),
		NorthingM:  p.Unit.ToMeters(shared.Y),
		ElevationM: p.Unit.ToMeters(shared.Z),
		LatDeg:     (p.Site.LatitudeRad + latOffset) * (180.0 / math.Pi),
		LonDeg:     (p.Site.LongitudeRad + lonOffset) * (180.0 / math.Pi),
	}
}
