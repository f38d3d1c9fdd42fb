package export

import (
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-mepflow/pkg/classify"
	"github.com/dd0wney/cluso-mepflow/pkg/connectivity"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

// ListSeparator joins the identifiers of one connectivity cell
const ListSeparator = "|"

// LegacyEmpty fills the legacy connectivity cell when nothing is connected
const LegacyEmpty = "None"

var pointColumns = []string{
	"UniqueID", "Category", "Name", "PointLabel",
	"Easting_M", "Northing_M", "Elevation_M", "Latitude", "Longitude", "Altitude_M",
}

// FlowHeader returns the header of the flow-aware export
func FlowHeader() []string {
	header := append([]string(nil), pointColumns...)
	for _, c := range classify.All {
		header = append(header, c.String()+"_IN", c.String()+"_OUT")
	}
	return header
}

// LegacyHeader returns the header of the legacy export
func LegacyHeader() []string {
	return append(append([]string(nil), pointColumns...), "Connected_UniqueIDs")
}

// Identity is the element part of every row
type Identity struct {
	UniqueID string
	Category string
	Name     string
}

// IdentityOf extracts the row identity of an element. Category is the
// display name; commas in it and in the name become semicolons.
func IdentityOf(el *model.Element) Identity {
	return Identity{
		UniqueID: el.UniqueID,
		Category: Sanitize(el.CategoryName),
		Name:     Sanitize(el.Name),
	}
}

// Sanitize replaces commas so a value never splits a CSV column
func Sanitize(s string) string {
	return strings.ReplaceAll(s, ",", ";")
}

func meters(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func degrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

func pointCells(id Identity, p geo.PointRecord) []string {
	return []string{
		id.UniqueID,
		id.Category,
		id.Name,
		p.Label,
		meters(p.EastingM),
		meters(p.NorthingM),
		meters(p.ElevationM),
		degrees(p.LatDeg),
		degrees(p.LonDeg),
		meters(p.ElevationM),
	}
}

// FlowRow builds one flow-aware data row
func FlowRow(id Identity, p geo.PointRecord, res *connectivity.Result) []string {
	row := pointCells(id, p)
	for _, c := range classify.All {
		row = append(row,
			strings.Join(res.In(c), ListSeparator),
			strings.Join(res.Out(c), ListSeparator))
	}
	return row
}

// LegacyRow builds one legacy data row
func LegacyRow(id Identity, p geo.PointRecord, connected []string) []string {
	cell := LegacyEmpty
	if len(connected) > 0 {
		cell = strings.Join(connected, ListSeparator)
	}
	return append(pointCells(id, p), cell)
}
