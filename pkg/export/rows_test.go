package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dd0wney/cluso-mepflow/pkg/classify"
	"github.com/dd0wney/cluso-mepflow/pkg/connectivity"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

func TestFlowHeader(t *testing.T) {
	want := "UniqueID,Category,Name,PointLabel,Easting_M,Northing_M,Elevation_M,Latitude,Longitude,Altitude_M," +
		"Pipe_IN,Pipe_OUT,Valve_IN,Valve_OUT,Pump_IN,Pump_OUT,Tank_IN,Tank_OUT,FlowMeter_IN,FlowMeter_OUT,Chiller_IN,Chiller_OUT"
	assert.Equal(t, want, strings.Join(FlowHeader(), ","))
}

func TestLegacyHeader(t *testing.T) {
	want := "UniqueID,Category,Name,PointLabel,Easting_M,Northing_M,Elevation_M,Latitude,Longitude,Altitude_M,Connected_UniqueIDs"
	assert.Equal(t, want, strings.Join(LegacyHeader(), ","))
}

func TestIdentityOf_SanitizesCommas(t *testing.T) {
	el := &model.Element{
		UniqueID:     "u-1",
		Category:     model.CategoryPipeCurves,
		CategoryName: "Pipes, Insulated",
		Name:         "Pipe, 50mm, Copper",
	}
	id := IdentityOf(el)
	assert.Equal(t, Identity{UniqueID: "u-1", Category: "Pipes; Insulated", Name: "Pipe; 50mm; Copper"}, id)
}

func samplePoint() geo.PointRecord {
	return geo.PointRecord{
		Label: geo.LabelStart,
		Projected: geo.Projected{
			EastingM:   1.23456,
			NorthingM:  -2,
			ElevationM: 3.00004,
			LatDeg:     24.123456789,
			LonDeg:     46.5,
		},
	}
}

func TestFlowRow(t *testing.T) {
	res := connectivity.NewBuilder("u-1").
		Add(classify.Pipe, In, "p1").
		Add(classify.Pipe, In, "p2").
		Add(classify.Chiller, Out, "ch").
		Freeze()

	row := FlowRow(Identity{UniqueID: "u-1", Category: "Pipes", Name: "Pipe"}, samplePoint(), res)

	assert.Len(t, row, len(FlowHeader()))
	assert.Equal(t, []string{
		"u-1", "Pipes", "Pipe", "Start",
		"1.2346", "-2.0000", "3.0000", "24.12345679", "46.50000000", "3.0000",
		"p1|p2", "", "", "", "", "", "", "", "", "", "", "ch",
	}, row)
}

func TestLegacyRow(t *testing.T) {
	id := Identity{UniqueID: "u-1"}

	row := LegacyRow(id, samplePoint(), []string{"a", "b"})
	assert.Len(t, row, len(LegacyHeader()))
	assert.Equal(t, "a|b", row[len(row)-1])

	row = LegacyRow(id, samplePoint(), nil)
	assert.Equal(t, LegacyEmpty, row[len(row)-1])
}

const (
	In  = connectivity.In
	Out = connectivity.Out
)
