package model

import (
	"math"
	"testing"
)

func TestFlowDirectionNormalize(t *testing.T) {
	tests := []struct {
		input    FlowDirection
		expected FlowDirection
	}{
		{DirectionIn, DirectionIn},
		{DirectionOut, DirectionOut},
		{DirectionBidirectional, DirectionBidirectional},
		{"", DirectionBidirectional},
		{"unknown", DirectionBidirectional},
		{"IN", DirectionBidirectional},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := tt.input.Normalize(); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTransformOfPoint(t *testing.T) {
	p := XYZ{X: 1, Y: 2, Z: 3}

	if got := Identity().OfPoint(p); got != p {
		t.Errorf("Identity().OfPoint(%v) = %v", p, got)
	}

	// 90 degree CCW rotation plus translation
	tr := Transform{
		Origin: XYZ{X: 10, Y: 20, Z: 30},
		BasisX: XYZ{Y: 1},
		BasisY: XYZ{X: -1},
		BasisZ: XYZ{Z: 1},
	}
	want := XYZ{X: 8, Y: 21, Z: 33}
	if got := tr.OfPoint(p); got != want {
		t.Errorf("OfPoint(%v) = %v, want %v", p, got, want)
	}
}

func TestXYZIsFinite(t *testing.T) {
	if !(XYZ{X: 1, Y: -2, Z: 0}).IsFinite() {
		t.Error("finite point reported as non-finite")
	}
	if (XYZ{X: math.NaN()}).IsFinite() {
		t.Error("NaN coordinate reported as finite")
	}
	if (XYZ{Z: math.Inf(1)}).IsFinite() {
		t.Error("Inf coordinate reported as finite")
	}
}

func TestParameterFormattedValue(t *testing.T) {
	tests := []struct {
		name     string
		param    Parameter
		expected string
	}{
		{"string", Parameter{Storage: StorageString, Value: "Steel"}, "Steel"},
		{"double uses display", Parameter{Storage: StorageDouble, Value: "0.3281", Display: "100 mm"}, "100 mm"},
		{"integer", Parameter{Storage: StorageInteger, Value: "4"}, "4"},
		{"element id", Parameter{Storage: StorageElementID, Value: "31337"}, "31337"},
		{"none", Parameter{Storage: StorageNone, Value: "ignored"}, ""},
		{"missing storage", Parameter{Value: "ignored"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.param.FormattedValue(); got != tt.expected {
				t.Errorf("FormattedValue() = %q, want %q", got, tt.expected)
			}
		})
	}
}
