package model

import "math"

// XYZ is a point or vector in the host's internal length unit
type XYZ struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns p + q
func (p XYZ) Add(q XYZ) XYZ {
	return XYZ{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns p - q
func (p XYZ) Sub(q XYZ) XYZ {
	return XYZ{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns p * s
func (p XYZ) Scale(s float64) XYZ {
	return XYZ{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// IsFinite reports whether every coordinate is a finite number
func (p XYZ) IsFinite() bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Transform maps local coordinates into another coordinate system.
// OfPoint(p) = Origin + p.X*BasisX + p.Y*BasisY + p.Z*BasisZ.
type Transform struct {
	Origin XYZ `json:"origin" yaml:"origin"`
	BasisX XYZ `json:"basis_x" yaml:"basis_x"`
	BasisY XYZ `json:"basis_y" yaml:"basis_y"`
	BasisZ XYZ `json:"basis_z" yaml:"basis_z"`
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{
		BasisX: XYZ{X: 1},
		BasisY: XYZ{Y: 1},
		BasisZ: XYZ{Z: 1},
	}
}

// OfPoint applies the transform to a point
func (t Transform) OfPoint(p XYZ) XYZ {
	return t.Origin.
		Add(t.BasisX.Scale(p.X)).
		Add(t.BasisY.Scale(p.Y)).
		Add(t.BasisZ.Scale(p.Z))
}
