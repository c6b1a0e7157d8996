// Package annulus fits the aortic annular plane from the three user-placed
// cusp nadir landmarks and derives the clinical sizing measurements used in
// transcatheter valve planning.
package annulus

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"tavigeom/pkg/landmark"
)

// minNormalCross is the cross-product magnitude below which the three cusps
// are treated as colinear and the plane normal is undefined.
const minNormalCross = 1e-9

// Plane is the fitted annular plane.
type Plane struct {
	// Center is the exact centroid of the three cusp points, in mm.
	Center r3.Vector

	// Normal is the unit plane normal. Its sign depends on the cusp ordering
	// (cross-product anti-commutativity); consumers that need a flow-aligned
	// direction must orient it themselves.
	Normal r3.Vector

	// Points are the three cusp landmarks the plane was fitted from,
	// in the order they were supplied.
	Points [3]landmark.AnnulusPoint

	// Confidence in [0,1] scores how circularly the cusps sit around the
	// centroid: 1 - stddev/mean of the three center distances, clamped.
	// Three points are always exactly coplanar, so this is a circularity
	// proxy and deliberately not a planarity measure.
	Confidence float64
}

// Solve fits the annular plane from exactly three cusp points, one per cusp
// type. The normal is the normalized cross product (p1-p0) x (p2-p0) over the
// supplied ordering.
func Solve(points []landmark.AnnulusPoint) (*Plane, error) {
	if err := landmark.ValidateAnnulusPoints(points); err != nil {
		return nil, err
	}

	p0 := points[0].Position
	p1 := points[1].Position
	p2 := points[2].Position

	center := p0.Add(p1).Add(p2).Mul(1.0 / 3.0)

	cross := p1.Sub(p0).Cross(p2.Sub(p0))
	if cross.Norm() < minNormalCross {
		return nil, ErrDegeneratePlane
	}
	normal := cross.Normalize()

	dists := []float64{
		p0.Sub(center).Norm(),
		p1.Sub(center).Norm(),
		p2.Sub(center).Norm(),
	}
	mean := stat.Mean(dists, nil)
	sd := stat.PopStdDev(dists, nil)

	confidence := 0.0
	if mean > 0 {
		confidence = 1 - sd/mean
		if confidence < 0 {
			confidence = 0
		} else if confidence > 1 {
			confidence = 1
		}
	}

	return &Plane{
		Center:     center,
		Normal:     normal,
		Points:     [3]landmark.AnnulusPoint{points[0], points[1], points[2]},
		Confidence: confidence,
	}, nil
}

// Radius returns the mean distance of the cusps from the centroid, in mm.
func (p *Plane) Radius() float64 {
	var sum float64
	for _, pt := range p.Points {
		sum += pt.Position.Sub(p.Center).Norm()
	}
	return sum / 3
}

// Diameter returns the circle-equivalent annulus diameter, 2 * mean cusp
// distance. This is the clinical approximation used by the planning tools it
// replaces, not a best-fit circle.
func (p *Plane) Diameter() float64 {
	return 2 * p.Radius()
}

// Area returns the circle-equivalent annulus area in mm^2.
func (p *Plane) Area() float64 {
	r := p.Radius()
	return math.Pi * r * r
}

// Perimeter returns the circle-equivalent annulus perimeter in mm. It is
// pi * diameter, not the triangle perimeter of the three cusps.
func (p *Plane) Perimeter() float64 {
	return math.Pi * p.Diameter()
}

// SignedDistance returns the signed distance of a point from the plane along
// its normal, in mm.
func (p *Plane) SignedDistance(pt r3.Vector) float64 {
	return pt.Sub(p.Center).Dot(p.Normal)
}
