package annulus

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// FitPlaneLeastSquares fits a plane to n >= 3 points by SVD of the centered
// coordinate matrix; the normal is the right singular vector of the smallest
// singular value. Three cusp landmarks are always exactly coplanar, so Solve
// never needs this; it backs the planarity diagnostic for denser leaflet
// traces (e.g. exported annulus contours), where the residual RMS tells the
// presentation layer how planar the trace actually is.
func FitPlaneLeastSquares(points []r3.Vector) (center, normal r3.Vector, rms float64, err error) {
	if len(points) < 3 {
		return r3.Vector{}, r3.Vector{}, 0, ErrDegeneratePlane
	}

	for _, p := range points {
		center = center.Add(p)
	}
	center = center.Mul(1 / float64(len(points)))

	a := mat.NewDense(len(points), 3, nil)
	for i, p := range points {
		d := p.Sub(center)
		a.Set(i, 0, d.X)
		a.Set(i, 1, d.Y)
		a.Set(i, 2, d.Z)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return r3.Vector{}, r3.Vector{}, 0, ErrDegeneratePlane
	}

	var v mat.Dense
	svd.VTo(&v)
	values := svd.Values(nil)

	// Colinear input collapses the second singular value as well.
	if values[1] < minNormalCross {
		return r3.Vector{}, r3.Vector{}, 0, ErrDegeneratePlane
	}

	normal = r3.Vector{X: v.At(0, 2), Y: v.At(1, 2), Z: v.At(2, 2)}.Normalize()

	var sumSq float64
	for _, p := range points {
		d := p.Sub(center).Dot(normal)
		sumSq += d * d
	}
	rms = math.Sqrt(sumSq / float64(len(points)))
	return center, normal, rms, nil
}
