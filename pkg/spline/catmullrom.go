// Package spline implements the cubic Catmull-Rom interpolator used to turn a
// short ordered list of landmark positions into a dense, arc-length-parameterized
// sample sequence suitable for curved planar reformation slicing.
//
// The curve passes exactly through every control point. End tangents are made
// well defined by extending the control list with one virtual point before the
// first and one after the last, linearly extrapolated from the adjacent segment.
package spline

import (
	"github.com/golang/geo/r3"
)

// Point is one dense sample on the interpolated curve.
type Point struct {
	// Position is the sample position in world millimeters.
	Position r3.Vector

	// Tangent is the unit tangent of the curve at the sample, pointing in
	// traversal direction (first control point toward last).
	Tangent r3.Vector

	// Distance is the cumulative polyline arc length from the first sample, in mm.
	Distance float64
}

// DefaultSamplesPerSegment is the sample density used when a non-positive
// density is requested.
const DefaultSamplesPerSegment = 32

// Interpolate computes a cubic Catmull-Rom curve through the given ordered
// control points and returns samplesPerSegment samples per control segment,
// plus the final control point itself.
//
// Consecutive duplicate control points produce zero-length segments with
// undefined tangents, so exact duplicates are dropped before interpolation.
// Fewer than three distinct control points is an error.
func Interpolate(controls []r3.Vector, samplesPerSegment int) ([]Point, error) {
	controls = dropConsecutiveDuplicates(controls)
	if len(controls) < 3 {
		return nil, ErrTooFewControlPoints
	}
	if samplesPerSegment <= 0 {
		samplesPerSegment = DefaultSamplesPerSegment
	}

	ext := extendWithVirtualEndpoints(controls)

	numSegments := len(controls) - 1
	samples := make([]Point, 0, numSegments*samplesPerSegment+1)

	for seg := 0; seg < numSegments; seg++ {
		// Control quad for this segment: ext[seg..seg+3] spans the curve
		// between controls[seg] and controls[seg+1].
		p0, p1, p2, p3 := ext[seg], ext[seg+1], ext[seg+2], ext[seg+3]
		for i := 0; i < samplesPerSegment; i++ {
			t := float64(i) / float64(samplesPerSegment)
			samples = append(samples, Point{
				Position: catmullRomPosition(p0, p1, p2, p3, t),
				Tangent:  catmullRomTangent(p0, p1, p2, p3, t),
			})
		}
	}

	// Close the curve at the last control point (t=1 on the final segment).
	last := len(ext) - 4
	samples = append(samples, Point{
		Position: catmullRomPosition(ext[last], ext[last+1], ext[last+2], ext[last+3], 1),
		Tangent:  catmullRomTangent(ext[last], ext[last+1], ext[last+2], ext[last+3], 1),
	})

	AccumulateDistances(samples)
	return samples, nil
}

// SegmentInterior evaluates the middle segment of a single Catmull-Rom
// control quad (the stretch between p1 and p2) at the n-1 interior parameters
// t = 1/n .. (n-1)/n, returning position and tangent for each. Distances are
// left zero; callers splicing the result into an existing sequence recompute
// them with AccumulateDistances.
func SegmentInterior(p0, p1, p2, p3 r3.Vector, n int) []Point {
	if n < 2 {
		return nil
	}
	out := make([]Point, 0, n-1)
	for j := 1; j < n; j++ {
		t := float64(j) / float64(n)
		out = append(out, Point{
			Position: catmullRomPosition(p0, p1, p2, p3, t),
			Tangent:  catmullRomTangent(p0, p1, p2, p3, t),
		})
	}
	return out
}

// AccumulateDistances recomputes the cumulative arc length of a sample
// sequence in place, from scratch. Callers that edit sample positions after
// interpolation must re-run this to keep distances consistent.
func AccumulateDistances(samples []Point) {
	total := 0.0
	for i := range samples {
		if i > 0 {
			total += samples[i].Position.Sub(samples[i-1].Position).Norm()
		}
		samples[i].Distance = total
	}
}

// Length returns the total arc length of a sample sequence.
func Length(samples []Point) float64 {
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1].Distance
}

// catmullRomPosition evaluates the standard uniform Catmull-Rom basis at t in [0,1].
func catmullRomPosition(p0, p1, p2, p3 r3.Vector, t float64) r3.Vector {
	t2 := t * t
	t3 := t2 * t
	// 0.5 * (2*p1 + (-p0+p2)*t + (2*p0-5*p1+4*p2-p3)*t^2 + (-p0+3*p1-3*p2+p3)*t^3)
	v := p1.Mul(2)
	v = v.Add(p2.Sub(p0).Mul(t))
	v = v.Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(t2))
	v = v.Add(p0.Mul(-1).Add(p1.Mul(3)).Sub(p2.Mul(3)).Add(p3).Mul(t3))
	return v.Mul(0.5)
}

// catmullRomTangent evaluates the analytic derivative of the same basis and
// normalizes it.
func catmullRomTangent(p0, p1, p2, p3 r3.Vector, t float64) r3.Vector {
	t2 := t * t
	// 0.5 * ((-p0+p2) + 2*(2*p0-5*p1+4*p2-p3)*t + 3*(-p0+3*p1-3*p2+p3)*t^2)
	d := p2.Sub(p0)
	d = d.Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(2 * t))
	d = d.Add(p0.Mul(-1).Add(p1.Mul(3)).Sub(p2.Mul(3)).Add(p3).Mul(3 * t2))
	n := d.Norm()
	if n < 1e-12 {
		// Degenerate derivative; fall back to the chord direction.
		chord := p2.Sub(p1)
		if cn := chord.Norm(); cn > 1e-12 {
			return chord.Mul(1 / cn)
		}
		return r3.Vector{Z: 1}
	}
	return d.Mul(1 / n)
}

// extendWithVirtualEndpoints prepends and appends one linearly extrapolated
// control point so the first and last real controls have well-defined tangents.
func extendWithVirtualEndpoints(controls []r3.Vector) []r3.Vector {
	n := len(controls)
	ext := make([]r3.Vector, 0, n+2)
	pre := controls[0].Add(controls[0].Sub(controls[1]))
	post := controls[n-1].Add(controls[n-1].Sub(controls[n-2]))
	ext = append(ext, pre)
	ext = append(ext, controls...)
	ext = append(ext, post)
	return ext
}

// dropConsecutiveDuplicates removes control points that exactly repeat their
// predecessor. Zero-length segments have no defined tangent, and the clinical
// landmark editors that feed this engine can emit them on double placement.
func dropConsecutiveDuplicates(controls []r3.Vector) []r3.Vector {
	if len(controls) == 0 {
		return controls
	}
	out := make([]r3.Vector, 0, len(controls))
	out = append(out, controls[0])
	for _, c := range controls[1:] {
		if c == out[len(out)-1] {
			continue
		}
		out = append(out, c)
	}
	return out
}
