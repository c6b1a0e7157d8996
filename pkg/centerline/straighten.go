package centerline

import (
	"math"

	"github.com/golang/geo/r3"

	"tavigeom/pkg/annulus"
	"tavigeom/pkg/landmark"
	"tavigeom/pkg/spline"
)

// straightSegment describes the inserted straight run by sample index.
type straightSegment struct {
	first    int // first sample inside the run
	last     int // last sample inside the run
	planeIdx int // sample nearest the annulus center
}

// flowMarginMm is how far outside the straight run (beyond H) the flow
// reference sample must sit when sign-correcting the straight tangent.
const flowMarginMm = 2

// insertStraightSegment re-interpolates the root polyline with two anchor
// points H mm up- and downstream of the annulus center along the plane
// normal, then overwrites every sample within the run with its exact position
// on the (center, normal) line and the exact shared tangent. The three anchor
// samples (upstream, center, downstream) come out exactly H apart on that
// line; junction samples immediately outside the run are re-smoothed.
func (b *Builder) insertStraightSegment(roots []landmark.RootPoint, plane *annulus.Plane) ([]spline.Point, straightSegment, error) {
	h := b.params.StraightHalfLengthMm
	normal := plane.Normal.Normalize()
	center := plane.Center
	first := roots[0].Position
	last := roots[len(roots)-1].Position

	// The straight run must fit between the annulus and both ends of the
	// landmark polyline; otherwise the anchors land outside the anatomy.
	if first.Sub(center).Norm() <= h || last.Sub(center).Norm() <= h {
		return nil, straightSegment{}, ErrStraightRunTooLong
	}

	candA := center.Add(normal.Mul(h))
	candB := center.Sub(normal.Mul(h))

	// Upstream precedes the plane in flow order: the candidate closer to the
	// first landmark.
	upstream, downstream := candA, candB
	if candB.Sub(first).Norm() < candA.Sub(first).Norm() {
		upstream, downstream = candB, candA
	}

	// Three of these five controls are exactly colinear along the normal, so
	// the natural curve is already near-straight through the run before the
	// exactness pass.
	controls := []r3.Vector{first, upstream, center, downstream, last}
	samples, err := spline.Interpolate(controls, b.params.SamplesPerSegment)
	if err != nil {
		return nil, straightSegment{}, err
	}

	dir := downstream.Sub(upstream).Normalize()

	// Locate the run entry by signed projection onto the straight direction.
	// The epsilon keeps the anchor samples, which sit at |proj| = H up to
	// rounding, inside the run. Full run bounds come from applyExactness.
	const projEps = 1e-9
	segFirst := -1
	for i, s := range samples {
		if math.Abs(s.Position.Sub(center).Dot(dir)) <= h+projEps {
			segFirst = i
			break
		}
	}
	if segFirst < 0 {
		return nil, straightSegment{}, ErrStraightRunTooLong
	}

	// Sign-correct the straight tangent against the actual flow direction,
	// sampled from a point safely outside the run. The distance-to-first
	// classification above can mislabel the anchors when the upstream path
	// hooks back toward the plane; an uncorrected tangent then points against
	// flow and corrupts the whole frame chain downstream.
	if ref, ok := flowReference(samples, center, dir, segFirst, h); ok {
		if dir.Dot(samples[segFirst].Position.Sub(ref)) < 0 {
			dir = dir.Mul(-1)
		}
	}

	// Exactness pass: every sample inside the run is moved onto the
	// (center, dir) line and given the one shared tangent.
	seg := applyExactness(samples, center, dir, h)

	b.smoothJunction(samples, seg.first, -1)
	b.smoothJunction(samples, seg.last, +1)

	// The smoothing cubic can overshoot a junction sample back inside the
	// run's projection range; a second pass restores the postcondition that
	// every sample within |proj| <= H lies exactly on the line.
	seg = applyExactness(samples, center, dir, h)

	// Position edits invalidate the cumulative arc length; rebuild it whole.
	spline.AccumulateDistances(samples)

	return samples, seg, nil
}

// applyExactness snaps every sample whose signed projection onto dir from
// center lies within the half-length onto the exact straight line, assigns
// the shared tangent, and reports the resulting run and the sample nearest
// the annulus center.
func applyExactness(samples []spline.Point, center, dir r3.Vector, h float64) straightSegment {
	const projEps = 1e-9
	seg := straightSegment{first: -1, last: -1, planeIdx: -1}
	bestDist := math.Inf(1)
	for i := range samples {
		proj := samples[i].Position.Sub(center).Dot(dir)
		if math.Abs(proj) > h+projEps {
			continue
		}
		samples[i].Position = center.Add(dir.Mul(proj))
		samples[i].Tangent = dir
		if seg.first < 0 {
			seg.first = i
		}
		seg.last = i
		if d := math.Abs(proj); d < bestDist {
			bestDist = d
			seg.planeIdx = i
		}
	}
	return seg
}

// flowReference returns the position of the nearest sample before the run
// entry that lies at least h+flowMarginMm from the annulus center along the
// straight direction. Falls back to the first sample of the curve; reports
// false only when the run starts at the very first sample.
func flowReference(samples []spline.Point, center, dir r3.Vector, segFirst int, h float64) (r3.Vector, bool) {
	for i := segFirst - 1; i >= 0; i-- {
		if math.Abs(samples[i].Position.Sub(center).Dot(dir)) >= h+flowMarginMm {
			return samples[i].Position, true
		}
	}
	if segFirst > 0 {
		return samples[0].Position, true
	}
	return r3.Vector{}, false
}

// smoothJunction re-interpolates the SmoothingWindow samples immediately
// outside one end of the straight run so curvature transitions continuously
// into the rest of the curve. side is -1 for the upstream junction (samples
// before the run) and +1 for the downstream one. The protected samples at the
// run boundary are used as interpolation controls but never modified.
func (b *Builder) smoothJunction(samples []spline.Point, boundary, side int) {
	w := b.params.SmoothingWindow

	// Control quad around the junction: one control deep in the kept curve,
	// the window edge, the protected boundary sample, and one control inside
	// the straight run. side points from the run toward the outside samples.
	outerFar := boundary + side*2*w
	outerNear := boundary + side*w
	inner := boundary - side*w

	n := len(samples)
	clamp := func(i int) int {
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
	outerFar, outerNear, inner = clamp(outerFar), clamp(outerNear), clamp(inner)
	if outerNear == boundary || outerFar == outerNear {
		return // window collapsed against the curve end; nothing to smooth
	}

	// Quad in curve-traversal order, resampling the stretch between the
	// window edge and the boundary.
	var quad [4]r3.Vector
	if side < 0 {
		quad = [4]r3.Vector{
			samples[outerFar].Position,
			samples[outerNear].Position,
			samples[boundary].Position,
			samples[inner].Position,
		}
	} else {
		quad = [4]r3.Vector{
			samples[inner].Position,
			samples[boundary].Position,
			samples[outerNear].Position,
			samples[outerFar].Position,
		}
	}

	steps := boundary - outerNear
	if steps < 0 {
		steps = -steps
	}
	interior := spline.SegmentInterior(quad[0], quad[1], quad[2], quad[3], steps)

	// SegmentInterior walks from quad[1] toward quad[2] in traversal order;
	// map each interior sample onto the absolute index it replaces. The
	// boundary sample itself is never reached (j+1 < steps).
	for j, p := range interior {
		var idx int
		if side < 0 {
			idx = outerNear + (j + 1)
		} else {
			idx = boundary + (j + 1)
		}
		samples[idx].Position = p.Position
		samples[idx].Tangent = p.Tangent
	}
}
