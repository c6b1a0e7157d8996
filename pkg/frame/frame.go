// Package frame propagates a rotation-minimizing (parallel-transport)
// orthonormal frame along a sampled curve. Each sample gets a (tangent, up,
// right) triad packed together with the sample position into a row-major 4x4
// matrix, the layout consumed by oriented cross-section samplers.
//
// A fixed-reference-axis method flips the cross-section image abruptly when
// the tangent crosses the reference axis; parallel transport instead applies
// only the minimal rotation that tracks the tangent change, so consecutive
// frames never flip and the reformatted image carries no artificial torsion.
package frame

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"tavigeom/pkg/spline"
)

const (
	// seedAxisDotThreshold switches the seed reference axis from +Z to +Y when
	// the initial tangent is within ~25 degrees of +Z.
	seedAxisDotThreshold = 0.9

	// minRotationCross is the cross-product magnitude below which consecutive
	// tangents are treated as parallel and the previous frame is reused as is.
	minRotationCross = 1e-3
)

// Frame is one orthonormal (tangent, up, right) triad.
type Frame struct {
	Tangent r3.Vector
	Up      r3.Vector
	Right   r3.Vector
}

// Matrix4 is a row-major homogeneous 4x4 transform:
// row 0 = tangent, row 1 = up, row 2 = right, row 3 = position with w=1.
type Matrix4 [16]float64

// Pack assembles a Matrix4 from a frame and a position.
func Pack(f Frame, position r3.Vector) Matrix4 {
	return Matrix4{
		f.Tangent.X, f.Tangent.Y, f.Tangent.Z, 0,
		f.Up.X, f.Up.Y, f.Up.Z, 0,
		f.Right.X, f.Right.Y, f.Right.Z, 0,
		position.X, position.Y, position.Z, 1,
	}
}

// Tangent returns row 0 of the matrix.
func (m Matrix4) Tangent() r3.Vector { return r3.Vector{X: m[0], Y: m[1], Z: m[2]} }

// Up returns row 1 of the matrix.
func (m Matrix4) Up() r3.Vector { return r3.Vector{X: m[4], Y: m[5], Z: m[6]} }

// Right returns row 2 of the matrix.
func (m Matrix4) Right() r3.Vector { return r3.Vector{X: m[8], Y: m[9], Z: m[10]} }

// Position returns row 3 of the matrix.
func (m Matrix4) Position() r3.Vector { return r3.Vector{X: m[12], Y: m[13], Z: m[14]} }

// Build computes one rotation-minimizing frame per sample and packs it with the
// sample position.
func Build(samples []spline.Point) []Matrix4 {
	return BuildLocked(samples, -1, -1)
}

// BuildLocked is Build with an orientation lock: at lockStart the frame is
// transported onto that sample's tangent and snapped to it exactly, and the
// resulting frame is then held frozen through lockEnd. Parallel-transport
// updates resume immediately after the range. A negative lockStart disables
// the lock.
//
// The lock exists for the inserted straight annulus segment: its samples share
// one exact tangent, and freezing the frame there guarantees bit-identical
// orientation across the whole run instead of merely drift-free orientation.
func BuildLocked(samples []spline.Point, lockStart, lockEnd int) []Matrix4 {
	if len(samples) == 0 {
		return nil
	}

	out := make([]Matrix4, len(samples))

	f := Seed(samples[0].Tangent)
	out[0] = Pack(f, samples[0].Position)

	for i := 1; i < len(samples); i++ {
		frozen := lockStart >= 0 && i > lockStart && i <= lockEnd
		if !frozen {
			f = Transport(f, samples[i-1].Tangent, samples[i].Tangent)
			if lockStart >= 0 && i == lockStart {
				// Transport tolerates a sub-milliradian tangent mismatch;
				// the frozen run must carry its exact tangent verbatim.
				f = realign(samples[i].Tangent, f)
			}
		}
		out[i] = Pack(f, samples[i].Position)
	}
	return out
}

// realign rebuilds the orthonormal triad around an exact tangent, keeping the
// up direction as close as possible to the frame's current one.
func realign(tangent r3.Vector, f Frame) Frame {
	right := tangent.Cross(f.Up).Normalize()
	up := right.Cross(tangent).Normalize()
	return Frame{Tangent: tangent, Up: up, Right: right}
}

// Seed constructs the initial frame for a curve from its first tangent.
// The reference "up" axis is world +Z unless the tangent is nearly parallel to
// it, in which case +Y is used instead.
func Seed(tangent r3.Vector) Frame {
	ref := r3.Vector{Z: 1}
	if math.Abs(tangent.Dot(ref)) > seedAxisDotThreshold {
		ref = r3.Vector{Y: 1}
	}
	right := tangent.Cross(ref).Normalize()
	up := right.Cross(tangent).Normalize()
	return Frame{Tangent: tangent, Up: up, Right: right}
}

// Transport advances a frame across one tangent change using the minimal
// rotation that maps prevTangent onto currTangent. When the tangents are
// parallel within tolerance the previous frame is returned unchanged, which
// keeps the up vector bit-identical across straight stretches.
func Transport(f Frame, prevTangent, currTangent r3.Vector) Frame {
	axis := prevTangent.Cross(currTangent)
	axisNorm := axis.Norm()
	if axisNorm < minRotationCross {
		return Frame{Tangent: f.Tangent, Up: f.Up, Right: f.Right}
	}

	cosAngle := prevTangent.Dot(currTangent)
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}
	angle := math.Acos(cosAngle)
	axis = axis.Mul(1 / axisNorm)

	up := rotate(f.Up, axis, angle)
	right := rotate(f.Right, axis, angle)

	// Re-orthonormalize against the actual tangent to bound drift; the
	// quaternion rotation alone accumulates floating-point error over
	// hundreds of steps.
	right = currTangent.Cross(up).Normalize()
	up = right.Cross(currTangent).Normalize()

	return Frame{Tangent: currTangent, Up: up, Right: right}
}

// rotate applies the axis-angle rotation to v via the quaternion sandwich
// product q v q*. The axis must be unit length.
func rotate(v, axis r3.Vector, angle float64) r3.Vector {
	s, c := math.Sincos(angle / 2)
	q := quat.Number{Real: c, Imag: s * axis.X, Jmag: s * axis.Y, Kmag: s * axis.Z}
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}
