// Package centerline builds the dense, oriented aortic-root centerline that
// drives curved planar reformation. Without an annular plane the path is a
// plain Catmull-Rom curve through the root landmarks; with one, a perfectly
// straight, plane-perpendicular run is forced into the curve around the
// annulus so the reformatted stack crosses the valve exactly orthogonally.
package centerline

import (
	"fmt"

	"github.com/golang/geo/r3"

	"tavigeom/pkg/annulus"
	"tavigeom/pkg/frame"
	"tavigeom/pkg/landmark"
	"tavigeom/pkg/spline"
)

// Params controls sampling density and the shape of the inserted straight
// annulus segment.
type Params struct {
	// SamplesPerSegment is the spline sample density per control segment.
	SamplesPerSegment int

	// StraightHalfLengthMm is H: the straight run extends H mm on each side
	// of the annulus center along the plane normal.
	StraightHalfLengthMm float64

	// SmoothingWindow is the number of samples immediately outside each end
	// of the straight run that are re-interpolated so curvature transitions
	// continuously into the rest of the curve.
	SmoothingWindow int
}

// DefaultParams returns the parameter set used by the interactive planner.
func DefaultParams() Params {
	return Params{
		SamplesPerSegment:    32,
		StraightHalfLengthMm: 10,
		SmoothingWindow:      6,
	}
}

// Data is the computed centerline in the flat layout consumed by the
// rendering layer.
type Data struct {
	// Position holds N samples as [x0,y0,z0, x1,y1,z1, ...] in mm.
	Position []float64

	// Orientation holds N row-major homogeneous 4x4 matrices, 16 floats each:
	// row 0 tangent, row 1 up, row 2 right, row 3 position.
	Orientation []float64

	// Length is the total arc length in mm.
	Length float64

	// GeneratedFrom are the root landmarks the centerline was built from,
	// in the order they were supplied.
	GeneratedFrom []landmark.RootPoint

	// AnnulusPlaneIndex is the index of the sample nearest the annulus
	// center, or -1 when no plane was supplied.
	AnnulusPlaneIndex int
}

// SampleCount returns the number of samples in the centerline.
func (d *Data) SampleCount() int {
	return len(d.Position) / 3
}

// SamplePosition returns sample i as a vector.
func (d *Data) SamplePosition(i int) r3.Vector {
	return r3.Vector{X: d.Position[i*3], Y: d.Position[i*3+1], Z: d.Position[i*3+2]}
}

// SampleMatrix returns the 4x4 orientation matrix of sample i.
func (d *Data) SampleMatrix(i int) frame.Matrix4 {
	var m frame.Matrix4
	copy(m[:], d.Orientation[i*16:(i+1)*16])
	return m
}

// Builder computes centerlines with a fixed parameter set.
type Builder struct {
	params Params
}

// NewBuilder returns a Builder. Zero or negative parameter fields fall back
// to their defaults.
func NewBuilder(params Params) *Builder {
	def := DefaultParams()
	if params.SamplesPerSegment <= 0 {
		params.SamplesPerSegment = def.SamplesPerSegment
	}
	if params.StraightHalfLengthMm <= 0 {
		params.StraightHalfLengthMm = def.StraightHalfLengthMm
	}
	if params.SmoothingWindow <= 0 {
		params.SmoothingWindow = def.SmoothingWindow
	}
	return &Builder{params: params}
}

// Build computes the centerline through the given root points. When plane is
// non-nil a straight, plane-perpendicular run of half-length H is inserted
// around the annulus center and the orientation frame is locked across it.
func (b *Builder) Build(roots []landmark.RootPoint, plane *annulus.Plane) (*Data, error) {
	if err := landmark.ValidateRootPoints(roots); err != nil {
		return nil, err
	}

	var (
		samples  []spline.Point
		lockLo   = -1
		lockHi   = -1
		planeIdx = -1
		err      error
	)

	if plane == nil {
		samples, err = spline.Interpolate(landmark.Positions(roots), b.params.SamplesPerSegment)
		if err != nil {
			return nil, fmt.Errorf("interpolating root points: %w", err)
		}
	} else {
		var seg straightSegment
		samples, seg, err = b.insertStraightSegment(roots, plane)
		if err != nil {
			return nil, err
		}
		lockLo, lockHi = seg.first, seg.last
		planeIdx = seg.planeIdx
	}

	matrices := frame.BuildLocked(samples, lockLo, lockHi)

	data := &Data{
		Position:          make([]float64, 0, len(samples)*3),
		Orientation:       make([]float64, 0, len(samples)*16),
		Length:            spline.Length(samples),
		GeneratedFrom:     append([]landmark.RootPoint(nil), roots...),
		AnnulusPlaneIndex: planeIdx,
	}
	for i, s := range samples {
		data.Position = append(data.Position, s.Position.X, s.Position.Y, s.Position.Z)
		data.Orientation = append(data.Orientation, matrices[i][:]...)
	}
	return data, nil
}
