// Package landmark defines the user-placed anatomical landmark value objects
// consumed by the geometry engine: root points describing the aortic root axis
// and cusp points describing the three valve leaflet insertions.
//
// All positions are in world millimeters (DICOM patient coordinates). Landmarks
// are immutable value objects: the engine never mutates or re-orders them. In
// particular, root points with more than the three required roles keep the
// caller-supplied order; sorting them by a spatial coordinate can reverse the
// flow direction of the resulting centerline.
package landmark

import (
	"time"

	"github.com/golang/geo/r3"
)

// RootPointType identifies the anatomical role of a root point.
type RootPointType int

const (
	// LVOutflow marks the left-ventricular outflow tract, the upstream end of the root axis.
	LVOutflow RootPointType = iota
	// AorticValve marks the valve itself, near the annular plane.
	AorticValve
	// AscendingAorta marks the ascending aorta, the downstream end of the root axis.
	AscendingAorta
	// Extended marks an optional extra point refining the path between the required three.
	Extended
)

func (t RootPointType) String() string {
	switch t {
	case LVOutflow:
		return "lv_outflow"
	case AorticValve:
		return "aortic_valve"
	case AscendingAorta:
		return "ascending_aorta"
	case Extended:
		return "extended"
	default:
		return "unknown"
	}
}

// CuspType identifies which valve cusp an annulus point marks.
type CuspType int

const (
	// LeftCoronaryCusp is the cusp adjacent to the left coronary ostium.
	LeftCoronaryCusp CuspType = iota
	// RightCoronaryCusp is the cusp adjacent to the right coronary ostium.
	RightCoronaryCusp
	// NonCoronaryCusp is the cusp with no coronary ostium.
	NonCoronaryCusp
)

func (t CuspType) String() string {
	switch t {
	case LeftCoronaryCusp:
		return "left_coronary_cusp"
	case RightCoronaryCusp:
		return "right_coronary_cusp"
	case NonCoronaryCusp:
		return "non_coronary_cusp"
	default:
		return "unknown"
	}
}

// RootPoint is a user-placed landmark on the aortic root axis.
type RootPoint struct {
	ID       string
	Type     RootPointType
	Position r3.Vector
	PlacedAt time.Time
}

// AnnulusPoint is a user-placed landmark at a valve cusp nadir.
type AnnulusPoint struct {
	ID       string
	Type     CuspType
	Position r3.Vector
	PlacedAt time.Time
}

// ValidateRootPoints checks that a root point set can seed a centerline:
// at least three points, and when exactly three are given each of the required
// roles (LV outflow, aortic valve, ascending aorta) must appear exactly once.
// With more than three points the caller-supplied order is authoritative and
// no role constraint is imposed beyond the minimum count.
func ValidateRootPoints(points []RootPoint) error {
	if len(points) < 3 {
		return ErrTooFewRootPoints
	}
	if len(points) == 3 {
		var seen [3]int
		for _, p := range points {
			switch p.Type {
			case LVOutflow:
				seen[0]++
			case AorticValve:
				seen[1]++
			case AscendingAorta:
				seen[2]++
			default:
				return ErrMissingRootRole
			}
		}
		for _, n := range seen {
			if n != 1 {
				return ErrMissingRootRole
			}
		}
	}
	return nil
}

// ValidateAnnulusPoints checks that the cusp set is exactly three points,
// one per cusp type.
func ValidateAnnulusPoints(points []AnnulusPoint) error {
	if len(points) != 3 {
		return ErrWrongCuspCount
	}
	var seen [3]int
	for _, p := range points {
		switch p.Type {
		case LeftCoronaryCusp:
			seen[0]++
		case RightCoronaryCusp:
			seen[1]++
		case NonCoronaryCusp:
			seen[2]++
		}
	}
	for _, n := range seen {
		if n != 1 {
			return ErrDuplicateCusp
		}
	}
	return nil
}

// CuspByType returns the point with the given cusp type.
// The set must have been validated first.
func CuspByType(points []AnnulusPoint, t CuspType) AnnulusPoint {
	for _, p := range points {
		if p.Type == t {
			return p
		}
	}
	return AnnulusPoint{}
}

// Positions extracts the position vectors of a root point set in caller order.
func Positions(points []RootPoint) []r3.Vector {
	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = p.Position
	}
	return out
}
