package scurve

import (
	"math"

	"github.com/golang/geo/r3"
)

// The preset formulas below are fixed clinical view definitions carried over
// from the deployed planning tools. They are reproduced term for term, signs
// and offsets included, rather than re-derived from the plane geometry:
// operators have validated implants against these exact numbers.

// ThreeCuspView returns the gantry angles of the three-cusp (NCC-posterior)
// working view, in which all three cusp nadirs spread evenly across the image.
func ThreeCuspView(l, r, n r3.Vector) Angles {
	dx := 2*n.X - r.X - l.X
	dy := 2*n.Y - r.Y - l.Y
	dz := 2*n.Z - r.Z - l.Z
	return Angles{
		LaoRao:   math.Atan2(-dy, -dx)*180/math.Pi + 90,
		CranCaud: -math.Atan(dz/math.Hypot(dx, dy)) * 180 / math.Pi,
	}
}

// CuspOverlapView returns the gantry angles of the cusp-overlap (RCC-anterior)
// view, which superimposes the left and right coronary cusps and isolates the
// non-coronary cusp. It is the standard deployment view for self-expanding
// valves.
func CuspOverlapView(l, r, n r3.Vector) Angles {
	dx := 2*r.X - l.X - n.X
	dy := 2*r.Y - l.Y - n.Y
	dz := 2*r.Z - l.Z - n.Z
	return Angles{
		LaoRao:   -math.Atan2(dy, -dx)*180/math.Pi - 90,
		CranCaud: math.Atan(dz/math.Hypot(dx, dy)) * 180 / math.Pi,
	}
}
