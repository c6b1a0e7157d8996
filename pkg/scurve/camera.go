package scurve

import (
	"math"

	"github.com/golang/geo/r3"
)

// Angles is a fluoroscopic gantry angle pair in degrees.
//
// Convention: the AP view (camera posterior to the patient, looking anterior)
// is (0, 0); positive LaoRao rotates the camera toward the patient's left,
// positive CranCaud tilts it toward the head.
type Angles struct {
	LaoRao   float64
	CranCaud float64
}

// CameraToAngles converts a camera pose (position and focal point, both in
// patient mm) to the gantry angle pair that reproduces its viewing direction.
// Looking straight along the head-foot axis the rotation is undefined; it is
// reported as 0.
func CameraToAngles(position, focalPoint r3.Vector) Angles {
	d := position.Sub(focalPoint)
	planar := math.Hypot(d.X, d.Y)
	laoRao := 0.0
	if planar > 1e-9 {
		laoRao = math.Atan2(d.X, -d.Y) * 180 / math.Pi
	}
	return Angles{
		LaoRao:   laoRao,
		CranCaud: math.Atan2(d.Z, planar) * 180 / math.Pi,
	}
}

// AnglesToCamera places a camera at the given distance from the focal point
// along the viewing direction described by the gantry angles.
func AnglesToCamera(a Angles, distance float64, focalPoint r3.Vector) r3.Vector {
	lr := a.LaoRao * math.Pi / 180
	cc := a.CranCaud * math.Pi / 180
	return r3.Vector{
		X: focalPoint.X + distance*math.Cos(cc)*math.Sin(lr),
		Y: focalPoint.Y - distance*math.Cos(cc)*math.Cos(lr),
		Z: focalPoint.Z + distance*math.Sin(cc),
	}
}

// ViewUp returns a view-up vector for the camera at the given angles: the
// direction toward the patient's head projected off the viewing axis, which
// keeps fluoroscopic images head-up across the clinical angle range.
func ViewUp(a Angles, focalPoint r3.Vector) r3.Vector {
	pos := AnglesToCamera(a, 1, focalPoint)
	view := focalPoint.Sub(pos).Normalize()
	head := r3.Vector{Z: 1}
	up := head.Sub(view.Mul(head.Dot(view)))
	if up.Norm() < 1e-9 {
		// Looking straight down the head-foot axis; fall back to anterior.
		up = r3.Vector{Y: -1}
	}
	return up.Normalize()
}
