// Package scurve computes the fluoroscopic S-curve of the aortic annulus: the
// set of C-arm gantry angle pairs (LAO/RAO rotation, CRAN/CAUD tilt) for which
// the X-ray beam stays exactly edge-on to the plane through the three valve
// cusps. It also converts between camera poses and clinical gantry angles and
// reproduces the fixed clinical view presets derived from the same geometry.
package scurve

import (
	"math"

	"github.com/golang/geo/r3"
)

// CurveSteps is the number of 1-degree gantry rotation steps, covering
// LAO/RAO -90..89.
const CurveSteps = 180

// Data is the sampled S-curve. Both slices have CurveSteps entries;
// LaoRao is strictly increasing by construction.
type Data struct {
	// LaoRao holds the gantry rotation axis values in degrees, -90..89 step 1.
	LaoRao []float64

	// CranCaud holds the matching gantry tilt in degrees for each rotation.
	CranCaud []float64

	// Substitutions counts how often the zero-term stabilization fired while
	// generating the curve. A non-zero count signals a borderline geometric
	// configuration worth surfacing to the operator; the curve itself is
	// still usable.
	Substitutions int
}

// Generate traces the S-curve for the plane through the left, right and
// non-coronary cusp positions l, r, n.
//
// Any exactly-zero term among the three intermediates is substituted with 0.1
// before the division. This is the stabilization the clinical tooling has
// always used; it shapes the curve near edge-on configurations and is kept
// verbatim rather than replaced with a mathematically cleaner guard.
func Generate(l, r, n r3.Vector) Data {
	d := Data{
		LaoRao:   make([]float64, 0, CurveSteps),
		CranCaud: make([]float64, 0, CurveSteps),
	}

	for xLR := -90; xLR < 90; xLR++ {
		rad := float64(xLR) * math.Pi / 180

		val1 := -math.Sin(rad) * ((r.Y-n.Y)*(l.Z-n.Z) - (r.Z-n.Z)*(l.Y-n.Y))
		val2 := math.Cos(rad) * ((r.Z-n.Z)*(l.X-n.X) - (r.X-n.X)*(l.Z-n.Z))
		val3 := (r.X-n.X)*(l.Y-n.Y) - (r.Y-n.Y)*(l.X-n.X)

		if val1 == 0 {
			val1 = 0.1
			d.Substitutions++
		}
		if val2 == 0 {
			val2 = 0.1
			d.Substitutions++
		}
		if val3 == 0 {
			val3 = 0.1
			d.Substitutions++
		}

		d.LaoRao = append(d.LaoRao, float64(xLR))
		d.CranCaud = append(d.CranCaud, math.Atan((val1+val2)/val3)*180/math.Pi)
	}
	return d
}

// FromEnface traces the S-curve of a plane known only by its en-face gantry
// angles (laoRao, cranCaud): for each rotation f the matching tilt is
// -atan(cos(f - laoRao) / tan(cranCaud)). Used when the plane was dialed in
// on the table rather than derived from CT landmarks.
func FromEnface(laoRao, cranCaud float64) Data {
	d := Data{
		LaoRao:   make([]float64, 0, CurveSteps),
		CranCaud: make([]float64, 0, CurveSteps),
	}
	y := laoRao * math.Pi / 180
	z := cranCaud * math.Pi / 180
	for f := -90; f < 90; f++ {
		rad := float64(f) * math.Pi / 180
		d.LaoRao = append(d.LaoRao, float64(f))
		d.CranCaud = append(d.CranCaud, -math.Atan(math.Cos(rad-y)/math.Tan(z))*180/math.Pi)
	}
	return d
}

// Nearest returns the index of the curve point closest to the given angle
// pair by brute-force search in angle space.
func (d *Data) Nearest(laoRao, cranCaud float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i := range d.LaoRao {
		dx := d.LaoRao[i] - laoRao
		dy := d.CranCaud[i] - cranCaud
		if dist := dx*dx + dy*dy; dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

// Slope estimates the local slope of the S-curve at the given gantry rotation
// in degrees of tilt per degree of rotation, by the same finite difference the
// planning tools use. A steep slope means the edge-on view is unstable: a
// small rotation error costs a large tilt correction.
func Slope(l, r, n r3.Vector, laoRao float64) float64 {
	at := func(x float64) float64 {
		rad := x * math.Pi / 180
		val1 := -math.Sin(rad) * ((r.Y-n.Y)*(l.Z-n.Z) - (r.Z-n.Z)*(l.Y-n.Y))
		val2 := math.Cos(rad) * ((r.Z-n.Z)*(l.X-n.X) - (r.X-n.X)*(l.Z-n.Z))
		val3 := (r.X-n.X)*(l.Y-n.Y) - (r.Y-n.Y)*(l.X-n.X)
		if val1 == 0 {
			val1 = 0.1
		}
		if val2 == 0 {
			val2 = 0.1
		}
		if val3 == 0 {
			val3 = 0.1
		}
		return math.Atan((val1+val2)/val3) * 180 / math.Pi
	}

	const step = 1.1
	return math.Atan((at(laoRao+step)-at(laoRao))/step) * 180 / math.Pi
}
