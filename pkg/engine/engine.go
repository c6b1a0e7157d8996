// Package engine is the facade the viewing layer talks to: it wires the
// spline, frame, annulus, centerline and scurve components into the operation
// surface of the planning pipeline and routes their diagnostics through an
// injectable logger.
//
// Every operation is a pure function of its immutable inputs; the engine holds
// only configuration, so one instance can be shared across concurrent callers.
package engine

import (
	"fmt"

	"github.com/golang/geo/r3"

	"tavigeom/pkg/annulus"
	"tavigeom/pkg/centerline"
	"tavigeom/pkg/config"
	"tavigeom/pkg/landmark"
	"tavigeom/pkg/scurve"
)

// Logger receives diagnostic messages. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Engine bundles the geometry pipeline with its configuration.
type Engine struct {
	builder *centerline.Builder
	cfg     *config.Config
	log     Logger
}

// New creates an engine. A nil config uses defaults; a nil logger discards
// diagnostics.
func New(cfg *config.Config, logger Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Engine{
		builder: centerline.NewBuilder(cfg.CenterlineParams()),
		cfg:     cfg,
		log:     logger,
	}
}

// ComputeAnnularPlane fits the annular plane from the three cusp landmarks.
func (e *Engine) ComputeAnnularPlane(cusps []landmark.AnnulusPoint) (*annulus.Plane, error) {
	plane, err := annulus.Solve(cusps)
	if err != nil {
		return nil, fmt.Errorf("solving annular plane: %w", err)
	}
	if plane.Confidence < 0.5 {
		e.log.Printf("annular plane confidence %.2f: cusp spacing is far from circular", plane.Confidence)
	}
	return plane, nil
}

// FitContourPlane fits a least-squares plane to a dense annulus contour trace
// and reports its center, unit normal and RMS point-to-plane distance. Unlike
// the 3-cusp solve, a traced contour need not be planar; a high RMS usually
// means the trace wandered onto leaflet tissue.
func (e *Engine) FitContourPlane(points []r3.Vector) (center, normal r3.Vector, rms float64, err error) {
	center, normal, rms, err = annulus.FitPlaneLeastSquares(points)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, 0, fmt.Errorf("fitting contour plane: %w", err)
	}
	if rms > 1 {
		e.log.Printf("annulus contour is %.2f mm RMS off planar; review the trace", rms)
	}
	return center, normal, rms, nil
}

// ComputeCenterline builds the oriented centerline through the root points.
// plane may be nil, in which case no straight segment is inserted.
func (e *Engine) ComputeCenterline(roots []landmark.RootPoint, plane *annulus.Plane) (*centerline.Data, error) {
	data, err := e.builder.Build(roots, plane)
	if err != nil {
		return nil, fmt.Errorf("building centerline: %w", err)
	}
	return data, nil
}

// ComputeSCurve traces the annulus S-curve from validated cusp landmarks,
// logging when the zero-term stabilization fired.
func (e *Engine) ComputeSCurve(cusps []landmark.AnnulusPoint) (scurve.Data, error) {
	if err := landmark.ValidateAnnulusPoints(cusps); err != nil {
		return scurve.Data{}, err
	}
	l := landmark.CuspByType(cusps, landmark.LeftCoronaryCusp).Position
	r := landmark.CuspByType(cusps, landmark.RightCoronaryCusp).Position
	n := landmark.CuspByType(cusps, landmark.NonCoronaryCusp).Position

	data := scurve.Generate(l, r, n)
	if data.Substitutions > 0 {
		e.log.Printf("s-curve: zero-term stabilization fired %d time(s); cusp geometry is near edge-on", data.Substitutions)
	}
	return data, nil
}

// ViewPresets returns the named clinical view presets for validated cusp
// landmarks.
func (e *Engine) ViewPresets(cusps []landmark.AnnulusPoint) (threeCusp, cuspOverlap scurve.Angles, err error) {
	if err := landmark.ValidateAnnulusPoints(cusps); err != nil {
		return scurve.Angles{}, scurve.Angles{}, err
	}
	l := landmark.CuspByType(cusps, landmark.LeftCoronaryCusp).Position
	r := landmark.CuspByType(cusps, landmark.RightCoronaryCusp).Position
	n := landmark.CuspByType(cusps, landmark.NonCoronaryCusp).Position
	return scurve.ThreeCuspView(l, r, n), scurve.CuspOverlapView(l, r, n), nil
}

// NearestSCurvePoint returns the index of the curve point closest to the
// given gantry angles.
func (e *Engine) NearestSCurvePoint(curve scurve.Data, laoRao, cranCaud float64) int {
	return curve.Nearest(laoRao, cranCaud)
}

// CameraToAngles converts a camera pose to gantry angles.
func (e *Engine) CameraToAngles(position, focalPoint r3.Vector) scurve.Angles {
	return scurve.CameraToAngles(position, focalPoint)
}

// AnglesToCamera converts gantry angles to a camera position at the
// configured camera distance.
func (e *Engine) AnglesToCamera(a scurve.Angles, focalPoint r3.Vector) r3.Vector {
	return scurve.AnglesToCamera(a, e.cfg.SCurve.CameraDistanceMm, focalPoint)
}
