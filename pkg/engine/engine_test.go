package engine

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavigeom/pkg/annulus"
	"tavigeom/pkg/config"
	"tavigeom/pkg/landmark"
)

// captureLogger collects Printf output for assertions.
type captureLogger struct {
	lines []string
}

func (c *captureLogger) Printf(format string, v ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, v...))
}

func (c *captureLogger) contains(substr string) bool {
	for _, l := range c.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func testCusps() []landmark.AnnulusPoint {
	return []landmark.AnnulusPoint{
		{Type: landmark.LeftCoronaryCusp, Position: r3.Vector{X: 36.79, Y: -199.311, Z: 1416.193}},
		{Type: landmark.RightCoronaryCusp, Position: r3.Vector{X: 32.25, Y: -218.025, Z: 1404.997}},
		{Type: landmark.NonCoronaryCusp, Position: r3.Vector{X: 26.103, Y: -199.937, Z: 1391.409}},
	}
}

func testRoots() []landmark.RootPoint {
	return []landmark.RootPoint{
		{Type: landmark.LVOutflow, Position: r3.Vector{X: 31, Y: -206, Z: 1380}},
		{Type: landmark.AorticValve, Position: r3.Vector{X: 31.7, Y: -205.8, Z: 1404.2}},
		{Type: landmark.AscendingAorta, Position: r3.Vector{X: 33, Y: -204, Z: 1430}},
	}
}

func TestNewDefaults(t *testing.T) {
	e := New(nil, nil)
	require.NotNil(t, e)

	// Nil logger must be safe to use.
	_, err := e.ComputeSCurve(testCusps())
	assert.NoError(t, err)
}

func TestComputeAnnularPlane(t *testing.T) {
	e := New(nil, nil)
	plane, err := e.ComputeAnnularPlane(testCusps())
	require.NoError(t, err)

	assert.InDelta(t, 1, plane.Normal.Norm(), 1e-9)
	assert.Greater(t, plane.Confidence, 0.5)
	// Measured annuli run 15-35mm in adults; these cusps are from a real case.
	assert.Greater(t, plane.Diameter(), 15.0)
	assert.Less(t, plane.Diameter(), 35.0)
}

func TestComputeAnnularPlaneLowConfidenceLogs(t *testing.T) {
	log := &captureLogger{}
	e := New(nil, log)

	// The centroid lands almost on the first cusp, so the centroid distances
	// are wildly uneven.
	cusps := []landmark.AnnulusPoint{
		{Type: landmark.LeftCoronaryCusp, Position: r3.Vector{}},
		{Type: landmark.RightCoronaryCusp, Position: r3.Vector{X: 3, Y: 1}},
		{Type: landmark.NonCoronaryCusp, Position: r3.Vector{X: -3.2, Y: -0.9}},
	}
	_, err := e.ComputeAnnularPlane(cusps)
	require.NoError(t, err)
	assert.True(t, log.contains("confidence"), "expected a low-confidence diagnostic, got %v", log.lines)
}

func TestComputeAnnularPlaneError(t *testing.T) {
	e := New(nil, nil)
	_, err := e.ComputeAnnularPlane(testCusps()[:2])
	assert.ErrorIs(t, err, landmark.ErrWrongCuspCount)
}

func TestFitContourPlane(t *testing.T) {
	log := &captureLogger{}
	e := New(nil, log)

	// A 12-point circle in the z = 5 plane.
	var pts []r3.Vector
	for i := 0; i < 12; i++ {
		theta := 2 * math.Pi * float64(i) / 12
		pts = append(pts, r3.Vector{X: 12 * math.Cos(theta), Y: 12 * math.Sin(theta), Z: 5})
	}

	center, normal, rms, err := e.FitContourPlane(pts)
	require.NoError(t, err)
	assert.InDelta(t, 0, rms, 1e-9)
	assert.InDelta(t, 1, math.Abs(normal.Z), 1e-9)
	assert.InDelta(t, 0, center.Sub(r3.Vector{Z: 5}).Norm(), 1e-9)
	assert.Empty(t, log.lines)

	// Pull two opposite points well out of plane; the diagnostic fires.
	pts[0].Z += 6
	pts[6].Z -= 6
	_, _, rms, err = e.FitContourPlane(pts)
	require.NoError(t, err)
	assert.Greater(t, rms, 1.0)
	assert.True(t, log.contains("off planar"), "expected a planarity diagnostic, got %v", log.lines)
}

func TestFitContourPlaneColinear(t *testing.T) {
	e := New(nil, nil)
	_, _, _, err := e.FitContourPlane([]r3.Vector{{X: 0}, {X: 1}, {X: 2}})
	assert.ErrorIs(t, err, annulus.ErrDegeneratePlane)
}

func TestComputeCenterline(t *testing.T) {
	e := New(nil, nil)
	plane, err := e.ComputeAnnularPlane(testCusps())
	require.NoError(t, err)

	data, err := e.ComputeCenterline(testRoots(), plane)
	require.NoError(t, err)

	assert.Greater(t, data.SampleCount(), 0)
	assert.GreaterOrEqual(t, data.AnnulusPlaneIndex, 0)
	assert.Greater(t, data.Length, 0.0)
}

func TestComputeCenterlineError(t *testing.T) {
	e := New(nil, nil)
	_, err := e.ComputeCenterline(testRoots()[:2], nil)
	assert.ErrorIs(t, err, landmark.ErrTooFewRootPoints)
}

func TestComputeSCurveLogsSubstitutions(t *testing.T) {
	log := &captureLogger{}
	e := New(nil, log)

	data, err := e.ComputeSCurve(testCusps())
	require.NoError(t, err)

	// The zero term at the 0-degree rotation fires on every curve.
	assert.GreaterOrEqual(t, data.Substitutions, 1)
	assert.True(t, log.contains("stabilization"), "expected a substitution diagnostic, got %v", log.lines)
}

func TestComputeSCurveValidates(t *testing.T) {
	e := New(nil, nil)
	cusps := testCusps()
	cusps[1].Type = landmark.LeftCoronaryCusp
	_, err := e.ComputeSCurve(cusps)
	assert.ErrorIs(t, err, landmark.ErrDuplicateCusp)
}

func TestViewPresets(t *testing.T) {
	e := New(nil, nil)
	threeCusp, cuspOverlap, err := e.ViewPresets(testCusps())
	require.NoError(t, err)

	assert.InDelta(t, 44.0, threeCusp.LaoRao, 0.1)
	assert.InDelta(t, 57.7, threeCusp.CranCaud, 0.1)
	assert.InDelta(t, 2.5, cuspOverlap.LaoRao, 0.1)
	assert.InDelta(t, 3.7, cuspOverlap.CranCaud, 0.1)
}

func TestNearestSCurvePoint(t *testing.T) {
	e := New(nil, nil)
	data, err := e.ComputeSCurve(testCusps())
	require.NoError(t, err)

	idx := e.NearestSCurvePoint(data, data.LaoRao[30], data.CranCaud[30])
	assert.Equal(t, 30, idx)
}

func TestAnglesToCameraUsesConfiguredDistance(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SCurve.CameraDistanceMm = 750
	e := New(cfg, nil)

	fp := r3.Vector{X: 1, Y: 2, Z: 3}
	pos := e.AnglesToCamera(e.CameraToAngles(r3.Vector{X: 1, Y: -498, Z: 3}, fp), fp)
	assert.InDelta(t, 750, pos.Sub(fp).Norm(), 1e-9)
}
