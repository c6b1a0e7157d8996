package annulus

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"tavigeom/pkg/landmark"
)

// equilateralCusps places the three cusps on a circle of the given radius in
// the z = height plane, one per cusp type.
func equilateralCusps(radius, height float64) []landmark.AnnulusPoint {
	points := make([]landmark.AnnulusPoint, 3)
	types := []landmark.CuspType{
		landmark.LeftCoronaryCusp,
		landmark.RightCoronaryCusp,
		landmark.NonCoronaryCusp,
	}
	for i, typ := range types {
		theta := 2 * math.Pi * float64(i) / 3
		points[i] = landmark.AnnulusPoint{
			Type:     typ,
			Position: r3.Vector{X: radius * math.Cos(theta), Y: radius * math.Sin(theta), Z: height},
		}
	}
	return points
}

func TestSolveEquilateral(t *testing.T) {
	plane, err := Solve(equilateralCusps(10, 20))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if d := plane.Center.Sub(r3.Vector{Z: 20}).Norm(); d > 1e-9 {
		t.Errorf("center %.3e mm from expected centroid", d)
	}
	if d := math.Abs(plane.Normal.Norm() - 1); d > 1e-6 {
		t.Errorf("normal length off by %.3e", d)
	}
	if math.Abs(math.Abs(plane.Normal.Z)-1) > 1e-9 {
		t.Errorf("normal not along z: %v", plane.Normal)
	}
	if 1-plane.Confidence > 1e-9 {
		t.Errorf("confidence = %v, want 1.0 for equilateral cusps", plane.Confidence)
	}
}

func TestSolveCentroidExact(t *testing.T) {
	points := []landmark.AnnulusPoint{
		{Type: landmark.LeftCoronaryCusp, Position: r3.Vector{X: 31.2, Y: -18.4, Z: 104.8}},
		{Type: landmark.RightCoronaryCusp, Position: r3.Vector{X: 18.9, Y: -25.1, Z: 99.2}},
		{Type: landmark.NonCoronaryCusp, Position: r3.Vector{X: 24.4, Y: -11.7, Z: 95.5}},
	}
	plane, err := Solve(points)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	want := points[0].Position.Add(points[1].Position).Add(points[2].Position).Mul(1.0 / 3.0)
	if plane.Center != want {
		t.Errorf("center = %v, want exact centroid %v", plane.Center, want)
	}
	if d := math.Abs(plane.Normal.Norm() - 1); d > 1e-6 {
		t.Errorf("normal length off by %.3e", d)
	}
	if plane.Confidence < 0 || plane.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", plane.Confidence)
	}
}

func TestSolvePermutationFlipsNormalOnly(t *testing.T) {
	points := equilateralCusps(12, 5)
	plane, err := Solve(points)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	swapped := []landmark.AnnulusPoint{points[1], points[0], points[2]}
	plane2, err := Solve(swapped)
	if err != nil {
		t.Fatalf("Solve on permutation failed: %v", err)
	}

	// Cross-product anti-commutativity: sign may flip, magnitude may not.
	if d := math.Abs(plane2.Normal.Norm() - 1); d > 1e-6 {
		t.Errorf("permuted normal length off by %.3e", d)
	}
	if dot := plane.Normal.Dot(plane2.Normal); math.Abs(math.Abs(dot)-1) > 1e-9 {
		t.Errorf("permuted normal not (anti)parallel: dot = %v", dot)
	}
	if plane.Center != plane2.Center {
		t.Errorf("center changed under permutation")
	}
}

func TestSolveColinear(t *testing.T) {
	points := []landmark.AnnulusPoint{
		{Type: landmark.LeftCoronaryCusp, Position: r3.Vector{X: 0}},
		{Type: landmark.RightCoronaryCusp, Position: r3.Vector{X: 5}},
		{Type: landmark.NonCoronaryCusp, Position: r3.Vector{X: 10}},
	}
	if _, err := Solve(points); err != ErrDegeneratePlane {
		t.Fatalf("got %v, want ErrDegeneratePlane", err)
	}
}

func TestSolveValidation(t *testing.T) {
	if _, err := Solve(nil); err != landmark.ErrWrongCuspCount {
		t.Errorf("nil input: got %v, want ErrWrongCuspCount", err)
	}
}

func TestClinicalMeasurements(t *testing.T) {
	plane, err := Solve(equilateralCusps(12.5, 0))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	// All cusps at radius 12.5 -> the circle-equivalent measurements follow
	// directly.
	if d := math.Abs(plane.Diameter() - 25); d > 1e-9 {
		t.Errorf("diameter = %v, want 25", plane.Diameter())
	}
	if d := math.Abs(plane.Area() - math.Pi*12.5*12.5); d > 1e-9 {
		t.Errorf("area = %v", plane.Area())
	}
	if d := math.Abs(plane.Perimeter() - math.Pi*25); d > 1e-9 {
		t.Errorf("perimeter = %v", plane.Perimeter())
	}
}

func TestSignedDistance(t *testing.T) {
	plane, err := Solve(equilateralCusps(10, 20))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	d := plane.SignedDistance(r3.Vector{Z: 27})
	if math.Abs(math.Abs(d)-7) > 1e-9 {
		t.Errorf("|signed distance| = %v, want 7", math.Abs(d))
	}
}

func TestFitPlaneLeastSquares(t *testing.T) {
	// Points on the plane z = 0.5x - 0.25y + 3 with no noise.
	var pts []r3.Vector
	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			x, y := float64(i)*4, float64(j)*4
			pts = append(pts, r3.Vector{X: x, Y: y, Z: 0.5*x - 0.25*y + 3})
		}
	}

	_, normal, rms, err := FitPlaneLeastSquares(pts)
	if err != nil {
		t.Fatalf("FitPlaneLeastSquares failed: %v", err)
	}
	if rms > 1e-9 {
		t.Errorf("rms = %.3e for exactly planar input", rms)
	}

	want := r3.Vector{X: -0.5, Y: 0.25, Z: 1}.Normalize()
	if dot := math.Abs(normal.Dot(want)); math.Abs(dot-1) > 1e-9 {
		t.Errorf("normal = %v, want ±%v", normal, want)
	}
}

func TestFitPlaneLeastSquaresColinear(t *testing.T) {
	pts := []r3.Vector{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	if _, _, _, err := FitPlaneLeastSquares(pts); err != ErrDegeneratePlane {
		t.Fatalf("got %v, want ErrDegeneratePlane", err)
	}
}
