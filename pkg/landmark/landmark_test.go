package landmark

import (
	"testing"

	"github.com/golang/geo/r3"
)

func rootSet(types ...RootPointType) []RootPoint {
	pts := make([]RootPoint, len(types))
	for i, t := range types {
		pts[i] = RootPoint{Type: t, Position: r3.Vector{Z: float64(i) * 10}}
	}
	return pts
}

func TestValidateRootPoints(t *testing.T) {
	tests := []struct {
		name    string
		points  []RootPoint
		wantErr error
	}{
		{
			name:    "valid minimum set",
			points:  rootSet(LVOutflow, AorticValve, AscendingAorta),
			wantErr: nil,
		},
		{
			name:    "too few",
			points:  rootSet(LVOutflow, AorticValve),
			wantErr: ErrTooFewRootPoints,
		},
		{
			name:    "three points with duplicate role",
			points:  rootSet(LVOutflow, LVOutflow, AscendingAorta),
			wantErr: ErrMissingRootRole,
		},
		{
			name:    "three points with extended role",
			points:  rootSet(LVOutflow, Extended, AscendingAorta),
			wantErr: ErrMissingRootRole,
		},
		{
			name:    "more than three points, roles unconstrained",
			points:  rootSet(LVOutflow, Extended, AorticValve, Extended, AscendingAorta),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateRootPoints(tt.points); err != tt.wantErr {
				t.Errorf("ValidateRootPoints() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAnnulusPoints(t *testing.T) {
	valid := []AnnulusPoint{
		{Type: LeftCoronaryCusp, Position: r3.Vector{X: 10}},
		{Type: RightCoronaryCusp, Position: r3.Vector{Y: 10}},
		{Type: NonCoronaryCusp, Position: r3.Vector{X: -10}},
	}
	if err := ValidateAnnulusPoints(valid); err != nil {
		t.Fatalf("valid cusp set rejected: %v", err)
	}

	if err := ValidateAnnulusPoints(valid[:2]); err != ErrWrongCuspCount {
		t.Errorf("two cusps: got %v, want ErrWrongCuspCount", err)
	}

	dup := []AnnulusPoint{valid[0], valid[0], valid[2]}
	if err := ValidateAnnulusPoints(dup); err != ErrDuplicateCusp {
		t.Errorf("duplicate cusp type: got %v, want ErrDuplicateCusp", err)
	}
}

func TestPositionsPreservesOrder(t *testing.T) {
	// Caller order is authoritative: a downstream-first placement must not be
	// re-sorted, or the centerline flow direction reverses.
	pts := []RootPoint{
		{Type: AscendingAorta, Position: r3.Vector{Z: 40}},
		{Type: AorticValve, Position: r3.Vector{Z: 20}},
		{Type: LVOutflow, Position: r3.Vector{Z: 0}},
	}
	got := Positions(pts)
	if got[0].Z != 40 || got[1].Z != 20 || got[2].Z != 0 {
		t.Errorf("Positions() reordered input: %v", got)
	}
}

func TestCuspByType(t *testing.T) {
	pts := []AnnulusPoint{
		{ID: "l", Type: LeftCoronaryCusp},
		{ID: "r", Type: RightCoronaryCusp},
		{ID: "n", Type: NonCoronaryCusp},
	}
	if got := CuspByType(pts, RightCoronaryCusp); got.ID != "r" {
		t.Errorf("CuspByType(Right) = %q, want %q", got.ID, "r")
	}
}
