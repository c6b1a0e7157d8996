// Package models defines the landmark study file format shared by the CLI
// and tests: a YAML document holding the user-placed root and cusp landmarks
// for one planning case.
package models

import (
	"fmt"
	"os"
	"time"

	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v3"

	"tavigeom/pkg/landmark"
)

// Study is one planning case as stored on disk.
type Study struct {
	// Patient is a free-form case label; never a real identifier.
	Patient string `yaml:"patient"`

	// RootPoints are the aortic root axis landmarks in placement order.
	RootPoints []Landmark `yaml:"rootPoints"`

	// CuspPoints are the three valve cusp landmarks.
	CuspPoints []Landmark `yaml:"cuspPoints"`

	// AnnulusContour is an optional dense trace of the annulus contour,
	// [x, y, z] rows in mm, used to cross-check the 3-cusp plane.
	AnnulusContour [][3]float64 `yaml:"annulusContour,omitempty"`
}

// Landmark is one stored landmark entry.
type Landmark struct {
	// ID is the editor-assigned landmark identifier
	ID string `yaml:"id"`

	// Type is the anatomical role, e.g. "lv_outflow" or "left_coronary_cusp"
	Type string `yaml:"type"`

	// Position is the world position in mm, [x, y, z]
	Position [3]float64 `yaml:"position"`

	// PlacedAt is when the landmark was placed (optional)
	PlacedAt time.Time `yaml:"placedAt,omitempty"`
}

// LoadStudy reads and parses a study file.
func LoadStudy(path string) (*Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading study file: %w", err)
	}
	var s Study
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error parsing study file: %w", err)
	}
	return &s, nil
}

// SaveStudy writes a study file.
func SaveStudy(s *Study, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("error marshaling study: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing study file: %w", err)
	}
	return nil
}

// ToRootPoints converts the stored root landmarks to engine value objects,
// preserving placement order.
func (s *Study) ToRootPoints() ([]landmark.RootPoint, error) {
	out := make([]landmark.RootPoint, 0, len(s.RootPoints))
	for _, e := range s.RootPoints {
		t, err := parseRootType(e.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, landmark.RootPoint{
			ID:       e.ID,
			Type:     t,
			Position: r3.Vector{X: e.Position[0], Y: e.Position[1], Z: e.Position[2]},
			PlacedAt: e.PlacedAt,
		})
	}
	return out, nil
}

// ToAnnulusPoints converts the stored cusp landmarks to engine value objects.
func (s *Study) ToAnnulusPoints() ([]landmark.AnnulusPoint, error) {
	out := make([]landmark.AnnulusPoint, 0, len(s.CuspPoints))
	for _, e := range s.CuspPoints {
		t, err := parseCuspType(e.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, landmark.AnnulusPoint{
			ID:       e.ID,
			Type:     t,
			Position: r3.Vector{X: e.Position[0], Y: e.Position[1], Z: e.Position[2]},
			PlacedAt: e.PlacedAt,
		})
	}
	return out, nil
}

// ContourPoints converts the optional annulus contour trace to vectors,
// preserving trace order.
func (s *Study) ContourPoints() []r3.Vector {
	out := make([]r3.Vector, 0, len(s.AnnulusContour))
	for _, p := range s.AnnulusContour {
		out = append(out, r3.Vector{X: p[0], Y: p[1], Z: p[2]})
	}
	return out
}

func parseRootType(s string) (landmark.RootPointType, error) {
	switch s {
	case "lv_outflow":
		return landmark.LVOutflow, nil
	case "aortic_valve":
		return landmark.AorticValve, nil
	case "ascending_aorta":
		return landmark.AscendingAorta, nil
	case "extended":
		return landmark.Extended, nil
	default:
		return 0, fmt.Errorf("unknown root point type %q", s)
	}
}

func parseCuspType(s string) (landmark.CuspType, error) {
	switch s {
	case "left_coronary_cusp":
		return landmark.LeftCoronaryCusp, nil
	case "right_coronary_cusp":
		return landmark.RightCoronaryCusp, nil
	case "non_coronary_cusp":
		return landmark.NonCoronaryCusp, nil
	default:
		return 0, fmt.Errorf("unknown cusp type %q", s)
	}
}
