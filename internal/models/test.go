package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Method identifies one of the supported sensory evaluation protocols.
type Method string

const (
	MethodQDA           Method = "qda"
	MethodHedonic       Method = "hedonic"
	MethodCATA          Method = "cata"
	MethodRATA          Method = "rata"
	MethodFlashProfile  Method = "flash_profile"
	MethodTriangle      Method = "triangle"
	MethodPaired        Method = "paired_comparison"
	MethodSorting       Method = "sorting"
	MethodNapping       Method = "napping"
	MethodTDS           Method = "tds"
	MethodTimeIntensity Method = "time_intensity"
)

// Methods lists every supported protocol tag.
var Methods = []Method{
	MethodQDA, MethodHedonic, MethodCATA, MethodRATA, MethodFlashProfile,
	MethodTriangle, MethodPaired, MethodSorting, MethodNapping,
	MethodTDS, MethodTimeIntensity,
}

// Valid reports whether m is a known method tag.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// Timed reports whether the method logs events against an elapsed-time clock.
func (m Method) Timed() bool {
	return m == MethodTDS || m == MethodTimeIntensity
}

// WholeSet reports whether the method presents every sample on a single
// screen instead of stepping through samples one at a time. The triangle
// protocol in particular evaluates one comparison set per session.
func (m Method) WholeSet() bool {
	switch m {
	case MethodTriangle, MethodPaired, MethodSorting, MethodNapping:
		return true
	}
	return false
}

// Test lifecycle status values.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Scale identifies the rating scale attached to an attribute.
type Scale string

const (
	ScaleContinuous0to100 Scale = "continuous_0_100"
	ScaleContinuous1to9   Scale = "continuous_1_9"
	ScaleContinuous1to10  Scale = "continuous_1_10"
	ScaleCategory5        Scale = "category_5"
	ScaleCategory7        Scale = "category_7"
	ScaleCategory9        Scale = "category_9"
)

// Scales lists every supported scale kind.
var Scales = []Scale{
	ScaleContinuous0to100, ScaleContinuous1to9, ScaleContinuous1to10,
	ScaleCategory5, ScaleCategory7, ScaleCategory9,
}

// Valid reports whether s is a known scale kind.
func (s Scale) Valid() bool {
	for _, known := range Scales {
		if s == known {
			return true
		}
	}
	return false
}

// Categorical reports whether the scale is a discrete point scale.
func (s Scale) Categorical() bool {
	switch s {
	case ScaleCategory5, ScaleCategory7, ScaleCategory9:
		return true
	}
	return false
}

// Bounds returns the inclusive rating range of the scale.
func (s Scale) Bounds() (min, max float64) {
	switch s {
	case ScaleContinuous0to100:
		return 0, 100
	case ScaleContinuous1to9:
		return 1, 9
	case ScaleContinuous1to10:
		return 1, 10
	case ScaleCategory5:
		return 1, 5
	case ScaleCategory7:
		return 1, 7
	case ScaleCategory9:
		return 1, 9
	}
	return 0, 100
}

// Default returns the pre-filled baseline rating for the scale: categorical
// scales start on their first point, continuous scales start at zero.
func (s Scale) Default() float64 {
	if s.Categorical() {
		return 1
	}
	return 0
}

// Clamp pins a rating to the scale's range.
func (s Scale) Clamp(v float64) float64 {
	min, max := s.Bounds()
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Test is a panel leader's test definition. It is read-only to the session
// runner; judges only ever see sample codes, never names.
type Test struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `json:"name"`
	Method          Method `json:"method"`
	Status          string `json:"status"`
	Instructions    string `json:"instructions"`
	DurationSeconds int    `json:"durationSeconds"`
	Randomize       bool   `json:"randomize"`
	// CorrectSample holds the code of the odd sample for discrimination
	// methods; empty for everything else.
	CorrectSample string      `json:"correctSample,omitempty"`
	Samples       []Sample    `gorm:"foreignKey:TestID" json:"samples"`
	Attributes    []Attribute `gorm:"foreignKey:TestID" json:"attributes"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Sample is a blinded product instance. Code is the only value a judge sees.
type Sample struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TestID   uint   `gorm:"index" json:"-"`
	Position int    `json:"position"`
	Code     string `json:"code"`
	Name     string `json:"name"`
}

// Attribute is one sensory dimension with its rating scale.
type Attribute struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	TestID         uint     `gorm:"index" json:"-"`
	Position       int      `json:"position"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Scale          Scale    `json:"scale"`
	AnchorLeft     string   `json:"anchorLeft,omitempty"`
	AnchorRight    string   `json:"anchorRight,omitempty"`
	ReferenceValue *float64 `json:"referenceValue,omitempty"`
	ReferenceLabel string   `json:"referenceLabel,omitempty"`
}

// seedFile matches config/tests.yaml, used to seed an empty database with
// example test definitions.
type seedFile struct {
	Tests []seedTest `yaml:"tests"`
}

type seedTest struct {
	Name            string          `yaml:"name"`
	Method          Method          `yaml:"method"`
	Instructions    string          `yaml:"instructions"`
	DurationSeconds int             `yaml:"duration_seconds"`
	Randomize       bool            `yaml:"randomize"`
	CorrectSample   string          `yaml:"correct_sample"`
	Samples         []seedSample    `yaml:"samples"`
	Attributes      []seedAttribute `yaml:"attributes"`
}

type seedSample struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type seedAttribute struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Scale       Scale  `yaml:"scale"`
	AnchorLeft  string `yaml:"anchor_left"`
	AnchorRight string `yaml:"anchor_right"`
}

// LoadSeedTests reads and parses a YAML file of example test definitions.
func LoadSeedTests(path string) ([]Test, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed YAML: %w", err)
	}

	tests := make([]Test, 0, len(file.Tests))
	for _, st := range file.Tests {
		if !st.Method.Valid() {
			return nil, fmt.Errorf("seed test %q: unknown method %q", st.Name, st.Method)
		}
		t := Test{
			Name:            st.Name,
			Method:          st.Method,
			Status:          StatusActive,
			Instructions:    st.Instructions,
			DurationSeconds: st.DurationSeconds,
			Randomize:       st.Randomize,
			CorrectSample:   st.CorrectSample,
		}
		for i, ss := range st.Samples {
			t.Samples = append(t.Samples, Sample{Position: i, Code: ss.Code, Name: ss.Name})
		}
		for i, sa := range st.Attributes {
			scale := sa.Scale
			if scale == "" {
				scale = ScaleContinuous0to100
			}
			if !scale.Valid() {
				return nil, fmt.Errorf("seed test %q: unknown scale %q", st.Name, sa.Scale)
			}
			t.Attributes = append(t.Attributes, Attribute{
				Position:    i,
				Name:        sa.Name,
				Description: sa.Description,
				Scale:       scale,
				AnchorLeft:  sa.AnchorLeft,
				AnchorRight: sa.AnchorRight,
			})
		}
		tests = append(tests, t)
	}
	return tests, nil
}
