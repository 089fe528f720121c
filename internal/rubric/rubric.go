// Package rubric holds the canonical evaluation rubric: weighted checklist
// items, disqualifying criteria and the reference closing script.
package rubric

import (
	_ "embed"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rubric.yaml
var defaultYAML []byte

// Item is one weighted checklist criterion.
type Item struct {
	Number    int     `yaml:"item"`
	Criterion string  `yaml:"criterion"`
	Points    float64 `yaml:"points"`
}

// Rubric is the full evaluation rubric sent to the model.
type Rubric struct {
	Version       string   `yaml:"version"`
	MaxScore      float64  `yaml:"max_score"`
	Checklist     []Item   `yaml:"checklist"`
	Disqualifying []string `yaml:"disqualifying"`
	ClosingScript string   `yaml:"closing_script"`
}

// Default returns the embedded canonical rubric. It panics if the embedded
// file is invalid, which can only happen through a bad edit of rubric.yaml.
func Default() Rubric {
	r, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rubric is invalid: %v", err))
	}
	return r
}

// Parse decodes and validates a rubric document.
func Parse(data []byte) (Rubric, error) {
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rubric{}, fmt.Errorf("parse rubric: %w", err)
	}
	r.ClosingScript = strings.TrimSpace(r.ClosingScript)
	if err := r.Validate(); err != nil {
		return Rubric{}, err
	}
	return r, nil
}

// Validate checks item numbering, point values and that the points add up
// to the declared maximum.
func (r Rubric) Validate() error {
	if len(r.Checklist) == 0 {
		return fmt.Errorf("rubric: empty checklist")
	}
	sum := 0.0
	for i, it := range r.Checklist {
		if it.Number != i+1 {
			return fmt.Errorf("rubric: item %d has number %d", i+1, it.Number)
		}
		if it.Points <= 0 {
			return fmt.Errorf("rubric: item %d has non-positive points %.1f", it.Number, it.Points)
		}
		if strings.TrimSpace(it.Criterion) == "" {
			return fmt.Errorf("rubric: item %d has no criterion", it.Number)
		}
		sum += it.Points
	}
	if math.Abs(sum-r.MaxScore) > 1e-9 {
		return fmt.Errorf("rubric: points add up to %.1f, max_score is %.1f", sum, r.MaxScore)
	}
	return nil
}

// Points returns the point value of the numbered item, or 0 if absent.
func (r Rubric) Points(number int) float64 {
	if number < 1 || number > len(r.Checklist) {
		return 0
	}
	return r.Checklist[number-1].Points
}
