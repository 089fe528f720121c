// Package scoring reconciles the checklist total and buckets the impact and
// score percentages.
package scoring

import (
	"math"

	"heatglass/internal/types"
)

// Bucket labels, from worst to best.
const (
	BucketCritical  = "Crítico"
	BucketLow       = "Baixo"
	BucketFair      = "Razoável"
	BucketPositive  = "Positivo"
	BucketExcellent = "Excelente"
)

// discrepancyTolerance is how far the model's total may drift from the
// checklist sum before it is flagged.
const discrepancyTolerance = 0.5

var thresholds = []struct {
	upTo  float64
	label string
}{
	{25, BucketCritical},
	{50, BucketLow},
	{70, BucketFair},
	{85, BucketPositive},
}

// Derived holds every figure computed from an evaluation.
type Derived struct {
	ComputedTotal float64 `json:"computed_total"`
	ReportedTotal float64 `json:"reported_total"`
	Total         float64 `json:"total"`
	MaxScore      float64 `json:"max_score"`
	ChecklistUsed bool    `json:"checklist_used"`
	Discrepancy   bool    `json:"discrepancy"`
	ScorePercent  float64 `json:"score_percent"`
	ImpactPercent float64 `json:"impact_percent"`
	ImpactBucket  string  `json:"impact_bucket"`
	ScoreBucket   string  `json:"score_bucket"`
	Disqualified  bool    `json:"disqualified"`
}

// Credit is the score an item earns: full points for Sim, exactly half for
// Parcial, nothing otherwise.
func Credit(it types.ChecklistItem) float64 {
	switch it.Response {
	case types.ResponseYes:
		return it.Points
	case types.ResponsePartial:
		return it.Points / 2
	}
	return 0
}

// Bucket maps a percentage to its label. Thresholds are inclusive upper
// bounds, so 25 is Crítico and 25.01 is Baixo.
func Bucket(p float64) string {
	for _, t := range thresholds {
		if p <= t.upTo {
			return t.label
		}
	}
	return BucketExcellent
}

// Derive computes totals, percentages and buckets for ev. The checklist sum
// wins over the model's reported total whenever at least one item carries a
// verifiable verdict.
func Derive(ev types.Evaluation, maxScore float64) Derived {
	d := Derived{
		ReportedTotal: ev.TotalScore,
		MaxScore:      maxScore,
		Disqualified:  ev.AnyDisqualified(),
	}
	for _, it := range ev.Checklist {
		d.ComputedTotal += Credit(it)
		if it.Response != types.ResponseNotVerifiable {
			d.ChecklistUsed = true
		}
	}

	if d.ChecklistUsed {
		d.Total = clamp(d.ComputedTotal, 0, maxScore)
		d.Discrepancy = math.Abs(d.ReportedTotal-d.ComputedTotal) > discrepancyTolerance
	} else {
		d.Total = clamp(d.ReportedTotal, 0, maxScore)
	}

	if maxScore > 0 {
		d.ScorePercent = d.Total * 100 / maxScore
	}
	d.ImpactPercent = clamp(ev.Impact.Percent, 0, 100)
	d.ImpactBucket = Bucket(d.ImpactPercent)
	d.ScoreBucket = Bucket(d.ScorePercent)
	return d
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
