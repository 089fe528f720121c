package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"heatglass/internal/normalizer"
	"heatglass/internal/rubric"
	"heatglass/internal/types"
)

func withResponses(r rubric.Rubric, resp types.Response) types.Evaluation {
	ev := normalizer.Placeholder(r)
	for i := range ev.Checklist {
		ev.Checklist[i].Response = resp
	}
	return ev
}

func TestCredit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		resp types.Response
		pts  float64
		want float64
	}{
		{types.ResponseYes, 10, 10},
		{types.ResponsePartial, 10, 5},
		{types.ResponsePartial, 5, 2.5},
		{types.ResponseNo, 10, 0},
		{types.ResponseNotVerifiable, 10, 0},
	}
	for _, tt := range tests {
		got := Credit(types.ChecklistItem{Points: tt.pts, Response: tt.resp})
		assert.Equal(t, tt.want, got, "%s/%v", tt.resp, tt.pts)
	}
}

func TestDerive_ChecklistTotals(t *testing.T) {
	t.Parallel()

	r := rubric.Default()

	all := Derive(withResponses(r, types.ResponseYes), r.MaxScore)
	assert.Equal(t, r.MaxScore, all.ComputedTotal)
	assert.Equal(t, r.MaxScore, all.Total)
	assert.Equal(t, 100.0, all.ScorePercent)
	assert.Equal(t, BucketExcellent, all.ScoreBucket)

	none := Derive(withResponses(r, types.ResponseNo), r.MaxScore)
	assert.Equal(t, 0.0, none.Total)
	assert.True(t, none.ChecklistUsed)
	assert.Equal(t, BucketCritical, none.ScoreBucket)

	half := Derive(withResponses(r, types.ResponsePartial), r.MaxScore)
	assert.Equal(t, r.MaxScore/2, half.Total)
	assert.Equal(t, BucketLow, half.ScoreBucket)
}

func TestDerive_ReportedTotalWhenChecklistUnverifiable(t *testing.T) {
	t.Parallel()

	r := rubric.Default()
	ev := normalizer.Placeholder(r)
	ev.TotalScore = 85

	d := Derive(ev, r.MaxScore)
	assert.False(t, d.ChecklistUsed)
	assert.False(t, d.Discrepancy)
	assert.Equal(t, 85.0, d.Total)
	assert.Equal(t, BucketPositive, d.ScoreBucket)
}

func TestDerive_Discrepancy(t *testing.T) {
	t.Parallel()

	r := rubric.Default()
	ev := withResponses(r, types.ResponseYes)
	ev.TotalScore = 90

	d := Derive(ev, r.MaxScore)
	assert.True(t, d.Discrepancy)
	assert.Equal(t, 90.0, d.ReportedTotal)
	assert.Equal(t, 100.0, d.Total)

	ev.TotalScore = 99.6
	assert.False(t, Derive(ev, r.MaxScore).Discrepancy)
}

func TestDerive_Clamping(t *testing.T) {
	t.Parallel()

	r := rubric.Default()
	ev := normalizer.Placeholder(r)
	ev.TotalScore = 250
	ev.Impact.Percent = 140

	d := Derive(ev, r.MaxScore)
	assert.Equal(t, r.MaxScore, d.Total)
	assert.Equal(t, 100.0, d.ImpactPercent)
	assert.Equal(t, BucketExcellent, d.ImpactBucket)

	ev.TotalScore = -5
	ev.Impact.Percent = -10
	d = Derive(ev, r.MaxScore)
	assert.Equal(t, 0.0, d.Total)
	assert.Equal(t, 0.0, d.ImpactPercent)
	assert.Equal(t, BucketCritical, d.ImpactBucket)

	ev = withResponses(r, types.ResponseYes)
	ev.Checklist[0].Points = 500
	assert.Equal(t, r.MaxScore, Derive(ev, r.MaxScore).Total)
}

func TestDerive_Placeholder(t *testing.T) {
	t.Parallel()

	r := rubric.Default()
	d := Derive(normalizer.Placeholder(r), r.MaxScore)
	assert.Equal(t, 0.0, d.Total)
	assert.Equal(t, 0.0, d.ScorePercent)
	assert.False(t, d.Disqualified)
	assert.Equal(t, BucketCritical, d.ScoreBucket)
}

func TestDerive_Disqualified(t *testing.T) {
	t.Parallel()

	r := rubric.Default()
	ev := withResponses(r, types.ResponseYes)
	ev.Disqualifying[2].Occurred = true
	assert.True(t, Derive(ev, r.MaxScore).Disqualified)
}

func TestBucket_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p    float64
		want string
	}{
		{0, BucketCritical},
		{25, BucketCritical},
		{25.01, BucketLow},
		{50, BucketLow},
		{50.01, BucketFair},
		{70, BucketFair},
		{70.01, BucketPositive},
		{85, BucketPositive},
		{85.01, BucketExcellent},
		{100, BucketExcellent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(tt.p), "%v", tt.p)
	}
}

func TestBucket_Monotonic(t *testing.T) {
	t.Parallel()

	rank := map[string]int{
		BucketCritical: 0, BucketLow: 1, BucketFair: 2, BucketPositive: 3, BucketExcellent: 4,
	}
	prev := rank[Bucket(0)]
	for p := 0.0; p <= 100; p += 0.25 {
		cur := rank[Bucket(p)]
		assert.GreaterOrEqual(t, cur, prev, "%v", p)
		prev = cur
	}
}
