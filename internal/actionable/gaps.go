package actionable

import (
	"sort"

	"heatglass/internal/scoring"
	"heatglass/internal/types"
)

// Gap is the credit an item did not earn.
type Gap struct {
	Item      int     `json:"item"`
	Criterion string  `json:"criterion"`
	Lost      float64 `json:"lost"`
	// LostShare is Lost over the points the item is worth.
	LostShare float64 `json:"lost_share"`
}

// Gaps lists checklist items that lost points, largest loss first. Items
// judged not verifiable are skipped.
func Gaps(ev types.Evaluation) []Gap {
	var gaps []Gap
	for _, it := range ev.Checklist {
		if it.Response == types.ResponseNotVerifiable || it.Points <= 0 {
			continue
		}
		lost := it.Points - scoring.Credit(it)
		if lost <= 0 {
			continue
		}
		gaps = append(gaps, Gap{
			Item:      it.Item,
			Criterion: it.Criterion,
			Lost:      lost,
			LostShare: lost / it.Points,
		})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Lost != gaps[j].Lost {
			return gaps[i].Lost > gaps[j].Lost
		}
		return gaps[i].Item < gaps[j].Item
	})
	return gaps
}
