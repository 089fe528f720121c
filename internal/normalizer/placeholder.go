package normalizer

import (
	"heatglass/internal/rubric"
	"heatglass/internal/types"
)

// NotInformed fills text fields the model left out.
const NotInformed = "Não informado"

// FailureSummary is the summary of a placeholder evaluation.
const FailureSummary = "Não foi possível gerar a análise automática desta ligação. " +
	"A resposta do modelo não pôde ser interpretada; revise a transcrição manualmente."

// Placeholder builds the default evaluation for r. Every other default in the
// package is derived from it.
func Placeholder(r rubric.Rubric) types.Evaluation {
	ev := types.Evaluation{
		Temperature: types.TemperatureBlock{Label: types.TemperatureNeutral, Justification: NotInformed},
		Impact:      types.ImpactBlock{Percent: 0, Label: NotInformed, Justification: NotInformed},
		FinalStatus: types.FinalStatus{Satisfaction: NotInformed, Risk: NotInformed, Outcome: NotInformed},
		Checklist:   make([]types.ChecklistItem, 0, len(r.Checklist)),
		ScriptUsage: types.ScriptUsage{Status: types.ScriptNotUsed, Justification: NotInformed},
		TotalScore:  0,
		Summary:     FailureSummary,
	}
	for i := range r.Checklist {
		ev.Checklist = append(ev.Checklist, placeholderItem(r, i))
	}
	ev.Disqualifying = make([]types.DisqualifyingCheck, 0, len(r.Disqualifying))
	for i := range r.Disqualifying {
		ev.Disqualifying = append(ev.Disqualifying, placeholderCheck(r, i))
	}
	return ev
}

func placeholderItem(r rubric.Rubric, i int) types.ChecklistItem {
	it := types.ChecklistItem{
		Item:          i + 1,
		Criterion:     NotInformed,
		Response:      types.ResponseNotVerifiable,
		Justification: NotInformed,
	}
	if i < len(r.Checklist) {
		it.Item = r.Checklist[i].Number
		it.Criterion = r.Checklist[i].Criterion
		it.Points = r.Points(it.Item)
	}
	return it
}

func placeholderCheck(r rubric.Rubric, i int) types.DisqualifyingCheck {
	c := types.DisqualifyingCheck{Criterion: NotInformed, Justification: NotInformed}
	if i < len(r.Disqualifying) {
		c.Criterion = r.Disqualifying[i]
	}
	return c
}
