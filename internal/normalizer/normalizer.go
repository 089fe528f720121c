// Package normalizer turns the free-form text a language model returns into
// a complete types.Evaluation. It never fails: output that cannot be
// repaired resolves to the placeholder evaluation.
package normalizer

import (
	"heatglass/internal/rubric"
	"heatglass/internal/types"
)

// Result is the outcome of normalizing one model response.
type Result struct {
	Evaluation types.Evaluation `json:"evaluation"`
	Strategy   Strategy         `json:"strategy"`
	Recovered  bool             `json:"recovered"`
	Raw        string           `json:"raw"`
	Err        error            `json:"-"`
}

// Normalize parses raw into an evaluation shaped by r. Fields the model left
// out are back-filled from Placeholder(r).
func Normalize(raw string, r rubric.Rubric) Result {
	obj, st, err := ExtractObject(raw)
	if err != nil {
		return Result{Evaluation: Placeholder(r), Strategy: StrategyPlaceholder, Raw: raw, Err: err}
	}
	return Result{Evaluation: decode(obj, r), Strategy: st, Recovered: true, Raw: raw}
}

func decode(obj map[string]any, r rubric.Rubric) types.Evaluation {
	ev := Placeholder(r)

	if v, ok := lookup(obj, "temperatura", "temperatura_emocional", "temperature"); ok {
		if m, isMap := v.(map[string]any); isMap {
			if l, ok := lookup(m, "classificacao", "label"); ok {
				if t, ok := types.ParseTemperature(toString(l)); ok {
					ev.Temperature.Label = t
				}
			}
			setString(&ev.Temperature.Justification, m, "justificativa")
		} else if t, ok := types.ParseTemperature(toString(v)); ok {
			ev.Temperature.Label = t
		}
	}

	if v, ok := lookup(obj, "impacto_comercial", "impacto"); ok {
		if m, isMap := v.(map[string]any); isMap {
			setFloat(&ev.Impact.Percent, m, "percentual", "percent")
			setString(&ev.Impact.Label, m, "faixa")
			setString(&ev.Impact.Justification, m, "justificativa")
		} else {
			ev.Impact.Percent = toFloat(v)
		}
	}

	if m, ok := asMap(obj, "status_final"); ok {
		setString(&ev.FinalStatus.Satisfaction, m, "satisfacao", "satisfação")
		setString(&ev.FinalStatus.Risk, m, "risco")
		setString(&ev.FinalStatus.Outcome, m, "desfecho")
	}

	if items, ok := asList(obj, "checklist"); ok {
		ev.Checklist = decodeChecklist(items, r)
	}
	if checks, ok := asList(obj, "criterios_eliminatorios", "eliminatorios"); ok {
		ev.Disqualifying = decodeDisqualifying(checks, r)
	}

	if v, ok := lookup(obj, "uso_script", "script"); ok {
		if m, isMap := v.(map[string]any); isMap {
			if s, ok := lookup(m, "status"); ok {
				if st, ok := types.ParseScriptStatus(toString(s)); ok {
					ev.ScriptUsage.Status = st
				}
			}
			setString(&ev.ScriptUsage.Justification, m, "justificativa")
		} else if st, ok := types.ParseScriptStatus(toString(v)); ok {
			ev.ScriptUsage.Status = st
		}
	}

	setFloat(&ev.TotalScore, obj, "pontuacao_total", "pontuacao", "score_total")
	setString(&ev.Summary, obj, "resumo_geral", "resumo")
	return ev
}

// decodeChecklist keeps every entry the model returned and pads the list up
// to the rubric length. Number, criterion and weight of rubric items always
// come from the rubric; the model only decides the verdict.
func decodeChecklist(raw []any, r rubric.Rubric) []types.ChecklistItem {
	n := max(len(raw), len(r.Checklist))
	out := make([]types.ChecklistItem, 0, n)
	for i := 0; i < n; i++ {
		it := placeholderItem(r, i)
		if i < len(raw) {
			switch m := raw[i].(type) {
			case map[string]any:
				if i >= len(r.Checklist) {
					if v, ok := lookup(m, "item", "numero"); ok {
						it.Item = toInt(v)
					}
					setString(&it.Criterion, m, "criterio", "critério")
					setFloat(&it.Points, m, "pontos", "points")
				}
				if v, ok := lookup(m, "resposta", "response"); ok {
					it.Response = types.ParseResponse(toString(v))
				}
				setString(&it.Justification, m, "justificativa")
			case string:
				it.Response = types.ParseResponse(m)
			}
		}
		out = append(out, it)
	}
	return out
}

func decodeDisqualifying(raw []any, r rubric.Rubric) []types.DisqualifyingCheck {
	n := max(len(raw), len(r.Disqualifying))
	out := make([]types.DisqualifyingCheck, 0, n)
	for i := 0; i < n; i++ {
		c := placeholderCheck(r, i)
		if i < len(raw) {
			switch m := raw[i].(type) {
			case map[string]any:
				setString(&c.Criterion, m, "criterio", "critério")
				if v, ok := lookup(m, "ocorreu", "occurred"); ok {
					c.Occurred = toBool(v)
				}
				setString(&c.Justification, m, "justificativa")
			case bool, string:
				c.Occurred = toBool(m)
			}
		}
		out = append(out, c)
	}
	return out
}

func asMap(obj map[string]any, keys ...string) (map[string]any, bool) {
	v, ok := lookup(obj, keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(obj map[string]any, keys ...string) ([]any, bool) {
	v, ok := lookup(obj, keys...)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}
