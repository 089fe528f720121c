package actionable

import (
	"fmt"
	"strings"

	"heatglass/internal/scoring"
	"heatglass/internal/types"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
	Level   string `json:"level"`
}

// Card levels, used by the templates for colour.
const (
	LevelUrgent    = "urgent"
	LevelAttention = "attention"
	LevelGood      = "good"
)

// focusItems is how many checklist gaps a retraining card names.
const focusItems = 3

// Generate turns a scored evaluation into one coaching card for the agent's
// supervisor.
func Generate(d scoring.Derived, ev types.Evaluation) ActionCard {
	if d.Disqualified {
		var occurred []string
		for _, c := range ev.Disqualifying {
			if c.Occurred {
				occurred = append(occurred, c.Criterion)
			}
		}
		return ActionCard{
			Insight: "Critério eliminatório identificado: " + strings.Join(occurred, "; "),
			Action:  "Dar feedback imediato ao atendente e revisar a ligação com a supervisão",
			Impact:  "Evita reincidência e reduz risco de reclamação formal",
			Level:   LevelUrgent,
		}
	}

	switch d.ScoreBucket {
	case scoring.BucketCritical, scoring.BucketLow:
		gaps := Gaps(ev)
		if len(gaps) > focusItems {
			gaps = gaps[:focusItems]
		}
		names := make([]string, 0, len(gaps))
		for _, g := range gaps {
			names = append(names, fmt.Sprintf("item %d (%s pts perdidos)", g.Item, trimFloat(g.Lost)))
		}
		insight := fmt.Sprintf("Pontuação %s (%.0f%%)", strings.ToLower(d.ScoreBucket), d.ScorePercent)
		if len(names) > 0 {
			insight += "; maiores perdas: " + strings.Join(names, ", ")
		}
		return ActionCard{
			Insight: insight,
			Action:  "Reciclagem direcionada nos itens com maior perda e nova avaliação em 15 dias",
			Impact:  "Recupera pontos de checklist e melhora a conversão de agendamentos",
			Level:   LevelAttention,
		}
	case scoring.BucketFair:
		return ActionCard{
			Insight: fmt.Sprintf("Pontuação razoável (%.0f%%) com espaço para evolução", d.ScorePercent),
			Action:  "Compartilhar boas práticas e acompanhar as próximas ligações",
			Impact:  "Consolida o padrão de atendimento",
			Level:   LevelAttention,
		}
	}
	return ActionCard{
		Insight: fmt.Sprintf("Atendimento %s (%.0f%%)", strings.ToLower(d.ScoreBucket), d.ScorePercent),
		Action:  "Reconhecer o atendente e manter o monitoramento",
		Impact:  "Baixa necessidade de intervenção",
		Level:   LevelGood,
	}
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}
