package extractor

import (
	"context"
	"encoding/json"
	"fmt"

	"heatglass/internal/logger"
	"heatglass/internal/rubric"
	"heatglass/internal/types"
)

// MockCompleter returns a deterministic evaluation wrapped in a markdown
// fence, the way real models often answer despite being told not to.
type MockCompleter struct {
	Rubric rubric.Rubric
}

func (m MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	logger.FromContext(ctx).WithField("component", "completion-mock").Info("mock LLM mode ON - returning deterministic evaluation")

	ev := MockEvaluation(m.Rubric)
	b, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrCompletion, err)
	}
	return "```json\n" + string(b) + "\n```", nil
}

// MockEvaluation is the evaluation MockCompleter serialises. Items 3 and 10
// are partial, item 13 (closing script) is missing, the rest are met.
func MockEvaluation(r rubric.Rubric) types.Evaluation {
	ev := types.Evaluation{
		Temperature: types.TemperatureBlock{
			Label:         types.TemperatureNeutral,
			Justification: "O cliente relatou o dano no para-brisa com tranquilidade, mas demonstrou impaciência ao aguardar a consulta da cobertura.",
		},
		Impact: types.ImpactBlock{
			Percent:       78,
			Label:         "Positivo",
			Justification: "O agendamento foi concluído, porém o cliente ficou em dúvida sobre o valor da franquia.",
		},
		FinalStatus: types.FinalStatus{
			Satisfaction: "Satisfeito",
			Risk:         "Baixo",
			Outcome:      "Serviço agendado",
		},
		ScriptUsage: types.ScriptUsage{
			Status:        types.ScriptNotUsed,
			Justification: "A ligação foi encerrada sem a pergunta de dúvidas finais e sem a identificação do atendente.",
		},
		Summary: "Cliente ligou para **trocar o para-brisa** após uma pedra trincar o vidro.\n\n" +
			"- O atendente confirmou os dados e a cobertura do seguro.\n" +
			"- O agendamento foi feito para a loja mais próxima.\n" +
			"- Faltou o script de encerramento.",
	}

	var total float64
	for _, it := range r.Checklist {
		item := types.ChecklistItem{
			Item:          it.Number,
			Criterion:     it.Criterion,
			Points:        it.Points,
			Response:      types.ResponseYes,
			Justification: "Critério atendido durante a ligação.",
		}
		switch it.Number {
		case 3, 10:
			item.Response = types.ResponsePartial
			item.Justification = "Critério atendido apenas em parte."
			total += it.Points / 2
		case len(r.Checklist):
			item.Response = types.ResponseNo
			item.Justification = "O atendente não utilizou o encerramento de referência."
		default:
			total += it.Points
		}
		ev.Checklist = append(ev.Checklist, item)
	}
	for _, c := range r.Disqualifying {
		ev.Disqualifying = append(ev.Disqualifying, types.DisqualifyingCheck{
			Criterion:     c,
			Occurred:      false,
			Justification: "Não ocorreu.",
		})
	}
	ev.TotalScore = total
	return ev
}
