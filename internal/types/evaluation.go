// internal/types/evaluation.go
package types

// --------------------------------------------
// Normalized quality evaluation of one call
// --------------------------------------------
type Evaluation struct {
	Temperature   TemperatureBlock     `json:"temperatura"`
	Impact        ImpactBlock          `json:"impacto_comercial"`
	FinalStatus   FinalStatus          `json:"status_final"`
	Checklist     []ChecklistItem      `json:"checklist"`
	Disqualifying []DisqualifyingCheck `json:"criterios_eliminatorios"`
	ScriptUsage   ScriptUsage          `json:"uso_script"`
	TotalScore    float64              `json:"pontuacao_total"`
	Summary       string               `json:"resumo_geral"`
}

// --------------------------------------------
// Emotional temperature
// --------------------------------------------
type TemperatureBlock struct {
	Label         Temperature `json:"classificacao"`
	Justification string      `json:"justificativa"`
}

// --------------------------------------------
// Commercial impact (0-100)
// --------------------------------------------
type ImpactBlock struct {
	Percent       float64 `json:"percentual"`
	Label         string  `json:"faixa"`
	Justification string  `json:"justificativa"`
}

// --------------------------------------------
// Final status triple
// --------------------------------------------
type FinalStatus struct {
	Satisfaction string `json:"satisfacao"`
	Risk         string `json:"risco"`
	Outcome      string `json:"desfecho"`
}

// --------------------------------------------
// Checklist item as judged by the model
// --------------------------------------------
type ChecklistItem struct {
	Item          int      `json:"item"`
	Criterion     string   `json:"criterio"`
	Points        float64  `json:"pontos"`
	Response      Response `json:"resposta"`
	Justification string   `json:"justificativa"`
}

// --------------------------------------------
// Disqualifying criterion check
// --------------------------------------------
type DisqualifyingCheck struct {
	Criterion     string `json:"criterio"`
	Occurred      bool   `json:"ocorreu"`
	Justification string `json:"justificativa"`
}

// --------------------------------------------
// Closing script verdict
// --------------------------------------------
type ScriptUsage struct {
	Status        ScriptStatus `json:"status"`
	Justification string       `json:"justificativa"`
}

// AnyDisqualified reports whether at least one disqualifying criterion occurred.
func (e Evaluation) AnyDisqualified() bool {
	for _, d := range e.Disqualifying {
		if d.Occurred {
			return true
		}
	}
	return false
}
