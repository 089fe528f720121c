package extractor

import (
	"fmt"
	"strings"

	"heatglass/internal/rubric"
)

// SystemInstruction is sent as the system message of every completion.
const SystemInstruction = "Você é um analista de qualidade de atendimentos telefônicos de uma central de " +
	"reparo e troca de vidros automotivos. Avalie com rigor, baseando-se apenas na transcrição. " +
	"Responda sempre e somente com um objeto JSON válido, sem texto adicional."

// schema documents every key the normalizer reads. Its checklist example
// carries the weight of the first rubric item.
const schema = `{
  "temperatura": {
    "classificacao": "Calma | Neutra | Tensa | Muito Tensa",
    "justificativa": ""
  },
  "impacto_comercial": {
    "percentual": 0,
    "faixa": "Crítico | Baixo | Razoável | Positivo | Excelente",
    "justificativa": ""
  },
  "status_final": {
    "satisfacao": "",
    "risco": "",
    "desfecho": ""
  },
  "checklist": [
    {
      "item": 1,
      "criterio": "",
      "pontos": %s,
      "resposta": "Sim | Parcial | Não | Não verificável",
      "justificativa": ""
    }
  ],
  "criterios_eliminatorios": [
    {
      "criterio": "",
      "ocorreu": false,
      "justificativa": ""
    }
  ],
  "uso_script": {
    "status": "Completo | Parcial | Não utilizado",
    "justificativa": ""
  },
  "pontuacao_total": 0,
  "resumo_geral": ""
}`

// BuildPrompt embeds the transcript into the rubric prompt. The output is
// deterministic for a given transcript and rubric.
func BuildPrompt(transcript string, r rubric.Rubric) string {
	var checklist strings.Builder
	for _, it := range r.Checklist {
		fmt.Fprintf(&checklist, "%d. %s (%s pontos)\n", it.Number, it.Criterion, formatPoints(it.Points))
	}
	var disq strings.Builder
	for i, c := range r.Disqualifying {
		fmt.Fprintf(&disq, "%d. %s\n", i+1, c)
	}

	prompt := `Analise a ligação abaixo entre um atendente e um cliente.

----------------------------------------------------------------------
1. TEMPERATURA EMOCIONAL
Classifique a ligação como Calma, Neutra, Tensa ou Muito Tensa e justifique
com base nas falas do cliente.

2. IMPACTO COMERCIAL
Estime de 0 a 100 a probabilidade de o atendimento gerar o serviço
(agendamento ou venda) e indique a faixa correspondente:
até 25 Crítico, até 50 Baixo, até 70 Razoável, até 85 Positivo, acima Excelente.

3. STATUS FINAL
Informe a satisfação do cliente, o risco de perda e o desfecho da ligação.

4. CHECKLIST (total de %s pontos)
Para cada item responda "Sim", "Parcial", "Não" ou "Não verificável".
"Sim" vale a pontuação cheia, "Parcial" vale metade e os demais valem zero.
Mantenha a numeração, o critério e os pontos de cada item: "pontos" é o peso
do item na rubrica, não a pontuação obtida.
%s
5. CRITÉRIOS ELIMINATÓRIOS
Indique para cada critério se ocorreu (true/false) e justifique.
%s
6. USO DO SCRIPT DE ENCERRAMENTO
Compare o encerramento da ligação com o script de referência e classifique
como Completo, Parcial ou Não utilizado.
Script de referência:
"""%s"""

7. RESUMO GERAL
Resuma o atendimento em até cinco frases. Markdown simples é permitido.

----------------------------------------------------------------------
FORMATO DA RESPOSTA
Responda APENAS com um objeto JSON exatamente neste formato, sem blocos de
código, sem comentários e sem texto antes ou depois:
%s

A pontuacao_total deve ser a soma dos pontos obtidos no checklist.

----------------------------------------------------------------------
TRANSCRIÇÃO:
"""%s"""
`
	return fmt.Sprintf(prompt,
		formatPoints(r.MaxScore),
		checklist.String(),
		disq.String(),
		r.ClosingScript,
		fmt.Sprintf(schema, formatPoints(r.Points(1))),
		transcript,
	)
}

func formatPoints(p float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", p), "0"), ".")
}
