// Package render maps analysis results to display blocks and HTML pages.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/russross/blackfriday/v2"

	"heatglass/internal/actionable"
	"heatglass/internal/normalizer"
	"heatglass/internal/processor"
	"heatglass/internal/scoring"
	"heatglass/internal/types"
)

// Block kinds, one template section each.
const (
	KindError         = "error"
	KindScore         = "score"
	KindTemperature   = "temperature"
	KindImpact        = "impact"
	KindStatus        = "status"
	KindAction        = "action"
	KindSummary       = "summary"
	KindChecklist     = "checklist"
	KindDisqualifying = "disqualifying"
	KindScript        = "script"
	KindTranscript    = "transcript"
	KindDebug         = "debug"
)

// Colour classes, styled in layout.html.
const (
	ClassGreen  = "green"
	ClassYellow = "yellow"
	ClassRed    = "red"
	ClassGray   = "gray"
	ClassBlue   = "blue"
)

// Block is one section of the result page.
type Block struct {
	Kind  string
	Title string
	Class string
	Emoji string
	Text  string
	// Detail is secondary text shown under Text.
	Detail string
	HTML   template.HTML
	// Percent drives the progress bar; Bar is false when no bar is shown.
	Percent float64
	Bar     bool
	Rows    []Row
}

// Row is one line of a checklist or disqualifying table.
type Row struct {
	Label  string
	Value  string
	Points string
	Class  string
	Detail string
}

// ResponseClass maps a checklist verdict to its colour.
func ResponseClass(r types.Response) string {
	switch r {
	case types.ResponseYes:
		return ClassGreen
	case types.ResponsePartial:
		return ClassYellow
	case types.ResponseNo:
		return ClassRed
	}
	return ClassGray
}

var temperatureEmoji = map[types.Temperature]string{
	types.TemperatureCalm:      "😌",
	types.TemperatureNeutral:   "🙂",
	types.TemperatureTense:     "😟",
	types.TemperatureVeryTense: "😡",
}

// TemperatureEmoji returns the face shown next to the temperature label.
func TemperatureEmoji(t types.Temperature) string {
	if e, ok := temperatureEmoji[t]; ok {
		return e
	}
	return "❔"
}

// BucketClass maps a percentage bucket to its colour.
func BucketClass(bucket string) string {
	switch bucket {
	case scoring.BucketCritical:
		return ClassRed
	case scoring.BucketLow, scoring.BucketFair:
		return ClassYellow
	case scoring.BucketPositive:
		return ClassGreen
	case scoring.BucketExcellent:
		return ClassBlue
	}
	return ClassGray
}

// Markdown renders the model's summary. Raw HTML in the input is dropped.
func Markdown(s string) template.HTML {
	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML | blackfriday.Safelink | blackfriday.NofollowLinks | blackfriday.NoreferrerLinks,
	})
	out := blackfriday.Run([]byte(s), blackfriday.WithRenderer(r))
	return template.HTML(out)
}

// Blocks lays out res for the result page, top to bottom.
func Blocks(res processor.Result) []Block {
	ev := res.Evaluation
	d := res.Derived
	var out []Block

	if res.Failed() {
		out = append(out, Block{
			Kind:  KindError,
			Title: "Falha na análise",
			Class: ClassRed,
			Text:  res.Error,
		})
	}

	score := Block{
		Kind:    KindScore,
		Title:   "Pontuação do checklist",
		Class:   BucketClass(d.ScoreBucket),
		Text:    fmt.Sprintf("%s / %s pontos · %s", num(d.Total), num(d.MaxScore), d.ScoreBucket),
		Percent: d.ScorePercent,
		Bar:     true,
	}
	if d.Discrepancy {
		score.Detail = fmt.Sprintf("O modelo informou %s pontos; prevalece a soma do checklist.", num(d.ReportedTotal))
	}
	if d.Disqualified {
		score.Class = ClassRed
		score.Detail = strings.TrimSpace(score.Detail + " Critério eliminatório identificado.")
	}
	out = append(out, score)

	out = append(out,
		Block{
			Kind:   KindTemperature,
			Title:  "Temperatura emocional",
			Emoji:  TemperatureEmoji(ev.Temperature.Label),
			Text:   labelText(ev.Temperature.Label),
			Detail: ev.Temperature.Justification,
		},
		Block{
			Kind:    KindImpact,
			Title:   "Impacto comercial",
			Class:   BucketClass(d.ImpactBucket),
			Text:    fmt.Sprintf("%.0f%% · %s", d.ImpactPercent, d.ImpactBucket),
			Detail:  ev.Impact.Justification,
			Percent: d.ImpactPercent,
			Bar:     true,
		},
		Block{
			Kind:  KindStatus,
			Title: "Status final",
			Rows: []Row{
				{Label: "Satisfação", Value: ev.FinalStatus.Satisfaction},
				{Label: "Risco", Value: ev.FinalStatus.Risk},
				{Label: "Desfecho", Value: ev.FinalStatus.Outcome},
			},
		},
	)

	if res.Action.Insight != "" {
		out = append(out, Block{
			Kind:  KindAction,
			Title: "Ação recomendada",
			Class: actionClass(res.Action.Level),
			Text:  res.Action.Insight,
			Rows: []Row{
				{Label: "Ação", Value: res.Action.Action},
				{Label: "Impacto esperado", Value: res.Action.Impact},
			},
		})
	}

	out = append(out, Block{
		Kind:  KindSummary,
		Title: "Resumo",
		HTML:  Markdown(ev.Summary),
	})

	checklist := Block{Kind: KindChecklist, Title: "Checklist"}
	for _, it := range ev.Checklist {
		checklist.Rows = append(checklist.Rows, Row{
			Label:  fmt.Sprintf("%d. %s", it.Item, it.Criterion),
			Value:  labelText(it.Response),
			Points: fmt.Sprintf("%s/%s", num(scoring.Credit(it)), num(it.Points)),
			Class:  ResponseClass(it.Response),
			Detail: it.Justification,
		})
	}
	out = append(out, checklist)

	disq := Block{Kind: KindDisqualifying, Title: "Critérios eliminatórios"}
	for _, c := range ev.Disqualifying {
		row := Row{Label: c.Criterion, Value: "Não ocorreu", Class: ClassGreen, Detail: c.Justification}
		if c.Occurred {
			row.Value = "Ocorreu"
			row.Class = ClassRed
		}
		disq.Rows = append(disq.Rows, row)
	}
	out = append(out, disq)

	out = append(out, Block{
		Kind:   KindScript,
		Title:  "Script de encerramento",
		Class:  scriptClass(ev.ScriptUsage.Status),
		Text:   labelText(ev.ScriptUsage.Status),
		Detail: ev.ScriptUsage.Justification,
	})

	if res.Transcript != "" {
		out = append(out, Block{
			Kind:  KindTranscript,
			Title: "Transcrição",
			Text:  res.Transcript,
		})
	}

	if !res.Recovered && res.Raw != "" {
		out = append(out, Block{
			Kind:   KindDebug,
			Title:  "Resposta bruta do modelo",
			Class:  ClassGray,
			Text:   res.Raw,
			Detail: "Não foi possível interpretar a resposta; os campos acima são valores padrão.",
		})
	}
	return out
}

type label interface {
	~string
	Valid() bool
}

// labelText shows a non-canonical label as "Não informado".
func labelText[L label](l L) string {
	if !l.Valid() {
		return normalizer.NotInformed
	}
	return string(l)
}

func scriptClass(s types.ScriptStatus) string {
	switch s {
	case types.ScriptComplete:
		return ClassGreen
	case types.ScriptPartial:
		return ClassYellow
	case types.ScriptNotUsed:
		return ClassRed
	}
	return ClassGray
}

func actionClass(level string) string {
	switch level {
	case actionable.LevelUrgent:
		return ClassRed
	case actionable.LevelAttention:
		return ClassYellow
	}
	return ClassGreen
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}
