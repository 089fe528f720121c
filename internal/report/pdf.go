// Package report exports an analysis as downloadable PDF and XLSX files.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"heatglass/internal/processor"
	"heatglass/internal/rubric"
	"heatglass/internal/types"
)

// MIME types of the generated files.
const (
	MIMEPDF  = "application/pdf"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
	fontFamily = "Helvetica"
)

// brand red, used for headings and table headers.
var brand = [3]int{0xC1, 0x00, 0x00}

// PDF renders res as an A4 report: scores first, then the checklist and the
// disqualifying criteria, then the transcript as an appendix.
func PDF(res processor.Result, r rubric.Rubric) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+5)
	pdf.SetTitle("HeatGlass - "+res.FileName, true)
	pdf.SetAuthor("HeatGlass", true)
	pdf.AliasNbPages("")

	// Core fonts are cp1252; Portuguese accents survive the translation.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("HeatGlass · análise %s · página %d/{nb}", shortID(res.ID), pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})

	heading := func(text string, size float64) {
		pdf.SetFont(fontFamily, "B", size)
		pdf.SetTextColor(brand[0], brand[1], brand[2])
		pdf.MultiCell(0, size*0.5, tr(text), "", "L", false)
		pdf.Ln(2)
		pdf.SetTextColor(0, 0, 0)
	}
	field := func(label, value string) {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.CellFormat(55, lineHeight, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, lineHeight, tr(value), "", "L", false)
	}
	paragraph := func(text string) {
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, lineHeight-1, tr(text), "", "L", false)
		pdf.Ln(2)
	}

	ev := res.Evaluation
	d := res.Derived

	// Page 1: overview.
	pdf.AddPage()
	heading("HeatGlass - Relatório de Atendimento", 18)
	field("Arquivo", res.FileName)
	field("Análise", res.ID)
	field("Data", res.CreatedAt.Format("02/01/2006 15:04 MST"))
	field("Rubrica", r.Version)
	if res.Failed() {
		pdf.Ln(2)
		pdf.SetTextColor(brand[0], brand[1], brand[2])
		paragraph("Falha na análise: " + res.Error)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	heading("Resultado", 14)
	field("Pontuação", fmt.Sprintf("%s / %s (%.0f%%) - %s", num(d.Total), num(d.MaxScore), d.ScorePercent, d.ScoreBucket))
	if d.Discrepancy {
		field("Total informado pelo modelo", num(d.ReportedTotal))
	}
	field("Temperatura emocional", string(ev.Temperature.Label))
	field("Impacto comercial", fmt.Sprintf("%.0f%% - %s", d.ImpactPercent, d.ImpactBucket))
	field("Satisfação", ev.FinalStatus.Satisfaction)
	field("Risco", ev.FinalStatus.Risk)
	field("Desfecho", ev.FinalStatus.Outcome)
	field("Script de encerramento", string(ev.ScriptUsage.Status))
	if d.Disqualified {
		field("Eliminatório", "SIM - critério eliminatório identificado")
	}
	pdf.Ln(4)

	heading("Resumo", 14)
	paragraph(plainMarkdown(ev.Summary))
	if ev.Temperature.Justification != "" {
		heading("Temperatura", 12)
		paragraph(ev.Temperature.Justification)
	}
	if ev.Impact.Justification != "" {
		heading("Impacto comercial", 12)
		paragraph(ev.Impact.Justification)
	}
	if res.Action.Insight != "" {
		heading("Ação recomendada", 12)
		field("Diagnóstico", res.Action.Insight)
		field("Ação", res.Action.Action)
		field("Impacto esperado", res.Action.Impact)
	}

	// Checklist and disqualifying criteria.
	pdf.AddPage()
	heading("Checklist", 14)
	widths := []float64{10, 95, 15, 25}
	header := func(cols ...string) {
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(brand[0], brand[1], brand[2])
		pdf.SetTextColor(255, 255, 255)
		for i, c := range cols {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
	header("#", "Critério", "Pontos", "Resposta")
	pdf.SetFont(fontFamily, "", 9)
	for _, it := range ev.Checklist {
		setResponseFill(pdf, it.Response)
		pdf.CellFormat(widths[0], 7, fmt.Sprint(it.Item), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(ellipsis(it.Criterion, 62)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, num(it.Points), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, tr(string(it.Response)), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(4)
	for _, it := range ev.Checklist {
		if it.Justification == "" {
			continue
		}
		pdf.SetFont(fontFamily, "B", 9)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("Item %d - %s", it.Item, it.Criterion)), "", "L", false)
		pdf.SetFont(fontFamily, "", 9)
		pdf.MultiCell(0, 5, tr(it.Justification), "", "L", false)
		pdf.Ln(1)
	}

	pdf.Ln(4)
	heading("Critérios eliminatórios", 14)
	for _, c := range ev.Disqualifying {
		status := "Não ocorreu"
		if c.Occurred {
			status = "OCORREU"
			pdf.SetTextColor(brand[0], brand[1], brand[2])
		}
		pdf.SetFont(fontFamily, "B", 9)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("[%s] %s", status, c.Criterion)), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		if c.Justification != "" {
			pdf.SetFont(fontFamily, "", 9)
			pdf.MultiCell(0, 5, tr(c.Justification), "", "L", false)
		}
		pdf.Ln(1)
	}
	if ev.ScriptUsage.Justification != "" {
		pdf.Ln(3)
		heading("Script de encerramento", 12)
		paragraph(string(ev.ScriptUsage.Status) + ": " + ev.ScriptUsage.Justification)
	}

	// Appendix.
	pdf.AddPage()
	heading("Anexo - Transcrição", 14)
	if res.Transcript == "" {
		paragraph("Transcrição indisponível.")
	} else {
		paragraph(res.Transcript)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf report: %w", err)
	}
	return buf.Bytes(), nil
}

func setResponseFill(pdf *fpdf.Fpdf, r types.Response) {
	switch r {
	case types.ResponseYes:
		pdf.SetFillColor(0xD4, 0xED, 0xDA)
	case types.ResponsePartial:
		pdf.SetFillColor(0xFF, 0xF3, 0xCD)
	case types.ResponseNo:
		pdf.SetFillColor(0xF8, 0xD7, 0xDA)
	default:
		pdf.SetFillColor(0xE2, 0xE3, 0xE5)
	}
}

// num formats a score without a trailing ".0".
func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func ellipsis(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// plainMarkdown strips the emphasis markers the summary may carry, since the
// PDF core fonts have no markdown rendering.
func plainMarkdown(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "", "# ", "").Replace(s)
}
