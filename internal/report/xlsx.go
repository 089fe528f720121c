package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"heatglass/internal/processor"
)

// Sheet names of the XLSX export.
const (
	SheetSummary       = "Resumo"
	SheetChecklist     = "Checklist"
	SheetDisqualifying = "Eliminatorios"
)

// XLSX exports res as a workbook with one summary sheet and one sheet each
// for the checklist and the disqualifying criteria.
func XLSX(res processor.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, s := range []string{SheetChecklist, SheetDisqualifying} {
		if _, err := f.NewSheet(s); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", s, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C10000"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	ev := res.Evaluation
	d := res.Derived

	summary := [][]any{
		{"Campo", "Valor"},
		{"Análise", res.ID},
		{"Arquivo", res.FileName},
		{"Data", res.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Pontuação", d.Total},
		{"Pontuação máxima", d.MaxScore},
		{"Pontuação (%)", round1(d.ScorePercent)},
		{"Faixa da pontuação", d.ScoreBucket},
		{"Total informado pelo modelo", d.ReportedTotal},
		{"Divergência no total", yesNo(d.Discrepancy)},
		{"Temperatura emocional", string(ev.Temperature.Label)},
		{"Impacto comercial (%)", d.ImpactPercent},
		{"Faixa do impacto", d.ImpactBucket},
		{"Satisfação", ev.FinalStatus.Satisfaction},
		{"Risco", ev.FinalStatus.Risk},
		{"Desfecho", ev.FinalStatus.Outcome},
		{"Script de encerramento", string(ev.ScriptUsage.Status)},
		{"Eliminatório", yesNo(d.Disqualified)},
		{"Resumo", ev.Summary},
		{"Estratégia de leitura", string(res.Strategy)},
		{"Erro", res.Error},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	checklist := [][]any{{"Item", "Critério", "Pontos", "Resposta", "Justificativa"}}
	for _, it := range ev.Checklist {
		checklist = append(checklist, []any{it.Item, it.Criterion, it.Points, string(it.Response), it.Justification})
	}
	if err := writeRows(f, SheetChecklist, checklist); err != nil {
		return nil, err
	}

	disq := [][]any{{"Critério", "Ocorreu", "Justificativa"}}
	for _, c := range ev.Disqualifying {
		disq = append(disq, []any{c.Criterion, yesNo(c.Occurred), c.Justification})
	}
	if err := writeRows(f, SheetDisqualifying, disq); err != nil {
		return nil, err
	}

	widths := map[string][]struct {
		col   string
		width float64
	}{
		SheetSummary:       {{"A", 28}, {"B", 80}},
		SheetChecklist:     {{"A", 6}, {"B", 70}, {"C", 8}, {"D", 16}, {"E", 80}},
		SheetDisqualifying: {{"A", 70}, {"B", 10}, {"C", 80}},
	}
	for sheet, cols := range widths {
		last := cols[len(cols)-1].col
		if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
			return nil, fmt.Errorf("style %s: %w", sheet, err)
		}
		for _, c := range cols {
			if err := f.SetColWidth(sheet, c.col, c.col, c.width); err != nil {
				return nil, fmt.Errorf("width %s: %w", sheet, err)
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
