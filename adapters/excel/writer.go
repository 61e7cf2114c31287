package excel

import (
	"fmt"
	"io"

	"newsdesk/domain/prediction"
	"newsdesk/internal/analysis"

	"github.com/xuri/excelize/v2"
)

// WriteHistory writes records and their KPIs as an XLSX workbook with a
// History sheet (one row per record, backend order) and a Summary sheet.
func WriteHistory(w io.Writer, records []prediction.Record, stats analysis.Statistics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeHistorySheet(f, records, header); err != nil {
		return err
	}
	if err := writeSummarySheet(f, stats, header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHistorySheet(f *excelize.File, records []prediction.Record, header int) error {
	cols := make([]interface{}, len(HistoryColumns))
	for i, c := range HistoryColumns {
		cols[i] = c
	}
	if err := f.SetSheetRow(HistorySheet, "A1", &cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(HistoryColumns), 1)
	if err := f.SetCellStyle(HistorySheet, "A1", last, header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Timestamp.String(),
			r.Title,
			r.TextPreview,
			r.Result,
			r.Confidence,
			prediction.FormatPercent(r.Confidence),
		}
		if err := f.SetSheetRow(HistorySheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	widths := map[string]float64{"A": 28, "B": 48, "C": 64, "D": 14, "E": 12, "F": 12}
	for col, width := range widths {
		if err := f.SetColWidth(HistorySheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, stats analysis.Statistics, header int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	rows := [][]interface{}{
		{"metric", "value"},
		{"total", stats.Total},
		{"fake", stats.Fake},
		{"real", stats.Real},
		{"suspicious", stats.Suspicious},
		{"mean_confidence", stats.MeanConfidence},
		{"median_confidence", stats.MedianConfidence},
		{"confidence_std_dev", stats.ConfidenceStdDev},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "A", 22)
}
