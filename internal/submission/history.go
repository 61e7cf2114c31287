package submission

import (
	"time"

	"newsdesk/domain/prediction"
	"newsdesk/internal/analysis"
)

// HistoryRow is one rendered row of a history table.
type HistoryRow struct {
	Time                 string
	Title                string
	TextPreview          string
	Result               string
	Category             prediction.Category
	Color                string
	ConfidencePercentage string
}

// HistoryTable is a history snapshot cut to the rows a page shows.
// Placeholder is set when there is nothing to show, in which case the page
// renders exactly one "no predictions yet" row.
type HistoryTable struct {
	Rows        []HistoryRow
	Placeholder bool
	Total       int
}

const titleDisplayLimit = 60

// BuildHistoryTable keeps the first limit records in backend order.
func BuildHistoryTable(records []prediction.Record, limit int, loc *time.Location) HistoryTable {
	head := analysis.Head(records, limit)
	table := HistoryTable{
		Rows:        make([]HistoryRow, 0, len(head)),
		Placeholder: len(head) == 0,
		Total:       len(records),
	}
	for _, r := range head {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		c := r.Category()
		table.Rows = append(table.Rows, HistoryRow{
			Time:                 r.Timestamp.Format(loc, "Jan 2, 15:04"),
			Title:                prediction.Truncate(title, titleDisplayLimit),
			TextPreview:          r.TextPreview,
			Result:               r.Result,
			Category:             c,
			Color:                c.Color(),
			ConfidencePercentage: prediction.FormatPercent(r.Confidence),
		})
	}
	return table
}
