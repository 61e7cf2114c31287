package excel

// RawRowData represents a row of raw sheet data as header -> cell value
type RawRowData map[string]string

// SheetData represents one sheet read from an XLSX or CSV file
type SheetData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// History sheet columns, in export order. The reader matches them
// case-insensitively and ignores any others.
const (
	ColTimestamp            = "timestamp"
	ColTitle                = "title"
	ColTextPreview          = "text_preview"
	ColResult               = "result"
	ColConfidence           = "confidence"
	ColConfidencePercentage = "confidence_percentage"
)

// HistoryColumns is the header row of the History sheet.
var HistoryColumns = []string{ColTimestamp, ColTitle, ColTextPreview, ColResult, ColConfidence, ColConfidencePercentage}

const (
	HistorySheet = "History"
	SummarySheet = "Summary"
)
