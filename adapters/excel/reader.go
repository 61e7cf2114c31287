package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"newsdesk/domain/prediction"
	"newsdesk/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader reads prediction history from XLSX or CSV files, such as a
// previous export used to seed the stub backend.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension.
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger.With("DataReader")}
}

// ReadData reads the raw rows of the file.
func (r *DataReader) ReadData() (*SheetData, error) {
	r.logger.Debug("Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the History sheet, or the first sheet when there is none.
func (r *DataReader) readExcelData() (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := HistorySheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("Sheet %s read in %s (%d rows)", sheet, time.Since(startTime), len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("Excel file must have a header row")
	}
	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV file must have a header row")
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into SheetData, lower-casing headers.
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData)
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Info("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))
	return &SheetData{Headers: headers, Rows: dataRows}, nil
}

// ReadRecords reads the file as prediction history, in file order. Rows
// without a result are skipped; a confidence that does not parse is an error.
func (r *DataReader) ReadRecords() ([]prediction.Record, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	if !hasColumn(data.Headers, ColResult) || !hasColumn(data.Headers, ColConfidence) {
		return nil, fmt.Errorf("%s needs %q and %q columns", r.filePath, ColResult, ColConfidence)
	}

	records := make([]prediction.Record, 0, len(data.Rows))
	for i, row := range data.Rows {
		if row[ColResult] == "" {
			continue
		}
		confidence, err := strconv.ParseFloat(row[ColConfidence], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid confidence %q: %w", i+2, row[ColConfidence], err)
		}
		records = append(records, prediction.Record{
			ID:          len(records) + 1,
			Timestamp:   prediction.ParseTimestamp(row[ColTimestamp]),
			Title:       row[ColTitle],
			TextPreview: row[ColTextPreview],
			Result:      row[ColResult],
			Confidence:  confidence,
		})
	}
	return records, nil
}

func hasColumn(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
