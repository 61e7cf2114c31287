// Package prediction holds the classifier's wire types and the verdict
// vocabulary shared by every page.
package prediction

import (
	"encoding/json"
	"strings"
)

// Category is the normalized verdict of a prediction
type Category string

const (
	CategoryFake       Category = "fake"
	CategoryReal       Category = "real"
	CategorySuspicious Category = "suspicious"
	CategoryUnknown    Category = "unknown"
)

// Wire values of PredictionRecord.result as the backend emits them
const (
	ResultFake       = "FAKE NEWS"
	ResultReal       = "REAL NEWS"
	ResultSuspicious = "SUSPICIOUS"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryFake, CategoryReal, CategorySuspicious}

// ParseCategory normalizes a backend result label. Both the long form
// ("FAKE NEWS") and the bare enum ("FAKE") are accepted.
func ParseCategory(result string) Category {
	r := strings.ToUpper(strings.TrimSpace(result))
	switch {
	case strings.Contains(r, "FAKE"):
		return CategoryFake
	case strings.Contains(r, "REAL"):
		return CategoryReal
	case strings.Contains(r, "SUSPICIOUS"):
		return CategorySuspicious
	default:
		return CategoryUnknown
	}
}

// Label is the human-readable name used in charts and tables.
func (c Category) Label() string {
	switch c {
	case CategoryFake:
		return "Fake News"
	case CategoryReal:
		return "Real News"
	case CategorySuspicious:
		return "Suspicious"
	default:
		return "Unknown"
	}
}

// Color is the hex color the backend pairs with the category.
func (c Category) Color() string {
	switch c {
	case CategoryFake:
		return "#dc3545"
	case CategoryReal:
		return "#28a745"
	case CategorySuspicious:
		return "#ffc107"
	default:
		return "#6c757d"
	}
}

// Icon is the glyph shown on result cards.
func (c Category) Icon() string {
	switch c {
	case CategoryFake:
		return "🚫"
	case CategoryReal:
		return "✅"
	case CategorySuspicious:
		return "⚠️"
	default:
		return "❔"
	}
}

// Record is one entry of the classifier's prediction history.
type Record struct {
	ID          int       `json:"id,omitempty"`
	Timestamp   Timestamp `json:"timestamp"`
	Title       string    `json:"title"`
	TextPreview string    `json:"text_preview"`
	Result      string    `json:"result"`
	Confidence  float64   `json:"confidence"`
}

// Category returns the normalized verdict of the record.
func (r Record) Category() Category {
	return ParseCategory(r.Result)
}

// Verdict is the prediction block of a successful /api/predict response.
type Verdict struct {
	Icon                 string  `json:"icon"`
	Result               string  `json:"result"`
	Color                string  `json:"color"`
	Confidence           float64 `json:"confidence"`
	ConfidencePercentage string  `json:"confidence_percentage"`
	ConfidenceLevel      string  `json:"confidence_level"`
	Message              string  `json:"message"`
}

// Preview echoes the submitted input, truncated by the backend.
type Preview struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Blank reports whether both fields are empty after trimming whitespace.
func (r PredictRequest) Blank() bool {
	return strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Text) == ""
}

// PredictResponse is the body of POST /api/predict.
type PredictResponse struct {
	Success    bool     `json:"success"`
	Prediction *Verdict `json:"prediction,omitempty"`
	Preview    *Preview `json:"preview,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// HistoryResponse is the body of GET /api/history.
type HistoryResponse struct {
	History []Record `json:"history"`
	Count   int      `json:"count"`
}

// Health is the body of GET /api/health.
type Health struct {
	Status           string `json:"status"`
	ModelLoaded      bool   `json:"model_loaded"`
	TokenizerLoaded  bool   `json:"tokenizer_loaded"`
	TotalPredictions int    `json:"total_predictions"`
	Timestamp        string `json:"timestamp,omitempty"`
}

// Healthy reports whether the backend declared itself healthy.
func (h Health) Healthy() bool {
	return h.Status == "healthy"
}

// ModelLayer is one row of the model architecture summary.
type ModelLayer struct {
	Name   string `json:"name"`
	Params string `json:"params"`
}

// ModelInfo is the opaque GET /api/model-info payload. Raw keeps the
// document as received; the named fields are the parts newsdesk displays.
type ModelInfo struct {
	Raw               json.RawMessage `json:"raw"`
	Status            string          `json:"status"`
	Type              string          `json:"type"`
	MaxWords          int64           `json:"max_words"`
	MaxSequenceLength int64           `json:"max_sequence_length"`
	Accuracy          string          `json:"accuracy"`
	Layers            []ModelLayer    `json:"layers"`
}

// Active reports whether the backend has a model loaded.
func (m ModelInfo) Active() bool {
	return m.Status == "active"
}
