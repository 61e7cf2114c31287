package prediction

import (
	"fmt"
	"unicode/utf8"
)

// Score thresholds the classifier uses to turn a fake-probability into a verdict.
const (
	FakeThreshold       = 0.7
	SuspiciousThreshold = 0.5
	HighRealThreshold   = 0.3
)

// Analyze turns a fake-probability into the verdict block the backend returns.
func Analyze(confidence float64) Verdict {
	v := Verdict{
		Confidence:           confidence,
		ConfidencePercentage: FormatPercent(confidence),
	}
	switch {
	case confidence >= FakeThreshold:
		v.Result = ResultFake
		v.ConfidenceLevel = "High"
		v.Message = "This article appears to be fake news with high confidence."
	case confidence >= SuspiciousThreshold:
		v.Result = ResultSuspicious
		v.ConfidenceLevel = "Medium"
		v.Message = "This article shows suspicious patterns. Please verify with other sources."
	default:
		v.Result = ResultReal
		v.ConfidenceLevel = "Medium"
		if confidence < HighRealThreshold {
			v.ConfidenceLevel = "High"
		}
		v.Message = "This article appears to be legitimate news."
	}
	c := ParseCategory(v.Result)
	v.Color = c.Color()
	v.Icon = c.Icon()
	return v
}

// WithDefaults fills presentation fields a backend left empty.
func (v Verdict) WithDefaults() Verdict {
	c := ParseCategory(v.Result)
	if v.Icon == "" {
		v.Icon = c.Icon()
	}
	if v.Color == "" {
		v.Color = c.Color()
	}
	if v.ConfidencePercentage == "" {
		v.ConfidencePercentage = FormatPercent(v.Confidence)
	}
	return v
}

// FormatPercent renders a [0,1] fraction the way the backend does: "92.0%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// Truncate shortens s to max runes and appends "..." when it was cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
