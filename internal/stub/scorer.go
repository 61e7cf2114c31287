package stub

import (
	"math"
	"strings"
	"unicode"
)

var sensationalTerms = []string{
	"breaking", "shocking", "miracle", "secret", "exposed", "aliens",
	"conspiracy", "hoax", "you wont believe", "cure", "banned", "leaked",
}

// KeywordScorer is a crude stand-in for the trained model: it counts
// sensational terms and exclamation marks in the cleaned text.
func KeywordScorer(title, text string) float64 {
	raw := title + " " + text
	cleaned := CleanText(raw)

	score := 0.15
	for _, term := range sensationalTerms {
		if strings.Contains(cleaned, term) {
			score += 0.2
		}
	}
	score += 0.1 * float64(min(strings.Count(raw, "!"), 3))
	return math.Min(score, 0.98)
}

// CleanText lower-cases s and strips punctuation and digits, collapsing runs
// of whitespace to single spaces.
func CleanText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsDigit(r):
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
