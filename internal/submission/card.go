package submission

import (
	"math"

	"newsdesk/domain/prediction"
)

// ResultCard is the rendered form of a successful prediction.
type ResultCard struct {
	Icon                 string
	Label                string
	Color                string
	Category             prediction.Category
	Confidence           float64
	ConfidencePercentage string
	// ConfidenceWidth is the bar width in percent, clamped to [0,100].
	ConfidenceWidth float64
	ConfidenceLevel string
	Message         string
	PreviewTitle    string
	PreviewText     string
}

// NewResultCard builds a card from a successful response. It returns nil
// when the response carries no prediction.
func NewResultCard(resp *prediction.PredictResponse) *ResultCard {
	if resp == nil || resp.Prediction == nil {
		return nil
	}
	v := resp.Prediction.WithDefaults()
	card := &ResultCard{
		Icon:                 v.Icon,
		Label:                v.Result,
		Color:                v.Color,
		Category:             prediction.ParseCategory(v.Result),
		Confidence:           v.Confidence,
		ConfidencePercentage: v.ConfidencePercentage,
		ConfidenceWidth:      math.Max(0, math.Min(100, v.Confidence*100)),
		ConfidenceLevel:      v.ConfidenceLevel,
		Message:              v.Message,
	}
	if resp.Preview != nil {
		card.PreviewTitle = resp.Preview.Title
		card.PreviewText = resp.Preview.Text
	}
	return card
}
