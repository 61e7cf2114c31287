package analysis

import (
	"time"

	"newsdesk/domain/prediction"
)

// View is one complete dashboard rendering. It is built from scratch on every
// refresh and never mutated afterwards.
type View struct {
	Sequence     uint64              `json:"sequence"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Stats        Statistics          `json:"stats"`
	TimeSeries   TimeSeries          `json:"time_series"`
	Distribution Distribution        `json:"distribution"`
	Confidence   Histogram           `json:"confidence"`
	Recent       []prediction.Record `json:"recent"`
}

// BuildView derives every aggregate from records. recentLimit caps the
// history table; the aggregates always use the full collection.
func BuildView(records []prediction.Record, now time.Time, loc *time.Location, recentLimit int) View {
	recent := Head(records, recentLimit)
	return View{
		GeneratedAt:  now,
		Stats:        Summarize(records),
		TimeSeries:   BuildTimeSeries(records, now, loc),
		Distribution: BuildDistribution(records),
		Confidence:   BuildConfidenceHistogram(records),
		Recent:       append([]prediction.Record(nil), recent...),
	}
}
