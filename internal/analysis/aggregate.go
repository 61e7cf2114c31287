// Package analysis derives the dashboard's aggregate views from a history
// snapshot. Every function here is pure: same records, clock and zone in,
// same view out.
package analysis

import (
	"time"

	"newsdesk/domain/prediction"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// TrailingDays is the width of the time-series window, today included.
const TrailingDays = 7

// DayLabelLayout renders a local date the way the dashboard labels its axis.
const DayLabelLayout = "1/2/2006"

// ConfidenceBuckets are the histogram labels, 20 points wide.
var ConfidenceBuckets = []string{"0-20%", "21-40%", "41-60%", "61-80%", "81-100%"}

// Statistics are the scalar KPIs of the dashboard.
type Statistics struct {
	Total            int     `json:"total"`
	Fake             int     `json:"fake"`
	Real             int     `json:"real"`
	Suspicious       int     `json:"suspicious"`
	MeanConfidence   float64 `json:"mean_confidence"`
	MedianConfidence float64 `json:"median_confidence"`
	ConfidenceStdDev float64 `json:"confidence_std_dev"`
}

// TimeSeries holds per-category daily counts over the trailing window.
type TimeSeries struct {
	Labels     []string `json:"labels"`
	Fake       []int    `json:"fake"`
	Real       []int    `json:"real"`
	Suspicious []int    `json:"suspicious"`
	// Dropped counts records that matched no day label.
	Dropped int `json:"dropped"`
}

// Distribution holds category counts in display order.
type Distribution struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
	Colors []string `json:"colors"`
}

// Histogram holds confidence counts per bucket.
type Histogram struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// Summarize computes the KPIs over all records.
func Summarize(records []prediction.Record) Statistics {
	s := Statistics{Total: len(records)}
	confidences := make([]float64, 0, len(records))
	for _, r := range records {
		switch r.Category() {
		case prediction.CategoryFake:
			s.Fake++
		case prediction.CategoryReal:
			s.Real++
		case prediction.CategorySuspicious:
			s.Suspicious++
		}
		confidences = append(confidences, r.Confidence)
	}
	if len(confidences) == 0 {
		return s
	}

	s.MeanConfidence, _ = stats.Mean(confidences)
	s.MedianConfidence, _ = stats.Median(confidences)
	if len(confidences) > 1 {
		s.ConfidenceStdDev = stat.StdDev(confidences, nil)
	}
	return s
}

// DayLabel is the join key between a timestamp and a day bucket.
func DayLabel(t time.Time) string {
	return t.Format(DayLabelLayout)
}

// BuildTimeSeries buckets records into the TrailingDays local calendar days
// ending with now's date. Records whose local date is outside the window, or
// whose timestamp can't be read, are dropped.
func BuildTimeSeries(records []prediction.Record, now time.Time, loc *time.Location) TimeSeries {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	ts := TimeSeries{
		Labels:     make([]string, TrailingDays),
		Fake:       make([]int, TrailingDays),
		Real:       make([]int, TrailingDays),
		Suspicious: make([]int, TrailingDays),
	}
	index := make(map[string]int, TrailingDays)
	for i := 0; i < TrailingDays; i++ {
		day := now.AddDate(0, 0, i-(TrailingDays-1))
		label := DayLabel(day)
		ts.Labels[i] = label
		index[label] = i
	}

	for _, r := range records {
		at, err := r.Timestamp.In(loc)
		if err != nil {
			ts.Dropped++
			continue
		}
		i, ok := index[DayLabel(at)]
		if !ok {
			ts.Dropped++
			continue
		}
		switch r.Category() {
		case prediction.CategoryFake:
			ts.Fake[i]++
		case prediction.CategoryReal:
			ts.Real[i]++
		case prediction.CategorySuspicious:
			ts.Suspicious[i]++
		}
	}
	return ts
}

// BuildDistribution counts records per known category.
func BuildDistribution(records []prediction.Record) Distribution {
	d := Distribution{
		Labels: make([]string, len(prediction.Categories)),
		Counts: make([]int, len(prediction.Categories)),
		Colors: make([]string, len(prediction.Categories)),
	}
	pos := make(map[prediction.Category]int, len(prediction.Categories))
	for i, c := range prediction.Categories {
		d.Labels[i] = c.Label()
		d.Colors[i] = c.Color()
		pos[c] = i
	}
	for _, r := range records {
		if i, ok := pos[r.Category()]; ok {
			d.Counts[i]++
		}
	}
	return d
}

// BucketIndex maps a confidence percentage to its histogram bucket. Each
// cutoff is inclusive on the lower bucket: 20 is "0-20%", 20.01 is "21-40%".
func BucketIndex(percent float64) int {
	switch {
	case percent <= 20:
		return 0
	case percent <= 40:
		return 1
	case percent <= 60:
		return 2
	case percent <= 80:
		return 3
	default:
		return 4
	}
}

// BucketLabel returns the histogram label for a confidence percentage.
func BucketLabel(percent float64) string {
	return ConfidenceBuckets[BucketIndex(percent)]
}

// BuildConfidenceHistogram counts records per confidence bucket.
func BuildConfidenceHistogram(records []prediction.Record) Histogram {
	h := Histogram{
		Labels: append([]string(nil), ConfidenceBuckets...),
		Counts: make([]int, len(ConfidenceBuckets)),
	}
	for _, r := range records {
		h.Counts[BucketIndex(r.Confidence*100)]++
	}
	return h
}

// Head returns the first n records without reordering.
func Head(records []prediction.Record, n int) []prediction.Record {
	if n < 0 {
		n = 0
	}
	if len(records) <= n {
		return records
	}
	return records[:n]
}
