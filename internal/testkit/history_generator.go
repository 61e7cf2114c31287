// Package testkit generates synthetic prediction history for demos and
// tests: a stub backend can be pre-filled with it so the dashboard has
// something to draw.
package testkit

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"newsdesk/domain/prediction"
)

// HistoryGeneratorConfig configures the history generator
type HistoryGeneratorConfig struct {
	Count          int       `json:"count"`
	Days           int       `json:"days"` // records are spread over this many days before End
	FakeRate       float64   `json:"fake_rate"`
	SuspiciousRate float64   `json:"suspicious_rate"`
	End            time.Time `json:"end"`
	Seed           int64     `json:"seed"`
}

// DefaultHistoryConfig returns a small, mixed history ending now.
func DefaultHistoryConfig() HistoryGeneratorConfig {
	return HistoryGeneratorConfig{
		Count:          40,
		Days:           10,
		FakeRate:       0.35,
		SuspiciousRate: 0.2,
		End:            time.Now(),
		Seed:           42,
	}
}

var (
	fakeHeadlines = []string{
		"BREAKING: Aliens Found on Mars!",
		"Miracle fruit cures every disease overnight",
		"Secret memo proves the moon landing was staged",
		"Celebrity clone spotted at airport",
		"Scientists confirm chocolate makes you immortal",
	}
	realHeadlines = []string{
		"City council approves annual budget",
		"Central bank holds interest rates steady",
		"Regional rail line reopens after maintenance",
		"University publishes climate survey results",
		"Local library extends weekend hours",
	}
	suspiciousHeadlines = []string{
		"Insiders claim major merger announced next week",
		"Unnamed sources report shake-up at ministry",
		"Viral post says tap water rules are changing",
	}
)

// HistoryGenerator produces deterministic synthetic records for a seed.
type HistoryGenerator struct {
	config HistoryGeneratorConfig
	rng    *rand.Rand
}

// NewHistoryGenerator creates a new history generator
func NewHistoryGenerator(config HistoryGeneratorConfig) *HistoryGenerator {
	if config.Days <= 0 {
		config.Days = 1
	}
	return &HistoryGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns Count records, oldest first, the order the backend
// appends them in. Confidences agree with the verdict thresholds.
func (g *HistoryGenerator) Generate() []prediction.Record {
	records := make([]prediction.Record, 0, g.config.Count)
	span := time.Duration(g.config.Days) * 24 * time.Hour
	start := g.config.End.Add(-span)

	offsets := make([]time.Duration, g.config.Count)
	for i := range offsets {
		offsets[i] = time.Duration(g.rng.Int63n(int64(span)))
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	for i, off := range offsets {
		confidence, headlines := g.pickVerdict()
		title := headlines[g.rng.Intn(len(headlines))]
		records = append(records, prediction.Record{
			ID:          i + 1,
			Timestamp:   prediction.NewTimestamp(start.Add(off)),
			Title:       title,
			TextPreview: fmt.Sprintf("Synthetic article #%d about %q.", i+1, title),
			Result:      prediction.Analyze(confidence).Result,
			Confidence:  confidence,
		})
	}
	return records
}

// pickVerdict draws a confidence inside the band of a randomly chosen verdict.
func (g *HistoryGenerator) pickVerdict() (float64, []string) {
	roll := g.rng.Float64()
	switch {
	case roll < g.config.FakeRate:
		return between(g.rng, prediction.FakeThreshold, 0.99), fakeHeadlines
	case roll < g.config.FakeRate+g.config.SuspiciousRate:
		return between(g.rng, prediction.SuspiciousThreshold, prediction.FakeThreshold-0.01), suspiciousHeadlines
	default:
		return between(g.rng, 0.01, prediction.SuspiciousThreshold-0.01), realHeadlines
	}
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
