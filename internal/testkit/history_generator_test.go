package testkit

import (
	"testing"
	"time"

	"newsdesk/domain/prediction"
)

func TestHistoryGenerator_Basic(t *testing.T) {
	end := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	config := HistoryGeneratorConfig{
		Count:          50,
		Days:           7,
		FakeRate:       0.4,
		SuspiciousRate: 0.2,
		End:            end,
		Seed:           42,
	}

	records := NewHistoryGenerator(config).Generate()
	if len(records) != config.Count {
		t.Fatalf("Expected %d records, got %d", config.Count, len(records))
	}

	var prev time.Time
	for i, r := range records {
		at, err := r.Timestamp.In(time.UTC)
		if err != nil {
			t.Fatalf("Record %d has unparseable timestamp %q: %v", i, r.Timestamp, err)
		}
		if at.After(end) || at.Before(end.AddDate(0, 0, -7)) {
			t.Errorf("Record %d at %s is outside the window", i, at)
		}
		if at.Before(prev) {
			t.Errorf("Record %d is older than record %d", i, i-1)
		}
		prev = at

		if r.Category() == prediction.CategoryUnknown {
			t.Errorf("Record %d has unknown result %q", i, r.Result)
		}
		if want := prediction.Analyze(r.Confidence).Result; want != r.Result {
			t.Errorf("Record %d: confidence %.3f should be %s, got %s", i, r.Confidence, want, r.Result)
		}
		if r.ID != i+1 {
			t.Errorf("Record %d has ID %d", i, r.ID)
		}
	}
}

func TestHistoryGenerator_Deterministic(t *testing.T) {
	config := DefaultHistoryConfig()
	config.End = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	a := NewHistoryGenerator(config).Generate()
	b := NewHistoryGenerator(config).Generate()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Record %d differs between runs with the same seed", i)
		}
	}
}
