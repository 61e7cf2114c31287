// Package charts renders the dashboard's aggregate views as SVG.
package charts

import (
	"fmt"
	"io"
	"strings"

	"newsdesk/domain/prediction"
	"newsdesk/internal/analysis"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart names accepted by Render
const (
	Timeline     = "timeline"
	Distribution = "distribution"
	Confidence   = "confidence"
)

// Names lists the renderable charts in page order.
var Names = []string{Timeline, Distribution, Confidence}

// ErrUnknownChart is returned by Render for a name not in Names.
var ErrUnknownChart = fmt.Errorf("unknown chart")

// Renderer draws charts at a fixed size.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer with the dashboard's card size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 640, Height: 320}
}

// Render writes the named chart of view to w as SVG.
func (r *Renderer) Render(name string, view analysis.View, w io.Writer) error {
	switch name {
	case Timeline:
		return r.Timeline(view.TimeSeries, w)
	case Distribution:
		return r.Distribution(view.Distribution, w)
	case Confidence:
		return r.Confidence(view.Confidence, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}

// Timeline draws one line per category over the trailing days.
func (r *Renderer) Timeline(ts analysis.TimeSeries, w io.Writer) error {
	xs := make([]float64, len(ts.Labels))
	ticks := make([]chart.Tick, len(ts.Labels))
	for i, label := range ts.Labels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	peak := 1
	lines := []struct {
		category prediction.Category
		counts   []int
	}{
		{prediction.CategoryFake, ts.Fake},
		{prediction.CategoryReal, ts.Real},
		{prediction.CategorySuspicious, ts.Suspicious},
	}
	series := make([]chart.Series, 0, len(lines))
	for _, l := range lines {
		ys := make([]float64, len(l.counts))
		for i, n := range l.counts {
			ys[i] = float64(n)
			peak = max(peak, n)
		}
		col := color(l.category.Color())
		series = append(series, chart.ContinuousSeries{
			Name:    l.category.Label(),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    3,
			},
		})
	}

	ch := chart.Chart{
		Title:      "Predictions over the last 7 days",
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(peak)},
			ValueFormatter: wholeNumber,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.SVG, w)
}

// Distribution draws the category split as a pie. Empty categories are
// left out; with no records at all a single grey "No data" slice is drawn.
func (r *Renderer) Distribution(d analysis.Distribution, w io.Writer) error {
	values := make([]chart.Value, 0, len(d.Labels))
	for i, label := range d.Labels {
		if d.Counts[i] == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", label, d.Counts[i]),
			Value: float64(d.Counts[i]),
			Style: chart.Style{FillColor: color(d.Colors[i])},
		})
	}
	if len(values) == 0 {
		values = append(values, chart.Value{
			Label: "No data",
			Value: 1,
			Style: chart.Style{FillColor: color(prediction.CategoryUnknown.Color())},
		})
	}

	pie := chart.PieChart{
		Title:  "Category distribution",
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	return pie.Render(chart.SVG, w)
}

// Confidence draws the confidence histogram.
func (r *Renderer) Confidence(h analysis.Histogram, w io.Writer) error {
	peak := 1
	bars := make([]chart.Value, len(h.Labels))
	for i, label := range h.Labels {
		peak = max(peak, h.Counts[i])
		bars[i] = chart.Value{
			Label: label,
			Value: float64(h.Counts[i]),
			Style: chart.Style{FillColor: color("#17a2b8"), StrokeColor: color("#117a8b")},
		}
	}

	bc := chart.BarChart{
		Title:      "Confidence distribution",
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(peak)},
			ValueFormatter: wholeNumber,
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func wholeNumber(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}
