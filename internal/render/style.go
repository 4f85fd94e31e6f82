package render

import (
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette is the default colour cycle; entries 0 and 1 also mark the primary and secondary axes
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

var gridStyle = chart.Style{
	StrokeColor: drawing.ColorFromHex("d9d9d9"),
	StrokeWidth: 1,
}

func color(i int) drawing.Color {
	return palette[i%len(palette)]
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 1.5,
	}
}

// pointStyle renders dots only; the connecting stroke is transparent
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		StrokeWidth: 1,
		DotColor:    col,
		DotWidth:    2,
	}
}

// hhmm formats axis values (nanoseconds since the Unix epoch) as UTC hours and minutes
func hhmm(v interface{}) string {
	switch typed := v.(type) {
	case float64:
		return time.Unix(0, int64(typed)).UTC().Format("15:04")
	case time.Time:
		return typed.UTC().Format("15:04")
	}
	return ""
}

var tickSteps = []time.Duration{
	time.Minute, 2 * time.Minute, 5 * time.Minute, 10 * time.Minute, 15 * time.Minute, 30 * time.Minute,
	time.Hour, 2 * time.Hour, 3 * time.Hour, 6 * time.Hour, 12 * time.Hour, 24 * time.Hour,
}

const maxTimeTicks = 8

// timeTicks places ticks on round clock times inside w
func timeTicks(w Window) []chart.Tick {
	span := w.End.Sub(w.Start)
	step := tickSteps[len(tickSteps)-1]
	for _, s := range tickSteps {
		if span/s <= maxTimeTicks {
			step = s
			break
		}
	}

	var ticks []chart.Tick
	for t := w.Start.UTC().Truncate(step); !t.After(w.End); t = t.Add(step) {
		if t.Before(w.Start) {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: float64(chart.TimeToFloat64(t)), Label: hhmm(t)})
	}
	return ticks
}

func timeAxis(w Window) chart.XAxis {
	return chart.XAxis{
		Name:           TimeAxisLabel,
		ValueFormatter: hhmm,
		Range: &chart.ContinuousRange{
			Min: float64(chart.TimeToFloat64(w.Start)),
			Max: float64(chart.TimeToFloat64(w.End)),
		},
		Ticks:          timeTicks(w),
		GridMajorStyle: gridStyle,
	}
}

func valueAxis(name string, r Range, col drawing.Color) chart.YAxis {
	return chart.YAxis{
		Name:           name,
		NameStyle:      chart.Style{FontColor: col},
		Range:          &chart.ContinuousRange{Min: r.Min, Max: r.Max},
		GridMajorStyle: gridStyle,
	}
}

// dateLabel writes the window date in the lower left corner of the image
func dateLabel(day time.Time, height int) chart.Renderable {
	text := day.Format("2006-01-02")
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		style := chart.Style{FontSize: 8, FontColor: chart.ColorBlack}.InheritFrom(defaults)
		chart.Draw.Text(r, text, 6, height-6, style)
	}
}

// placeholderClass marks series that only keep an axis drawable
const placeholderClass = "placeholder"

// placeholder keeps an axis drawable when none of its series has a visible point.
// go-chart refuses charts without a visible series, so it is drawn in a transparent colour.
func placeholder(w Window, r Range, axis chart.YAxisType) chart.TimeSeries {
	return chart.TimeSeries{
		Style:   chart.Style{ClassName: placeholderClass, StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
		YAxis:   axis,
		XValues: []time.Time{w.Start, w.End},
		YValues: []float64{r.Min, r.Min},
	}
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 24, Left: 10, Right: 10, Bottom: 24}}
}
