package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Lines draws each series as a labelled line on one y-axis scaled to the visible data
func Lines(series []Series, yLabel string, w Window) *Figure {
	visible := make([]Series, 0, len(series))
	for _, s := range series {
		visible = append(visible, clip(s, w))
	}
	yRange := autoRange(visible)

	ch := newChart(w)
	ch.YAxis = valueAxis(yLabel, yRange, chart.ColorBlack)
	for i, s := range visible {
		if s.Len() == 0 {
			continue
		}
		ch.Series = append(ch.Series, chart.TimeSeries{
			Name:    s.Name,
			Style:   lineStyle(color(i)),
			XValues: s.Times,
			YValues: s.Values,
		})
	}
	if len(ch.Series) == 0 {
		ch.Series = append(ch.Series, placeholder(w, yRange, chart.YAxisPrimary))
	} else {
		ch.Elements = append(ch.Elements, chart.Legend(&ch))
	}
	return &Figure{chart: ch}
}

// Axis describes one y-axis of a DualAxis chart
type Axis struct {
	Label string
	Range Range
}

// DualAxis draws primary and secondary as dots on independent y-axes sharing the time axis
func DualAxis(title string, primary Series, primaryAxis Axis, secondary Series, secondaryAxis Axis, w Window) *Figure {
	ch := newChart(w)
	ch.Title = title
	ch.YAxis = valueAxis(primaryAxis.Label, primaryAxis.Range, color(0))
	ch.YAxisSecondary = valueAxis(secondaryAxis.Label, secondaryAxis.Range, color(1))
	ch.YAxisSecondary.GridMajorStyle = chart.Style{}

	ch.Series = []chart.Series{
		axisSeries(clip(primary, w), color(0), chart.YAxisPrimary, w, primaryAxis.Range),
		axisSeries(clip(secondary, w), color(1), chart.YAxisSecondary, w, secondaryAxis.Range),
	}
	return &Figure{chart: ch}
}

func axisSeries(s Series, col drawing.Color, axis chart.YAxisType, w Window, r Range) chart.Series {
	if s.Len() == 0 {
		return placeholder(w, r, axis)
	}
	return chart.TimeSeries{
		Name:    s.Name,
		Style:   pointStyle(col),
		YAxis:   axis,
		XValues: s.Times,
		YValues: s.Values,
	}
}

// Overlay draws every series as dots on one fixed y-axis
func Overlay(series []Series, yLabel string, yRange Range, w Window) *Figure {
	ch := newChart(w)
	ch.YAxis = valueAxis(yLabel, yRange, chart.ColorBlack)
	for i, s := range series {
		s = clip(s, w)
		if s.Len() == 0 {
			continue
		}
		ch.Series = append(ch.Series, chart.TimeSeries{
			Name:    s.Name,
			Style:   pointStyle(color(i)),
			XValues: s.Times,
			YValues: s.Values,
		})
	}
	if len(ch.Series) == 0 {
		ch.Series = append(ch.Series, placeholder(w, yRange, chart.YAxisPrimary))
	}
	return &Figure{chart: ch}
}

func newChart(w Window) chart.Chart {
	return chart.Chart{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: background(),
		XAxis:      timeAxis(w),
		Elements:   []chart.Renderable{dateLabel(w.Start, DefaultHeight)},
	}
}
