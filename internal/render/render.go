// Package render draws GNSS time-series charts with go-chart.
//
// Each chart is an explicit Figure value built by one of the strategies (Lines, DualAxis,
// Overlay) and encoded with Render or Encoder. No drawing state is shared between figures.
package render

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Figure size in pixels (8x3 inches at 100 dpi)
const (
	DefaultWidth  = 800
	DefaultHeight = 300
)

// TimeAxisLabel is the x-axis caption of every chart
const TimeAxisLabel = "GPS time [hh:mm]"

// Window is the visible time span of a chart. It limits the view only.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End]
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Validate checks that the window has a positive length
func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return fmt.Errorf("time window end %s is not after start %s", w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// Range is a fixed y-axis interval
type Range struct {
	Min float64
	Max float64
}

// Series is one named sequence of values against time
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// Len returns the number of points
func (s Series) Len() int { return len(s.Values) }

// Format selects the image encoding
type Format int

const (
	PNG Format = iota
	SVG
)

// FormatFor picks the encoding from a file name extension; anything but .svg is PNG
func FormatFor(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".svg") {
		return SVG
	}
	return PNG
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Figure is a fully described chart ready to be encoded
type Figure struct {
	chart chart.Chart
}

// Title returns the chart title
func (f *Figure) Title() string { return f.chart.Title }

// SeriesNames returns the names of the drawn series, placeholders excluded
func (f *Figure) SeriesNames() []string {
	var names []string
	for _, s := range f.chart.Series {
		if s.GetStyle().ClassName == placeholderClass {
			continue
		}
		names = append(names, s.GetName())
	}
	return names
}

// Render encodes the figure to w
func (f *Figure) Render(w io.Writer, format Format) error {
	if err := f.chart.Render(format.provider(), w); err != nil {
		return fmt.Errorf("failed to render chart %q: %w", f.chart.Title, err)
	}
	return nil
}

// Encoder returns a write function encoding the figure in the format of name,
// for use with filewriter.WriteFile.
func (f *Figure) Encoder(name string) func(io.Writer) error {
	format := FormatFor(name)
	return func(w io.Writer) error {
		return f.Render(w, format)
	}
}

// clip keeps the points of s that lie inside w. NaN and infinite values are
// dropped and leave a gap; go-chart does not terminate on them.
func clip(s Series, w Window) Series {
	out := Series{Name: s.Name}
	for i, t := range s.Times {
		if i >= len(s.Values) {
			break
		}
		v := s.Values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if w.Contains(t) {
			out.Times = append(out.Times, t)
			out.Values = append(out.Values, s.Values[i])
		}
	}
	return out
}

// autoRange returns a padded y interval covering every finite value of series
func autoRange(series []Series) Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	switch {
	case math.IsInf(lo, 1):
		return Range{Min: 0, Max: 1}
	case lo == hi:
		return Range{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return Range{Min: lo - pad, Max: hi + pad}
}
