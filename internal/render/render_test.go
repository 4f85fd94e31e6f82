package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var window = Window{
	Start: time.Date(2022, 2, 3, 17, 0, 0, 0, time.UTC),
	End:   time.Date(2022, 2, 3, 18, 0, 0, 0, time.UTC),
}

func minutes(offsets ...int) []time.Time {
	times := make([]time.Time, len(offsets))
	for i, m := range offsets {
		times[i] = window.Start.Add(time.Duration(m) * time.Minute)
	}
	return times
}

func renderPNG(t *testing.T, f *Figure) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf, PNG))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
}

func TestLines(t *testing.T) {
	f := Lines([]Series{
		{Name: "HPL", Times: minutes(0, 10, 20, 30), Values: []float64{12, 13, 11, 14}},
		{Name: "VPL", Times: minutes(0, 10, 20, 30), Values: []float64{20, 21, 19, 25}},
	}, "Protection level [m]", window)

	assert.Equal(t, []string{"HPL", "VPL"}, f.SeriesNames())
	renderPNG(t, f)
}

func TestLinesOutsideWindowStillRenders(t *testing.T) {
	f := Lines([]Series{
		{Name: "HPL", Times: minutes(-120, -90), Values: []float64{1, 2}},
	}, "Protection level [m]", window)

	assert.Empty(t, f.SeriesNames())
	renderPNG(t, f)
}

func TestDualAxis(t *testing.T) {
	f := DualAxis("PRN05",
		Series{Name: "SNR [dBHz]", Times: minutes(1, 2, 3), Values: []float64{40, 42, 44}},
		Axis{Label: "Signal-to-noise ratio [dBHz]", Range: Range{Min: 15, Max: 60}},
		Series{Name: "ele [deg]", Times: minutes(1, 2, 3), Values: []float64{30, 31, 32}},
		Axis{Label: "elevation [deg]", Range: Range{Min: 0, Max: 90}},
		window)

	assert.Equal(t, "PRN05", f.Title())
	assert.Equal(t, []string{"SNR [dBHz]", "ele [deg]"}, f.SeriesNames())
	renderPNG(t, f)
}

func TestDualAxisEmpty(t *testing.T) {
	f := DualAxis("PRN27", Series{}, Axis{Range: Range{Min: 15, Max: 60}}, Series{}, Axis{Range: Range{Min: 0, Max: 90}}, window)
	assert.Empty(t, f.SeriesNames())
	renderPNG(t, f)
}

func TestOverlay(t *testing.T) {
	f := Overlay([]Series{
		{Name: "PRN05", Times: minutes(5, 6), Values: []float64{40, 41}},
		{Name: "PRN09", Times: nil, Values: nil},
		{Name: "PRN12", Times: minutes(7), Values: []float64{33}},
	}, "Signal-to-noise ratio [dBHz]", Range{Min: 15, Max: 60}, window)

	assert.Equal(t, []string{"PRN05", "PRN12"}, f.SeriesNames())
	renderPNG(t, f)
}

func TestEncoderByExtension(t *testing.T) {
	f := Overlay([]Series{{Name: "PRN05", Times: minutes(5, 6), Values: []float64{40, 41}}},
		"SNR", Range{Min: 15, Max: 60}, window)

	var svg bytes.Buffer
	require.NoError(t, f.Encoder("all_snr.svg")(&svg))
	assert.Contains(t, svg.String(), "<svg")

	var raster bytes.Buffer
	require.NoError(t, f.Encoder("all_snr.png")(&raster))
	_, err := png.DecodeConfig(&raster)
	assert.NoError(t, err)
}

func TestLinesSkipsNonFiniteValues(t *testing.T) {
	f := Lines([]Series{
		{Name: "HPL", Times: minutes(0, 1, 2, 3), Values: []float64{3, math.NaN(), 4, math.Inf(1)}},
	}, "Protection level [m]", window)

	assert.Equal(t, []string{"HPL"}, f.SeriesNames())
	renderPNG(t, f)
}

func TestDualAxisOnlyNaN(t *testing.T) {
	f := DualAxis("PRN05",
		Series{Name: "SNR [dBHz]", Times: minutes(1), Values: []float64{math.NaN()}},
		Axis{Range: Range{Min: 15, Max: 60}},
		Series{Name: "ele [deg]", Times: minutes(1), Values: []float64{math.Inf(-1)}},
		Axis{Range: Range{Min: 0, Max: 90}},
		window)

	assert.Empty(t, f.SeriesNames())
	renderPNG(t, f)
}

func TestOverlaySkipsNonFiniteValues(t *testing.T) {
	f := Overlay([]Series{
		{Name: "PRN05", Times: minutes(5, 6), Values: []float64{math.NaN(), 41}},
	}, "SNR", Range{Min: 15, Max: 60}, window)
	renderPNG(t, f)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, PNG, FormatFor("xpl.png"))
	assert.Equal(t, SVG, FormatFor("xpl.SVG"))
	assert.Equal(t, PNG, FormatFor("xpl"))
}

func TestWindow(t *testing.T) {
	assert.True(t, window.Contains(window.Start))
	assert.True(t, window.Contains(window.End))
	assert.False(t, window.Contains(window.End.Add(time.Nanosecond)))
	assert.NoError(t, window.Validate())
	assert.Error(t, Window{Start: window.End, End: window.Start}.Validate())
}

func TestClipDropsNonFinite(t *testing.T) {
	s := clip(Series{Times: minutes(0, 1, 2, 3), Values: []float64{1, math.NaN(), math.Inf(-1), 4}}, window)
	assert.Equal(t, []float64{1, 4}, s.Values)
	assert.Equal(t, minutes(0, 3), s.Times)
}

func TestClip(t *testing.T) {
	s := clip(Series{Name: "a", Times: minutes(-1, 0, 30, 60, 61), Values: []float64{1, 2, 3, 4, 5}}, window)
	assert.Equal(t, []float64{2, 3, 4}, s.Values)
	assert.Len(t, s.Times, 3)
	assert.Equal(t, "a", s.Name)
}

func TestAutoRange(t *testing.T) {
	assert.Equal(t, Range{Min: 0, Max: 1}, autoRange(nil))
	assert.Equal(t, Range{Min: 7, Max: 9}, autoRange([]Series{{Values: []float64{8, 8}}}))

	r := autoRange([]Series{{Values: []float64{0, math.NaN(), 10}}, {Values: []float64{20}}})
	assert.InDelta(t, -1.0, r.Min, 1e-9)
	assert.InDelta(t, 21.0, r.Max, 1e-9)
}

func TestTimeTicks(t *testing.T) {
	ticks := timeTicks(window)
	require.Len(t, ticks, 7)
	assert.Equal(t, "17:00", ticks[0].Label)
	assert.Equal(t, "17:10", ticks[1].Label)
	assert.Equal(t, "18:00", ticks[6].Label)
}

func TestHHMM(t *testing.T) {
	ts := time.Date(2022, 2, 3, 17, 42, 10, 0, time.UTC)
	assert.Equal(t, "17:42", hhmm(float64(ts.UnixNano())))
	assert.Equal(t, "17:42", hhmm(ts))
	assert.Equal(t, "", hhmm("x"))
}
