package gps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToTime(t *testing.T) {
	tests := []struct {
		name    string
		week    int
		seconds float64
		leap    float64
		want    time.Time
	}{
		{"epoch", 0, 0, 0, time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC)},
		{"week 2048 rollover", 2048, 0, 0, time.Date(2019, 4, 7, 0, 0, 0, 0, time.UTC)},
		{"week 2195", 2195, 0, 0, time.Date(2022, 1, 30, 0, 0, 0, 0, time.UTC)},
		{"week 2197", 2197, 0, 0, time.Date(2022, 2, 13, 0, 0, 0, 0, time.UTC)},
		{"thursday evening", 2195, 4*86400 + 17*3600, 0, time.Date(2022, 2, 3, 17, 0, 0, 0, time.UTC)},
		{"fractional seconds", 2195, 100.5, 0, time.Date(2022, 1, 30, 0, 1, 40, 500_000_000, time.UTC)},
		{"leap seconds subtracted", 2195, 0, -18, time.Date(2022, 1, 29, 23, 59, 42, 0, time.UTC)},
		{"seconds past end of week", 2195, SecondsPerWeek + 60, 0, time.Date(2022, 2, 6, 0, 1, 0, 0, time.UTC)},
		{"negative week", -1, 0, 0, time.Date(1979, 12, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToTime(tt.week, tt.seconds, tt.leap)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestFromTime(t *testing.T) {
	week, seconds := FromTime(time.Date(2022, 2, 3, 17, 0, 0, 0, time.UTC))
	assert.Equal(t, 2195, week)
	assert.InDelta(t, 406800.0, seconds, 1e-9)

	week, seconds = FromTime(Epoch)
	assert.Equal(t, 0, week)
	assert.Zero(t, seconds)
}

func TestFromTimeInvertsToTime(t *testing.T) {
	for _, sec := range []float64{0, 1.25, 86400, 604799} {
		week, seconds := FromTime(ToTime(2200, sec, 0))
		assert.Equal(t, 2200, week)
		assert.InDelta(t, sec, seconds, 1e-6)
	}
}
