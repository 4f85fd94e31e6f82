// Package gps converts between GPS week/seconds-of-week and calendar time
package gps

import (
	"math"
	"time"
)

// Epoch is the start of GPS time (week 0, second 0)
var Epoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// SecondsPerWeek is the length of a GPS week in seconds
const SecondsPerWeek = 7 * 24 * 60 * 60

// ToTime returns Epoch plus week whole weeks plus seconds+leapSeconds seconds.
// Out-of-range or negative inputs are not rejected; they carry through the arithmetic.
func ToTime(week int, seconds, leapSeconds float64) time.Time {
	t := Epoch.AddDate(0, 0, 7*week)
	return t.Add(secondsToDuration(seconds + leapSeconds))
}

// FromTime is the inverse of ToTime with a zero leap-second offset. The returned seconds
// are in [0, SecondsPerWeek).
func FromTime(t time.Time) (week int, seconds float64) {
	elapsed := t.Sub(Epoch).Seconds()
	week = int(math.Floor(elapsed / SecondsPerWeek))
	seconds = elapsed - float64(week)*SecondsPerWeek
	return week, seconds
}

// secondsToDuration rounds to the nearest nanosecond
func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
