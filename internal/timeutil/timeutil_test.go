package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	moment := time.Date(2026, 8, 25, 14, 37, 12, 500, loc)

	start, end := DayBounds(moment)
	assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, loc), end)
}

func TestDayBoundsAtMidnight(t *testing.T) {
	midnight := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local)

	start, end := DayBounds(midnight)
	assert.Equal(t, midnight, start)
	assert.Equal(t, midnight.AddDate(0, 0, 1), end)
}

func TestDayBoundsCrossesMonthEnd(t *testing.T) {
	moment := time.Date(2026, 8, 31, 23, 59, 59, 0, time.Local)

	start, end := DayBounds(moment)
	assert.Equal(t, time.August, start.Month())
	assert.Equal(t, time.September, end.Month())
	assert.Equal(t, 1, end.Day())
}
