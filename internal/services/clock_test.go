package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDayUsesLocalMidnight(t *testing.T) {
	loc := time.FixedZone("SAST", 2*60*60)
	at := time.Date(2026, 3, 14, 1, 30, 0, 0, loc)

	got := StartOfDay(at)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), got)
	// UTC truncation would land on the previous day here.
	assert.NotEqual(t, at.Truncate(24*time.Hour), got)
}

func TestStartOfDayIsIdempotent(t *testing.T) {
	midnight := StartOfDay(time.Now())
	assert.Equal(t, midnight, StartOfDay(midnight))
}
