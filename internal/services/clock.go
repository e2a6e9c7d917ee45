package services

import "time"

// StartOfDay returns midnight of t's calendar day in t's location. Business
// days are local days, so date cutoffs must not use UTC truncation.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
