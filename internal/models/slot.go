package models

import (
	"time"

	"gorm.io/gorm"
)

// BookingSlot is a bookable (date, time) capacity unit for scheduling work.
// Availability is always derived from the counters, never trusted as stored
// truth: BeforeSave re-asserts the invariant on every persistence event.
type BookingSlot struct {
	gorm.Model
	Date            time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_slot_date_time"`
	TimeSlot        string    `json:"timeSlot" gorm:"not null;uniqueIndex:idx_slot_date_time"`
	MaxBookings     int       `json:"maxBookings" gorm:"not null;default:1"`
	CurrentBookings int       `json:"currentBookings" gorm:"not null;default:0"`
	IsAvailable     bool      `json:"isAvailable" gorm:"not null;default:true"`
}

// TableName specifies the table name
func (BookingSlot) TableName() string {
	return "booking_slots"
}

// BeforeSave recomputes availability from the booking counters.
func (s *BookingSlot) BeforeSave(tx *gorm.DB) error {
	if s.CurrentBookings < 0 {
		s.CurrentBookings = 0
	}
	s.IsAvailable = s.CurrentBookings < s.MaxBookings
	return nil
}

// HasAvailability reports whether another booking fits in this slot.
func (s *BookingSlot) HasAvailability() bool {
	return s.IsAvailable && s.CurrentBookings < s.MaxBookings
}

// IncrementBookings takes one unit of capacity if any remains.
func (s *BookingSlot) IncrementBookings() {
	if s.HasAvailability() {
		s.CurrentBookings++
		if s.CurrentBookings >= s.MaxBookings {
			s.IsAvailable = false
		}
	}
}

// DecrementBookings releases one unit of capacity, flooring at zero.
func (s *BookingSlot) DecrementBookings() {
	if s.CurrentBookings > 0 {
		s.CurrentBookings--
		s.IsAvailable = true
	}
}
