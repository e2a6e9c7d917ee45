package services

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

// SlotService manages booking-slot capacity.
type SlotService struct {
	db *gorm.DB
}

func NewSlotService(db *gorm.DB) *SlotService {
	return &SlotService{db: db}
}

// CreateSlot opens a new capacity unit for a future (date, time) pair.
func (s *SlotService) CreateSlot(date time.Time, timeSlot string, maxBookings int) (*models.BookingSlot, error) {
	if date.IsZero() {
		return nil, NewValidationError("date", "booking date is required")
	}
	if timeSlot == "" {
		return nil, NewValidationError("timeSlot", "time slot is required")
	}
	if date.Before(StartOfDay(time.Now())) {
		return nil, NewValidationError("date", "cannot create booking slot for past dates")
	}
	if maxBookings <= 0 {
		maxBookings = 1
	}

	var existing models.BookingSlot
	err := s.db.Where("date = ? AND time_slot = ?", date, timeSlot).First(&existing).Error
	if err == nil {
		return nil, NewConflictError("booking slot already exists for this date and time")
	}

	slot := models.BookingSlot{
		Date:            date,
		TimeSlot:        timeSlot,
		MaxBookings:     maxBookings,
		CurrentBookings: 0,
		IsAvailable:     true,
	}
	if err := s.db.Create(&slot).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"date": date.Format("2006-01-02"), "timeSlot": timeSlot}).
		Info("Created booking slot")
	return &slot, nil
}

// GetByID loads one slot.
func (s *SlotService) GetByID(id uint) (*models.BookingSlot, error) {
	var slot models.BookingSlot
	if err := s.db.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("booking slot", id)
		}
		return nil, err
	}
	return &slot, nil
}

// ListByDate returns every slot on one date.
func (s *SlotService) ListByDate(date time.Time) ([]models.BookingSlot, error) {
	var slots []models.BookingSlot
	err := s.db.Where("date = ?", date).Order("time_slot").Find(&slots).Error
	return slots, err
}

// ListAvailable returns slots with remaining capacity from today onward.
func (s *SlotService) ListAvailable() ([]models.BookingSlot, error) {
	var slots []models.BookingSlot
	err := s.db.Where("is_available = ? AND date >= ?", true, StartOfDay(time.Now())).
		Order("date, time_slot").Find(&slots).Error
	return slots, err
}

// BookSlot takes one unit of capacity. The capacity check and the increment
// run as a single guarded UPDATE so concurrent bookings can never push
// currentBookings past maxBookings, whatever the isolation level.
func (s *SlotService) BookSlot(id uint) (*models.BookingSlot, error) {
	res := s.db.Model(&models.BookingSlot{}).
		Where("id = ? AND current_bookings < max_bookings", id).
		Updates(map[string]interface{}{
			"current_bookings": gorm.Expr("current_bookings + 1"),
			"is_available":     gorm.Expr("current_bookings + 1 < max_bookings"),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	slot, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, NewConflictError("booking slot is not available")
	}

	log.WithFields(log.Fields{"slotId": id, "currentBookings": slot.CurrentBookings}).
		Info("Booked slot")
	return slot, nil
}

// CancelBooking releases one unit of capacity. The guard floors the count at
// zero; cancelling an empty slot is a no-op.
func (s *SlotService) CancelBooking(id uint) (*models.BookingSlot, error) {
	res := s.db.Model(&models.BookingSlot{}).
		Where("id = ? AND current_bookings > 0", id).
		Updates(map[string]interface{}{
			"current_bookings": gorm.Expr("current_bookings - 1"),
			"is_available":     true,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	slot, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"slotId": id, "currentBookings": slot.CurrentBookings}).
		Info("Cancelled booking for slot")
	return slot, nil
}

// DeleteSlot removes a slot with no active bookings.
func (s *SlotService) DeleteSlot(id uint) error {
	slot, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if slot.CurrentBookings > 0 {
		return NewConflictError("cannot delete booking slot that has active bookings")
	}

	log.WithField("slotId", id).Info("Deleting booking slot")
	return s.db.Delete(slot).Error
}

// GenerateRange bulk-creates slots for every (date, time) pair in the range,
// skipping pairs that already exist. Idempotent.
func (s *SlotService) GenerateRange(startDate, endDate time.Time, timeSlots []string, maxBookings int, weekdaysOnly bool) (int, error) {
	if endDate.Before(startDate) {
		return 0, NewValidationError("endDate", "end date must not be before start date")
	}
	if maxBookings <= 0 {
		maxBookings = 1
	}

	created := 0
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if weekdaysOnly {
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}

		for _, timeSlot := range timeSlots {
			var existing models.BookingSlot
			err := s.db.Where("date = ? AND time_slot = ?", date, timeSlot).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return created, err
			}

			slot := models.BookingSlot{
				Date:            date,
				TimeSlot:        timeSlot,
				MaxBookings:     maxBookings,
				CurrentBookings: 0,
				IsAvailable:     true,
			}
			if err := s.db.Create(&slot).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	log.WithField("count", created).Info("Generated booking slots")
	return created, nil
}
