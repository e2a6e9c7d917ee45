package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotDate(days int) time.Time {
	return StartOfDay(time.Now().AddDate(0, 0, days))
}

func TestCreateSlot(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	slot, err := svc.CreateSlot(slotDate(1), "09:00-10:00", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, slot.MaxBookings)
	assert.Equal(t, 0, slot.CurrentBookings)
	assert.True(t, slot.IsAvailable)
}

func TestCreateSlotDefaultsCapacity(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	slot, err := svc.CreateSlot(slotDate(1), "09:00-10:00", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, slot.MaxBookings)
}

func TestCreateSlotRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	_, err := svc.CreateSlot(slotDate(1), "09:00-10:00", 1)
	require.NoError(t, err)

	_, err = svc.CreateSlot(slotDate(1), "09:00-10:00", 1)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestCreateSlotRejectsPastDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	_, err := svc.CreateSlot(slotDate(-1), "09:00-10:00", 1)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestBookSlotUntilFull(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	slot, err := svc.CreateSlot(slotDate(1), "09:00-10:00", 2)
	require.NoError(t, err)

	slot, err = svc.BookSlot(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, slot.CurrentBookings)
	assert.True(t, slot.IsAvailable)

	slot, err = svc.BookSlot(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, slot.CurrentBookings)
	assert.False(t, slot.IsAvailable)

	// A full slot cannot be booked again.
	_, err = svc.BookSlot(slot.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestBookSlotNeverOversells(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	slot, err := svc.CreateSlot(slotDate(1), "09:00-10:00", 3)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.BookSlot(slot.ID)
		}()
	}
	wg.Wait()

	reloaded, err := svc.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.CurrentBookings)
	assert.False(t, reloaded.IsAvailable)
}

func TestCancelBookingReopensSlot(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	slot, err := svc.CreateSlot(slotDate(1), "09:00-10:00", 1)
	require.NoError(t, err)

	slot, err = svc.BookSlot(slot.ID)
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)

	slot, err = svc.CancelBooking(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, slot.CurrentBookings)
	assert.True(t, slot.IsAvailable)
}

func TestCancelBookingNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	slot, err := svc.CreateSlot(slotDate(1), "09:00-10:00", 1)
	require.NoError(t, err)

	slot, err = svc.CancelBooking(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, slot.CurrentBookings)
}

func TestDeleteSlotWithBookingsFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	slot, err := svc.CreateSlot(slotDate(1), "09:00-10:00", 1)
	require.NoError(t, err)

	_, err = svc.BookSlot(slot.ID)
	require.NoError(t, err)

	err = svc.DeleteSlot(slot.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestGenerateRangeSkipsExisting(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	start := slotDate(1)
	end := slotDate(3)
	times := []string{"09:00-10:00", "10:00-11:00"}

	created, err := svc.GenerateRange(start, end, times, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 6, created)

	// Re-running over the same range creates nothing new.
	created, err = svc.GenerateRange(start, end, times, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
