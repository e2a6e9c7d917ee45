package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timatix/autoworks-backend/internal/models"
)

func TestCreateRequest(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	assert.Equal(t, models.RequestStatusPendingQuote, f.request.Status)
	assert.Equal(t, f.client.ID, f.request.ClientID)
	assert.Equal(t, f.vehicle.ID, f.request.VehicleID)
}

func TestCreateRequestRejectsForeignVehicle(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	other := createUser(t, db, "other@example.com", models.RoleClient)
	svc := NewRequestService(db, nil)

	_, err := svc.Create(CreateRequestInput{
		ClientID:      other.ID,
		VehicleID:     f.vehicle.ID,
		ServiceID:     f.entry.ID,
		PreferredDate: time.Now().AddDate(0, 0, 3),
	})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestCreateRequestRejectsPastDate(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewRequestService(db, nil)
	_, err := svc.Create(CreateRequestInput{
		ClientID:      f.client.ID,
		VehicleID:     f.vehicle.ID,
		ServiceID:     f.entry.ID,
		PreferredDate: time.Now().AddDate(0, 0, -1),
	})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestAssignMechanic(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewRequestService(db, nil)
	request, err := svc.AssignMechanic(f.request.ID, f.mechanic.ID)
	require.NoError(t, err)
	require.NotNil(t, request.AssignedMechanicID)
	assert.Equal(t, f.mechanic.ID, *request.AssignedMechanicID)
}

func TestAssignMechanicRejectsClient(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewRequestService(db, nil)
	_, err := svc.AssignMechanic(f.request.ID, f.client.ID)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestUpdateStatusFollowsTransitions(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	acceptedQuote(t, db, f, "450.00")

	svc := NewRequestService(db, nil)

	// QUOTE_APPROVED -> BOOKING_CONFIRMED -> IN_PROGRESS -> COMPLETED
	for _, status := range []string{
		models.RequestStatusBookingConfirmed,
		models.RequestStatusInProgress,
		models.RequestStatusCompleted,
	} {
		request, err := svc.UpdateStatus(f.request.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, request.Status)
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewRequestService(db, nil)

	// PENDING_QUOTE cannot jump straight to COMPLETED
	_, err := svc.UpdateStatus(f.request.ID, models.RequestStatusCompleted)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)

	// nor out of a terminal state
	_, err = svc.UpdateStatus(f.request.ID, models.RequestStatusCancelled)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(f.request.ID, models.RequestStatusPendingQuote)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewRequestService(db, nil)
	_, err := svc.UpdateStatus(f.request.ID, "SOMETHING_ELSE")
	require.Error(t, err)
}

func TestDeleteRequest(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewRequestService(db, nil)
	require.NoError(t, svc.Delete(f.request.ID))

	_, err := svc.GetByID(f.request.ID)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestDeleteRequestRejectsConfirmedWork(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	acceptedQuote(t, db, f, "450.00")

	svc := NewRequestService(db, nil)
	_, err := svc.UpdateStatus(f.request.ID, models.RequestStatusBookingConfirmed)
	require.NoError(t, err)

	err = svc.Delete(f.request.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)

	_, err = svc.UpdateStatus(f.request.ID, models.RequestStatusInProgress)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(f.request.ID, models.RequestStatusCompleted)
	require.NoError(t, err)

	// Completed work is part of the financial record and stays put.
	err = svc.Delete(f.request.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestListByStatus(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewRequestService(db, nil)
	pending, err := svc.ListByStatus(models.RequestStatusPendingQuote)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.request.ID, pending[0].ID)

	completed, err := svc.ListByStatus(models.RequestStatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, completed)
}
