package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionRequest(t *testing.T) {
	allowed := []struct{ from, to string }{
		{RequestStatusPendingQuote, RequestStatusQuoteSent},
		{RequestStatusQuoteSent, RequestStatusQuoteApproved},
		{RequestStatusQuoteSent, RequestStatusQuoteDeclined},
		{RequestStatusQuoteApproved, RequestStatusBookingConfirmed},
		{RequestStatusBookingConfirmed, RequestStatusInProgress},
		{RequestStatusInProgress, RequestStatusCompleted},
		{RequestStatusQuoteDeclined, RequestStatusPendingQuote},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionRequest(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{RequestStatusPendingQuote, RequestStatusCompleted},
		{RequestStatusQuoteSent, RequestStatusInProgress},
		{RequestStatusCompleted, RequestStatusPendingQuote},
		{RequestStatusCancelled, RequestStatusPendingQuote},
	}
	for _, tc := range denied {
		assert.False(t, CanTransitionRequest(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestValidRequestStatus(t *testing.T) {
	assert.True(t, ValidRequestStatus(RequestStatusPendingQuote))
	assert.True(t, ValidRequestStatus(RequestStatusCompleted))
	assert.False(t, ValidRequestStatus("NOT_A_STATUS"))
}

func TestDeletable(t *testing.T) {
	for _, status := range []string{RequestStatusPendingQuote, RequestStatusQuoteSent, RequestStatusCancelled} {
		request := ServiceRequest{Status: status}
		assert.True(t, request.Deletable(), status)
	}

	for _, status := range []string{RequestStatusBookingConfirmed, RequestStatusInProgress, RequestStatusCompleted} {
		request := ServiceRequest{Status: status}
		assert.False(t, request.Deletable(), status)
	}
}

func TestUserPasswordRoundTrip(t *testing.T) {
	user := User{Password: "hunter22"}
	assert.NoError(t, user.HashPassword())
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("hunter22"))
	assert.Error(t, user.CheckPassword("wrong"))
}

func TestIsMechanic(t *testing.T) {
	assert.False(t, (&User{Role: RoleClient}).IsMechanic())
	assert.True(t, (&User{Role: RoleMechanic}).IsMechanic())
	assert.True(t, (&User{Role: RoleAdmin}).IsMechanic())
}
