package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timatix/autoworks-backend/internal/models"
)

func TestCreateQuoteMovesRequestToQuoteSent(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewQuoteService(db, nil)
	quote, err := svc.Create(CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.mechanic.ID,
		LabourCost: decimal.NewFromInt(300),
		PartsCost:  decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalStatusPending, quote.ApprovalStatus)
	assert.True(t, quote.TotalAmount.Equal(decimal.NewFromInt(450)))
	assert.True(t, quote.ValidUntil.After(time.Now()))

	var request models.ServiceRequest
	require.NoError(t, db.First(&request, f.request.ID).Error)
	assert.Equal(t, models.RequestStatusQuoteSent, request.Status)
}

func TestCreateQuoteRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewQuoteService(db, nil)
	input := CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.mechanic.ID,
		LabourCost: decimal.NewFromInt(300),
	}

	first, err := svc.Create(input)
	require.NoError(t, err)

	_, err = svc.Create(input)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)

	// Still a conflict after the first quote has been decided.
	_, err = svc.Decline(first.ID)
	require.NoError(t, err)
	_, err = svc.Create(input)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestCreateQuoteRejectsNonMechanic(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewQuoteService(db, nil)
	_, err := svc.Create(CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.client.ID,
		LabourCost: decimal.NewFromInt(300),
	})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestApproveQuote(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	quote := acceptedQuote(t, db, f, "450.00")
	assert.Equal(t, models.ApprovalStatusAccepted, quote.ApprovalStatus)
	require.NotNil(t, quote.ApprovedAt)

	var request models.ServiceRequest
	require.NoError(t, db.First(&request, f.request.ID).Error)
	assert.Equal(t, models.RequestStatusQuoteApproved, request.Status)
}

func TestApproveQuoteTwiceFails(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	quote := acceptedQuote(t, db, f, "450.00")

	svc := NewQuoteService(db, nil)
	_, err := svc.Approve(quote.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestApproveExpiredQuote(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	past := time.Now().Add(-time.Hour)
	svc := NewQuoteService(db, nil)
	quote, err := svc.Create(CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.mechanic.ID,
		LabourCost: decimal.NewFromInt(300),
		ValidUntil: &past,
	})
	require.NoError(t, err)

	_, err = svc.Approve(quote.ID)
	require.Error(t, err)
	assert.IsType(t, &ExpiredError{}, err)

	// The stale quote is marked EXPIRED, not left PENDING.
	reloaded, err := svc.GetByID(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusExpired, reloaded.ApprovalStatus)
}

func TestDeclineQuote(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewQuoteService(db, nil)
	quote, err := svc.Create(CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.mechanic.ID,
		LabourCost: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	quote, err = svc.Decline(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusDeclined, quote.ApprovalStatus)

	var request models.ServiceRequest
	require.NoError(t, db.First(&request, f.request.ID).Error)
	assert.Equal(t, models.RequestStatusQuoteDeclined, request.Status)
}

func TestUpdateQuoteRecomputesTotal(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewQuoteService(db, nil)
	quote, err := svc.Create(CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.mechanic.ID,
		LabourCost: decimal.NewFromInt(300),
		PartsCost:  decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	newLabour := decimal.NewFromInt(400)
	quote, err = svc.Update(quote.ID, UpdateQuoteInput{LabourCost: &newLabour})
	require.NoError(t, err)
	assert.True(t, quote.TotalAmount.Equal(decimal.NewFromInt(550)))
}

func TestUpdateAcceptedQuoteFails(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	quote := acceptedQuote(t, db, f, "450.00")

	svc := NewQuoteService(db, nil)
	newLabour := decimal.NewFromInt(999)
	_, err := svc.Update(quote.ID, UpdateQuoteInput{LabourCost: &newLabour})
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestDeleteQuoteResetsRequest(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewQuoteService(db, nil)
	quote, err := svc.Create(CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.mechanic.ID,
		LabourCost: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(quote.ID))

	var request models.ServiceRequest
	require.NoError(t, db.First(&request, f.request.ID).Error)
	assert.Equal(t, models.RequestStatusPendingQuote, request.Status)
}

func TestDeleteAcceptedQuoteFails(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	quote := acceptedQuote(t, db, f, "450.00")

	svc := NewQuoteService(db, nil)
	err := svc.Delete(quote.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestSweepExpired(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	past := time.Now().Add(-time.Hour)
	svc := NewQuoteService(db, nil)
	_, err := svc.Create(CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.mechanic.ID,
		LabourCost: decimal.NewFromInt(300),
		ValidUntil: &past,
	})
	require.NoError(t, err)

	count, err := svc.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A second sweep finds nothing.
	count, err = svc.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
