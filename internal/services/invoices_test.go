package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

func TestCreateInvoiceAddsVAT(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	acceptedQuote(t, db, f, "450.00")

	svc := NewInvoiceService(db, nil)
	invoice, err := svc.CreateFromQuote(f.request.ID)
	require.NoError(t, err)

	assert.Equal(t, "450.00", invoice.Subtotal.StringFixed(2))
	assert.Equal(t, "67.50", invoice.TaxAmount.StringFixed(2))
	assert.Equal(t, "517.50", invoice.TotalAmount.StringFixed(2))
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.PaymentStatus)
	assert.True(t, invoice.DueDate.After(time.Now().Add(29*24*time.Hour)))
}

func TestCreateInvoiceRequiresAcceptedQuote(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	svc := NewQuoteService(db, nil)
	_, err := svc.Create(CreateQuoteInput{
		RequestID:  f.request.ID,
		MechanicID: f.mechanic.ID,
		LabourCost: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	invoiceSvc := NewInvoiceService(db, nil)
	_, err = invoiceSvc.CreateFromQuote(f.request.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestCreateInvoiceRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	acceptedQuote(t, db, f, "450.00")

	svc := NewInvoiceService(db, nil)
	_, err := svc.CreateFromQuote(f.request.ID)
	require.NoError(t, err)

	_, err = svc.CreateFromQuote(f.request.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestInvoiceNumberIsSequentialPerMonth(t *testing.T) {
	db := newTestDB(t)

	svc := NewInvoiceService(db, nil)
	month := time.Now().Format("200601")

	for i := 1; i <= 3; i++ {
		f := newFixtureN(t, db, i)
		acceptedQuote(t, db, f, "100.00")

		invoice, err := svc.CreateFromQuote(f.request.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("TIM-%s-%04d", month, i), invoice.InvoiceNumber)
	}
}

func TestInvoiceNumberNotReusedAfterDelete(t *testing.T) {
	db := newTestDB(t)

	svc := NewInvoiceService(db, nil)
	month := time.Now().Format("200601")

	f1 := newFixtureN(t, db, 1)
	acceptedQuote(t, db, f1, "100.00")
	first, err := svc.CreateFromQuote(f1.request.ID)
	require.NoError(t, err)

	// Soft-delete the first invoice; its number stays burned.
	require.NoError(t, db.Delete(first).Error)

	f2 := newFixtureN(t, db, 2)
	acceptedQuote(t, db, f2, "100.00")
	second, err := svc.CreateFromQuote(f2.request.ID)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("TIM-%s-0002", month), second.InvoiceNumber)
}

func TestMarkAsPaid(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	acceptedQuote(t, db, f, "450.00")

	svc := NewInvoiceService(db, nil)
	invoice, err := svc.CreateFromQuote(f.request.ID)
	require.NoError(t, err)

	invoice, err = svc.MarkAsPaid(invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.PaymentStatus)
	require.NotNil(t, invoice.PaidDate)
}

func TestSweepOverdue(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	acceptedQuote(t, db, f, "450.00")

	svc := NewInvoiceService(db, nil)
	invoice, err := svc.CreateFromQuote(f.request.ID)
	require.NoError(t, err)

	// Backdate the due date past the cutoff.
	require.NoError(t, db.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("due_date", time.Now().Add(-48*time.Hour)).Error)

	count, err := svc.SweepOverdue()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	reloaded, err := svc.GetByID(invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, reloaded.PaymentStatus)

	// An already overdue invoice is not swept again.
	count, err = svc.SweepOverdue()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// newFixtureN builds an independent request chain with unique identifiers.
func newFixtureN(t *testing.T, db *gorm.DB, n int) *testFixture {
	t.Helper()

	client := createUser(t, db, fmt.Sprintf("client%d@example.com", n), models.RoleClient)
	mechanic := createUser(t, db, fmt.Sprintf("mechanic%d@example.com", n), models.RoleMechanic)
	vehicle := createVehicle(t, db, client.ID, fmt.Sprintf("CA %03d-456", n))
	entry := createCatalogEntry(t, db, fmt.Sprintf("Service %d", n))

	svc := NewRequestService(db, nil)
	request, err := svc.Create(CreateRequestInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ServiceID:     entry.ID,
		PreferredDate: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	return &testFixture{
		client:   client,
		mechanic: mechanic,
		vehicle:  vehicle,
		entry:    entry,
		request:  request,
	}
}
