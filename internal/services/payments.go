package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

// PaymentService posts payments and refunds against invoices through the
// external gateway. Every gateway call resolves the payment to COMPLETED or
// FAILED before returning; gateway errors never propagate to the caller.
type PaymentService struct {
	db       *gorm.DB
	gateway  PaymentGateway
	notifier *Notifier
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway, notifier *Notifier) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, notifier: notifier}
}

// ProcessPayment charges the gateway for an invoice. A fresh transactionId is
// generated per call, so callers must not blindly retry.
func (s *PaymentService) ProcessPayment(ctx context.Context, invoiceID uint, amount decimal.Decimal, method string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "payment amount must be positive")
	}

	var invoice models.Invoice
	if err := s.db.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invoice", invoiceID)
		}
		return nil, err
	}

	if invoice.PaymentStatus == models.InvoiceStatusPaid {
		return nil, NewConflictError("invoice is already paid")
	}

	payment := models.Payment{
		InvoiceID:     invoice.ID,
		TransactionID: generateTransactionID(),
		Amount:        amount,
		PaymentMethod: method,
		Status:        models.PaymentStatusPending,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, payment.TransactionID, amount, method)
	if err != nil {
		// Gateway failures resolve locally to FAILED, never a hard error.
		payment.Status = models.PaymentStatusFailed
		payment.FailureReason = err.Error()
		log.WithFields(log.Fields{"invoiceId": invoiceID, "transactionId": payment.TransactionID}).
			Errorf("Payment processing error: %v", err)
	} else if result.Success {
		payment.Status = models.PaymentStatusCompleted
		payment.GatewayReference = result.Reference
	} else {
		payment.Status = models.PaymentStatusFailed
		payment.FailureReason = result.Reason
		log.WithField("invoiceId", invoiceID).Warnf("Payment failed: %s", result.Reason)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		if payment.Status == models.PaymentStatusCompleted {
			return s.recomputeInvoiceStatus(tx, &invoice)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if payment.Status == models.PaymentStatusCompleted {
		log.WithFields(log.Fields{"invoiceId": invoiceID, "transactionId": payment.TransactionID}).
			Info("Payment processed successfully")

		var request models.ServiceRequest
		if err := s.db.First(&request, invoice.RequestID).Error; err == nil {
			s.notifier.Notify(EventPaymentReceived, request.ClientID, map[string]interface{}{
				"invoiceId":     invoice.ID,
				"transactionId": payment.TransactionID,
				"amount":        payment.Amount.StringFixed(2),
			})
		}
	}

	return &payment, nil
}

// RefundPayment posts a negative payment against the invoice of a completed
// payment, symmetric to ProcessPayment.
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID uint, amount decimal.Decimal, reason string) (*models.Payment, error) {
	var original models.Payment
	if err := s.db.First(&original, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("payment", paymentID)
		}
		return nil, err
	}

	if original.Status != models.PaymentStatusCompleted {
		return nil, NewConflictError("can only refund completed payments")
	}
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "refund amount must be positive")
	}

	refund := models.Payment{
		InvoiceID:         original.InvoiceID,
		TransactionID:     generateTransactionID(),
		Amount:            amount.Neg(),
		PaymentMethod:     original.PaymentMethod,
		Status:            models.PaymentStatusPending,
		RefundReason:      reason,
		OriginalPaymentID: &original.ID,
	}
	if err := s.db.Create(&refund).Error; err != nil {
		return nil, err
	}

	result, err := s.gateway.Refund(ctx, refund.TransactionID, amount, original.PaymentMethod)
	if err != nil {
		refund.Status = models.PaymentStatusFailed
		refund.FailureReason = err.Error()
		log.WithField("paymentId", paymentID).Errorf("Refund processing error: %v", err)
	} else if result.Success {
		refund.Status = models.PaymentStatusCompleted
		refund.GatewayReference = result.Reference
	} else {
		refund.Status = models.PaymentStatusFailed
		refund.FailureReason = result.Reason
		log.WithField("paymentId", paymentID).Warnf("Refund failed: %s", result.Reason)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&refund).Error; err != nil {
			return err
		}
		if refund.Status == models.PaymentStatusCompleted {
			var invoice models.Invoice
			if err := tx.First(&invoice, refund.InvoiceID).Error; err != nil {
				return err
			}
			return s.recomputeInvoiceStatus(tx, &invoice)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if refund.Status == models.PaymentStatusCompleted {
		log.WithFields(log.Fields{"paymentId": paymentID, "transactionId": refund.TransactionID}).
			Info("Refund processed successfully")

		s.notifier.Notify(EventPaymentRefunded, 0, map[string]interface{}{
			"invoiceId":     refund.InvoiceID,
			"transactionId": refund.TransactionID,
			"amount":        refund.Amount.StringFixed(2),
		})
	}

	return &refund, nil
}

// recomputeInvoiceStatus rederives the invoice payment status from the net
// total of completed postings.
func (s *PaymentService) recomputeInvoiceStatus(tx *gorm.DB, invoice *models.Invoice) error {
	totalPaid, err := TotalPaid(tx, invoice.ID)
	if err != nil {
		return err
	}

	switch {
	case totalPaid.GreaterThanOrEqual(invoice.TotalAmount):
		invoice.PaymentStatus = models.InvoiceStatusPaid
		if invoice.PaidDate == nil {
			now := time.Now()
			invoice.PaidDate = &now
		}
	case totalPaid.IsPositive():
		invoice.PaymentStatus = models.InvoiceStatusPartial
	default:
		invoice.PaymentStatus = models.InvoiceStatusUnpaid
		invoice.PaidDate = nil
	}

	return tx.Save(invoice).Error
}

// ListByInvoice returns all postings for an invoice, newest first.
func (s *PaymentService) ListByInvoice(invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("invoice_id = ?", invoiceID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

// ListPending returns payments still awaiting a gateway outcome.
func (s *PaymentService) ListPending() ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("status = ?", models.PaymentStatusPending).Find(&payments).Error
	return payments, err
}

// SweepStale cancels PENDING payments older than the cutoff. Run every six
// hours by the scheduler.
func (s *PaymentService) SweepStale(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, cutoff).
		Update("status", models.PaymentStatusCancelled)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		log.WithField("count", result.RowsAffected).Info("Cancelled stale payments")
	}
	return int(result.RowsAffected), nil
}

func generateTransactionID() string {
	return "PAY-" + uuid.NewString()
}
