package services

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

// InvoiceService derives invoices from accepted quotes and tracks their
// payment status.
type InvoiceService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewInvoiceService(db *gorm.DB, notifier *Notifier) *InvoiceService {
	return &InvoiceService{db: db, notifier: notifier}
}

func invoicePrefix() string {
	if prefix := os.Getenv("INVOICE_PREFIX"); prefix != "" {
		return prefix
	}
	return "TIM"
}

// CreateFromQuote bills the accepted quote of a request: subtotal is the
// quote total, tax is 15% VAT, dueDate defaults to 30 days out.
//
// The invoice number carries a unique index, so a concurrent create racing
// for the same number fails on insert and is retried with a fresh number.
func (s *InvoiceService) CreateFromQuote(requestID uint) (*models.Invoice, error) {
	var invoice *models.Invoice
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		invoice, err = s.createFromQuote(requestID)
		if err == nil || !isDuplicateKey(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"invoiceNumber": invoice.InvoiceNumber, "requestId": requestID}).
		Info("Invoice created")

	var request models.ServiceRequest
	if err := s.db.First(&request, requestID).Error; err == nil {
		s.notifier.Notify(EventInvoiceGenerated, request.ClientID, map[string]interface{}{
			"invoiceId":     invoice.ID,
			"invoiceNumber": invoice.InvoiceNumber,
			"totalAmount":   invoice.TotalAmount.StringFixed(2),
		})
	}

	return invoice, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key")
}

func (s *InvoiceService) createFromQuote(requestID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request models.ServiceRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service request", requestID)
			}
			return err
		}

		var quote models.ServiceQuote
		if err := tx.Where("request_id = ?", requestID).First(&quote).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service quote for request", requestID)
			}
			return err
		}

		if quote.ApprovalStatus != models.ApprovalStatusAccepted {
			return NewConflictError("quote must be accepted before invoicing")
		}

		var existing models.Invoice
		if err := tx.Where("request_id = ?", requestID).First(&existing).Error; err == nil {
			return NewConflictError("invoice already exists for this service request")
		}

		number, err := s.nextInvoiceNumber(tx)
		if err != nil {
			return err
		}

		subtotal := quote.TotalAmount
		tax := subtotal.Mul(models.VATRate).Round(2)

		invoice = models.Invoice{
			RequestID:     requestID,
			InvoiceNumber: number,
			Subtotal:      subtotal,
			TaxAmount:     tax,
			TotalAmount:   subtotal.Add(tax),
			PaymentStatus: models.InvoiceStatusUnpaid,
			DueDate:       time.Now().Add(models.InvoiceDueTerm),
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// nextInvoiceNumber issues the next PREFIX-YYYYMM-NNNN number, sequential
// within the current month. It advances from the highest number ever issued,
// soft-deleted invoices included, so a number is never reused.
func (s *InvoiceService) nextInvoiceNumber(tx *gorm.DB) (string, error) {
	datePart := time.Now().Format("200601")
	pattern := fmt.Sprintf("%s-%s-%%", invoicePrefix(), datePart)

	var latest sql.NullString
	err := tx.Model(&models.Invoice{}).Unscoped().
		Where("invoice_number LIKE ?", pattern).
		Select("MAX(invoice_number)").Row().Scan(&latest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	sequence := 1
	if idx := strings.LastIndex(latest.String, "-"); idx >= 0 {
		if n, err := strconv.Atoi(latest.String[idx+1:]); err == nil {
			sequence = n + 1
		}
	}

	return fmt.Sprintf("%s-%s-%04d", invoicePrefix(), datePart, sequence), nil
}

// GetByID loads an invoice with its request.
func (s *InvoiceService) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("Request").Preload("Request.Client").First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invoice", id)
		}
		return nil, err
	}
	return &invoice, nil
}

// GetByRequest returns the invoice derived from a request, if any.
func (s *InvoiceService) GetByRequest(requestID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Where("request_id = ?", requestID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invoice for request", requestID)
		}
		return nil, err
	}
	return &invoice, nil
}

// ListByStatus returns all invoices in one payment status.
func (s *InvoiceService) ListByStatus(status string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.Where("payment_status = ?", status).Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}

// ListOverdue returns unpaid invoices past their due date.
func (s *InvoiceService) ListOverdue() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.Where("payment_status IN ? AND due_date < ?",
		[]string{models.InvoiceStatusUnpaid, models.InvoiceStatusOverdue}, time.Now()).
		Find(&invoices).Error
	return invoices, err
}

// MarkAsPaid stamps the invoice PAID regardless of the outstanding balance.
// Administrative override for out-of-band settlements.
func (s *InvoiceService) MarkAsPaid(id uint) (*models.Invoice, error) {
	invoice, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoice.PaymentStatus = models.InvoiceStatusPaid
	invoice.PaidDate = &now

	if err := s.db.Save(invoice).Error; err != nil {
		return nil, err
	}

	log.WithField("invoiceNumber", invoice.InvoiceNumber).Info("Invoice marked as paid")
	return invoice, nil
}

// SweepOverdue moves unpaid invoices past their due date to OVERDUE and
// notifies the client. Run daily by the scheduler.
func (s *InvoiceService) SweepOverdue() (int, error) {
	var invoices []models.Invoice
	err := s.db.Preload("Request").
		Where("payment_status = ? AND due_date < ?", models.InvoiceStatusUnpaid, time.Now()).
		Find(&invoices).Error
	if err != nil {
		return 0, err
	}

	for i := range invoices {
		invoices[i].PaymentStatus = models.InvoiceStatusOverdue
		if err := s.db.Save(&invoices[i]).Error; err != nil {
			return 0, err
		}

		var clientID uint
		if invoices[i].Request != nil {
			clientID = invoices[i].Request.ClientID
		}
		s.notifier.Notify(EventInvoiceOverdue, clientID, map[string]interface{}{
			"invoiceId":     invoices[i].ID,
			"invoiceNumber": invoices[i].InvoiceNumber,
			"totalAmount":   invoices[i].TotalAmount.StringFixed(2),
		})
		log.WithField("invoiceNumber", invoices[i].InvoiceNumber).Info("Marked invoice as overdue")
	}

	return len(invoices), nil
}

// TotalPaid sums completed postings for an invoice. Refund postings carry
// negative amounts, so the sum is the net amount received.
func TotalPaid(tx *gorm.DB, invoiceID uint) (decimal.Decimal, error) {
	var payments []models.Payment
	err := tx.Where("invoice_id = ? AND status = ?", invoiceID, models.PaymentStatusCompleted).
		Find(&payments).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}
