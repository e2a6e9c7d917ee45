package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

// QuoteService produces and decides quotes bound one-to-one to requests.
type QuoteService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewQuoteService(db *gorm.DB, notifier *Notifier) *QuoteService {
	return &QuoteService{db: db, notifier: notifier}
}

// CreateQuoteInput carries the mechanic-supplied fields for a new quote.
type CreateQuoteInput struct {
	RequestID   uint
	MechanicID  uint
	LabourCost  decimal.Decimal
	PartsCost   decimal.Decimal
	TotalAmount *decimal.Decimal // nil means labour + parts
	Notes       string
	ValidUntil  *time.Time // nil means now + QuoteValidity
}

// Create issues the quote for a PENDING_QUOTE request and moves the request
// to QUOTE_SENT in the same transaction.
func (s *QuoteService) Create(input CreateQuoteInput) (*models.ServiceQuote, error) {
	var mechanic models.User
	if err := s.db.First(&mechanic, input.MechanicID).Error; err != nil {
		return nil, NewNotFoundError("mechanic", input.MechanicID)
	}
	if !mechanic.IsMechanic() {
		return nil, NewValidationError("mechanicId", "user is not a mechanic")
	}

	total := input.LabourCost.Add(input.PartsCost)
	if input.TotalAmount != nil {
		total = *input.TotalAmount
	}
	if total.IsNegative() {
		return nil, NewValidationError("totalAmount", "total amount must be non-negative")
	}

	validUntil := time.Now().Add(models.QuoteValidity)
	if input.ValidUntil != nil {
		validUntil = *input.ValidUntil
	}

	var quote models.ServiceQuote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request models.ServiceRequest
		if err := tx.First(&request, input.RequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service request", input.RequestID)
			}
			return err
		}

		var existing models.ServiceQuote
		if err := tx.Where("request_id = ?", request.ID).First(&existing).Error; err == nil {
			return NewConflictError("quote already exists for this service request")
		}

		if request.Status != models.RequestStatusPendingQuote {
			return NewValidationError("requestId", "service request must be in PENDING_QUOTE status to create a quote")
		}

		quote = models.ServiceQuote{
			RequestID:      request.ID,
			MechanicID:     mechanic.ID,
			LabourCost:     input.LabourCost,
			PartsCost:      input.PartsCost,
			TotalAmount:    total,
			Notes:          input.Notes,
			ApprovalStatus: models.ApprovalStatusPending,
			ValidUntil:     validUntil,
		}
		if err := tx.Create(&quote).Error; err != nil {
			return err
		}

		request.Status = models.RequestStatusQuoteSent
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"quoteId": quote.ID, "requestId": quote.RequestID}).
		Info("Created service quote")

	var request models.ServiceRequest
	if err := s.db.First(&request, quote.RequestID).Error; err == nil {
		s.notifier.Notify(EventQuoteCreated, request.ClientID, map[string]interface{}{
			"quoteId":     quote.ID,
			"requestId":   quote.RequestID,
			"totalAmount": quote.TotalAmount.StringFixed(2),
		})
	}

	return &quote, nil
}

// GetByID loads a quote with its request and mechanic.
func (s *QuoteService) GetByID(id uint) (*models.ServiceQuote, error) {
	var quote models.ServiceQuote
	err := s.db.Preload("Request").Preload("Mechanic").First(&quote, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("service quote", id)
		}
		return nil, err
	}
	return &quote, nil
}

// GetByRequest returns the quote bound to a request, if any.
func (s *QuoteService) GetByRequest(requestID uint) (*models.ServiceQuote, error) {
	var quote models.ServiceQuote
	err := s.db.Preload("Mechanic").Where("request_id = ?", requestID).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("service quote for request", requestID)
		}
		return nil, err
	}
	return &quote, nil
}

// ListByMechanic returns all quotes issued by one mechanic.
func (s *QuoteService) ListByMechanic(mechanicID uint) ([]models.ServiceQuote, error) {
	var quotes []models.ServiceQuote
	err := s.db.Preload("Request").
		Where("mechanic_id = ?", mechanicID).Order("created_at DESC").Find(&quotes).Error
	return quotes, err
}

// ListByStatus returns all quotes in one approval status.
func (s *QuoteService) ListByStatus(status string) ([]models.ServiceQuote, error) {
	var quotes []models.ServiceQuote
	err := s.db.Preload("Request").
		Where("approval_status = ?", status).Order("created_at DESC").Find(&quotes).Error
	return quotes, err
}

// Approve accepts a pending quote and moves the request to QUOTE_APPROVED.
// A quote past its validity window is marked EXPIRED and the approval fails.
func (s *QuoteService) Approve(id uint) (*models.ServiceQuote, error) {
	var quote models.ServiceQuote
	if err := s.db.First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("service quote", id)
		}
		return nil, err
	}

	if quote.ApprovalStatus != models.ApprovalStatusPending {
		return nil, NewConflictError("quote is not in pending status")
	}

	if quote.Expired(time.Now()) {
		// The EXPIRED mark must outlive the failed approval, so it is
		// written on its own, not inside a transaction the error would
		// roll back.
		if err := s.db.Model(&models.ServiceQuote{}).
			Where("id = ? AND approval_status = ?", id, models.ApprovalStatusPending).
			Update("approval_status", models.ApprovalStatusExpired).Error; err != nil {
			return nil, err
		}
		return nil, NewExpiredError("quote has expired")
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Status-guarded write: a concurrent decision makes this a no-op
		// instead of a silent overwrite.
		result := tx.Model(&models.ServiceQuote{}).
			Where("id = ? AND approval_status = ?", id, models.ApprovalStatusPending).
			Updates(map[string]interface{}{
				"approval_status": models.ApprovalStatusAccepted,
				"approved_at":     now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewConflictError("quote is not in pending status")
		}

		return tx.Model(&models.ServiceRequest{}).Where("id = ?", quote.RequestID).
			Update("status", models.RequestStatusQuoteApproved).Error
	})
	if err != nil {
		return nil, err
	}

	quote.ApprovalStatus = models.ApprovalStatusAccepted
	quote.ApprovedAt = &now

	log.WithField("quoteId", id).Info("Approved service quote")

	s.notifier.Notify(EventQuoteApproved, quote.MechanicID, map[string]interface{}{
		"quoteId":   quote.ID,
		"requestId": quote.RequestID,
	})

	return &quote, nil
}

// Decline rejects a pending quote and moves the request to QUOTE_DECLINED.
func (s *QuoteService) Decline(id uint) (*models.ServiceQuote, error) {
	var quote models.ServiceQuote
	if err := s.db.First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("service quote", id)
		}
		return nil, err
	}

	if quote.ApprovalStatus != models.ApprovalStatusPending {
		return nil, NewConflictError("quote is not in pending status")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ServiceQuote{}).
			Where("id = ? AND approval_status = ?", id, models.ApprovalStatusPending).
			Update("approval_status", models.ApprovalStatusDeclined)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewConflictError("quote is not in pending status")
		}

		return tx.Model(&models.ServiceRequest{}).Where("id = ?", quote.RequestID).
			Update("status", models.RequestStatusQuoteDeclined).Error
	})
	if err != nil {
		return nil, err
	}

	quote.ApprovalStatus = models.ApprovalStatusDeclined

	log.WithField("quoteId", id).Info("Declined service quote")

	s.notifier.Notify(EventQuoteDeclined, quote.MechanicID, map[string]interface{}{
		"quoteId":   quote.ID,
		"requestId": quote.RequestID,
	})

	return &quote, nil
}

// UpdateQuoteInput carries the editable quote fields.
type UpdateQuoteInput struct {
	LabourCost  *decimal.Decimal
	PartsCost   *decimal.Decimal
	TotalAmount *decimal.Decimal
	Notes       *string
	ValidUntil  *time.Time
}

// Update edits a quote that has not yet been decided.
func (s *QuoteService) Update(id uint, input UpdateQuoteInput) (*models.ServiceQuote, error) {
	var quote models.ServiceQuote
	if err := s.db.First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("service quote", id)
		}
		return nil, err
	}

	if quote.ApprovalStatus != models.ApprovalStatusPending {
		return nil, NewConflictError("cannot update quote that has been approved or declined")
	}

	if input.LabourCost != nil {
		quote.LabourCost = *input.LabourCost
	}
	if input.PartsCost != nil {
		quote.PartsCost = *input.PartsCost
	}
	if input.TotalAmount != nil {
		quote.TotalAmount = *input.TotalAmount
	} else if input.LabourCost != nil || input.PartsCost != nil {
		quote.TotalAmount = quote.LabourCost.Add(quote.PartsCost)
	}
	if input.Notes != nil {
		quote.Notes = *input.Notes
	}
	if input.ValidUntil != nil {
		quote.ValidUntil = *input.ValidUntil
	}

	if quote.TotalAmount.IsNegative() {
		return nil, NewValidationError("totalAmount", "total amount must be non-negative")
	}

	if err := s.db.Save(&quote).Error; err != nil {
		return nil, err
	}

	log.WithField("quoteId", id).Info("Updated service quote")
	return &quote, nil
}

// Delete removes an undecided quote. A request left in QUOTE_SENT drops back
// to PENDING_QUOTE so a fresh quote can be issued.
func (s *QuoteService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var quote models.ServiceQuote
		if err := tx.First(&quote, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service quote", id)
			}
			return err
		}

		if quote.ApprovalStatus == models.ApprovalStatusAccepted {
			return NewConflictError("cannot delete approved quote")
		}

		var request models.ServiceRequest
		if err := tx.First(&request, quote.RequestID).Error; err == nil {
			if request.Status == models.RequestStatusQuoteSent {
				request.Status = models.RequestStatusPendingQuote
				if err := tx.Save(&request).Error; err != nil {
					return err
				}
			}
		}

		// Guarded against a concurrent acceptance between the read and
		// the delete.
		result := tx.Where("approval_status <> ?", models.ApprovalStatusAccepted).Delete(&quote)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewConflictError("cannot delete approved quote")
		}

		log.WithField("quoteId", id).Info("Deleted service quote")
		return nil
	})
}

// SweepExpired marks every pending quote past its validity as EXPIRED.
// Idempotent; run hourly by the scheduler.
func (s *QuoteService) SweepExpired() (int, error) {
	result := s.db.Model(&models.ServiceQuote{}).
		Where("approval_status = ? AND valid_until < ?", models.ApprovalStatusPending, time.Now()).
		Update("approval_status", models.ApprovalStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		log.WithField("count", result.RowsAffected).Info("Marked expired quotes")
	}
	return int(result.RowsAffected), nil
}
