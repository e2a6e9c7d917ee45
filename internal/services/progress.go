package services

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

// ProgressService records workshop phase updates against in-flight requests.
type ProgressService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewProgressService(db *gorm.DB, notifier *Notifier) *ProgressService {
	return &ProgressService{db: db, notifier: notifier}
}

// Record appends a progress entry. The request must be confirmed or already
// in progress; the first entry moves a confirmed booking to IN_PROGRESS.
func (s *ProgressService) Record(requestID, updatedByID uint, phase, comment, photoURL string, estimatedCompletion *time.Time) (*models.ServiceProgress, error) {
	if !models.ValidProgressPhase(phase) {
		return nil, NewValidationError("phase", "unknown progress phase: "+phase)
	}

	var updatedBy models.User
	if err := s.db.First(&updatedBy, updatedByID).Error; err != nil {
		return nil, NewNotFoundError("user", updatedByID)
	}
	if !updatedBy.IsMechanic() {
		return nil, NewValidationError("updatedById", "only mechanics can record progress")
	}

	var entry models.ServiceProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request models.ServiceRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			return NewNotFoundError("service request", requestID)
		}

		switch request.Status {
		case models.RequestStatusBookingConfirmed:
			request.Status = models.RequestStatusInProgress
			if err := tx.Save(&request).Error; err != nil {
				return err
			}
		case models.RequestStatusInProgress:
		default:
			return NewConflictError("can only record progress for confirmed or in-progress requests")
		}

		entry = models.ServiceProgress{
			RequestID:           requestID,
			UpdatedByID:         updatedByID,
			Phase:               phase,
			Comment:             comment,
			PhotoURL:            photoURL,
			EstimatedCompletion: estimatedCompletion,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"requestId": requestID, "phase": phase}).Info("Recorded service progress")

	var request models.ServiceRequest
	if err := s.db.First(&request, requestID).Error; err == nil {
		s.notifier.Notify(EventStatusUpdated, request.ClientID, map[string]interface{}{
			"requestId": requestID,
			"phase":     phase,
			"label":     models.ProgressPhaseLabel(phase),
		})
	}

	return &entry, nil
}

// History returns the progress trail for one request, oldest first.
func (s *ProgressService) History(requestID uint) ([]models.ServiceProgress, error) {
	var entries []models.ServiceProgress
	err := s.db.Preload("UpdatedBy").
		Where("request_id = ?", requestID).Order("created_at, id").Find(&entries).Error
	return entries, err
}
