package services

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

// RequestService owns the service-request lifecycle state machine.
type RequestService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewRequestService(db *gorm.DB, notifier *Notifier) *RequestService {
	return &RequestService{db: db, notifier: notifier}
}

// CreateRequestInput carries the client-supplied fields for a new request.
type CreateRequestInput struct {
	ClientID      uint
	VehicleID     uint
	ServiceID     uint
	PreferredDate time.Time
	PreferredTime string
	Notes         string
	PhotoURL      string
}

// Create opens a new request in PENDING_QUOTE. The vehicle must belong to
// the client and the preferred date must not be in the past.
func (s *RequestService) Create(input CreateRequestInput) (*models.ServiceRequest, error) {
	var client models.User
	if err := s.db.First(&client, input.ClientID).Error; err != nil {
		return nil, NewNotFoundError("client", input.ClientID)
	}

	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, input.VehicleID).Error; err != nil {
		return nil, NewNotFoundError("vehicle", input.VehicleID)
	}

	var service models.ServiceCatalog
	if err := s.db.First(&service, input.ServiceID).Error; err != nil {
		return nil, NewNotFoundError("service", input.ServiceID)
	}

	if vehicle.OwnerID != client.ID {
		return nil, NewValidationError("vehicleId", "vehicle does not belong to the specified client")
	}

	if input.PreferredDate.IsZero() {
		return nil, NewValidationError("preferredDate", "preferred date is required")
	}

	today := StartOfDay(time.Now())
	if input.PreferredDate.Before(today) {
		return nil, NewValidationError("preferredDate", "preferred date cannot be in the past")
	}

	request := models.ServiceRequest{
		ClientID:      input.ClientID,
		VehicleID:     input.VehicleID,
		ServiceID:     input.ServiceID,
		PreferredDate: input.PreferredDate,
		PreferredTime: input.PreferredTime,
		Notes:         input.Notes,
		PhotoURL:      input.PhotoURL,
		Status:        models.RequestStatusPendingQuote,
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"requestId": request.ID, "clientId": client.ID}).
		Info("Created service request")

	s.notifier.Notify(EventRequestCreated, 0, map[string]interface{}{
		"requestId": request.ID,
		"serviceId": request.ServiceID,
		"date":      request.PreferredDate.Format("2006-01-02"),
	})

	return &request, nil
}

// GetByID loads a request with its references.
func (s *RequestService) GetByID(id uint) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := s.db.Preload("Client").Preload("Vehicle").Preload("Service").
		Preload("AssignedMechanic").Preload("Quote").First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("service request", id)
		}
		return nil, err
	}
	return &request, nil
}

// ListByClient returns all requests opened by one client.
func (s *RequestService) ListByClient(clientID uint) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := s.db.Preload("Vehicle").Preload("Service").Preload("Quote").
		Where("client_id = ?", clientID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// ListByMechanic returns all requests assigned to one mechanic.
func (s *RequestService) ListByMechanic(mechanicID uint) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := s.db.Preload("Vehicle").Preload("Service").Preload("Quote").
		Where("assigned_mechanic_id = ?", mechanicID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// ListByStatus returns all requests currently in one status.
func (s *RequestService) ListByStatus(status string) ([]models.ServiceRequest, error) {
	if !models.ValidRequestStatus(status) {
		return nil, NewValidationError("status", "unknown request status: "+status)
	}
	var requests []models.ServiceRequest
	err := s.db.Preload("Vehicle").Preload("Service").
		Where("status = ?", status).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// UpdateDetails changes the schedulable fields of a request. Status changes
// go through UpdateStatus or the quote engine.
func (s *RequestService) UpdateDetails(id uint, preferredDate time.Time, preferredTime, notes string) (*models.ServiceRequest, error) {
	request, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !preferredDate.IsZero() {
		request.PreferredDate = preferredDate
	}
	if preferredTime != "" {
		request.PreferredTime = preferredTime
	}
	if notes != "" {
		request.Notes = notes
	}

	if err := s.db.Save(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// AssignMechanic sets the assigned mechanic without changing status.
func (s *RequestService) AssignMechanic(requestID, mechanicID uint) (*models.ServiceRequest, error) {
	request, err := s.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	var mechanic models.User
	if err := s.db.First(&mechanic, mechanicID).Error; err != nil {
		return nil, NewNotFoundError("mechanic", mechanicID)
	}

	if !mechanic.IsMechanic() {
		return nil, NewValidationError("mechanicId", "user is not a mechanic")
	}

	request.AssignedMechanicID = &mechanic.ID
	if err := s.db.Save(request).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"requestId": requestID, "mechanicId": mechanicID}).
		Info("Assigned mechanic to service request")

	s.notifier.Notify(EventMechanicAssigned, mechanic.ID, map[string]interface{}{
		"requestId":  request.ID,
		"mechanicId": mechanic.ID,
	})

	return request, nil
}

// UpdateStatus moves a request along the lifecycle. Only edges in the
// transition table are allowed; there is no admin escape hatch around it.
func (s *RequestService) UpdateStatus(requestID uint, newStatus string) (*models.ServiceRequest, error) {
	if !models.ValidRequestStatus(newStatus) {
		return nil, NewValidationError("status", "unknown request status: "+newStatus)
	}

	var request models.ServiceRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service request", requestID)
			}
			return err
		}

		if !models.CanTransitionRequest(request.Status, newStatus) {
			return NewConflictError("illegal status transition from " + request.Status + " to " + newStatus)
		}

		request.Status = newStatus
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"requestId": requestID, "status": newStatus}).
		Info("Updated service request status")

	s.notifier.Notify(EventStatusUpdated, request.ClientID, map[string]interface{}{
		"requestId": request.ID,
		"status":    request.Status,
	})

	return &request, nil
}

// SetPhotoURL records the uploaded condition photo on the request.
func (s *RequestService) SetPhotoURL(id uint, url string) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	if err := s.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("service request", id)
		}
		return nil, err
	}

	request.PhotoURL = url
	if err := s.db.Save(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

// Delete removes a request that has not yet been confirmed or worked on.
func (s *RequestService) Delete(id uint) error {
	var request models.ServiceRequest
	if err := s.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("service request", id)
		}
		return err
	}

	if !request.Deletable() {
		return NewConflictError("cannot delete service request that is confirmed or in progress")
	}

	log.WithField("requestId", id).Info("Deleting service request")
	return s.db.Delete(&request).Error
}
