package services

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

// CatalogService manages the service offerings administrators expose to
// clients.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) Create(entry *models.ServiceCatalog) (*models.ServiceCatalog, error) {
	if entry.Name == "" {
		return nil, NewValidationError("name", "service name is required")
	}
	if entry.BasePrice.IsNegative() {
		return nil, NewValidationError("basePrice", "base price must be non-negative")
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}

	log.WithField("name", entry.Name).Info("Created catalog entry")
	return entry, nil
}

func (s *CatalogService) GetByID(id uint) (*models.ServiceCatalog, error) {
	var entry models.ServiceCatalog
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("catalog entry", id)
		}
		return nil, err
	}
	return &entry, nil
}

// ListActive returns the offerings currently visible to clients.
func (s *CatalogService) ListActive() ([]models.ServiceCatalog, error) {
	var entries []models.ServiceCatalog
	err := s.db.Where("is_active = ?", true).Order("name").Find(&entries).Error
	return entries, err
}

func (s *CatalogService) ListAll() ([]models.ServiceCatalog, error) {
	var entries []models.ServiceCatalog
	err := s.db.Order("name").Find(&entries).Error
	return entries, err
}

func (s *CatalogService) Update(id uint, details *models.ServiceCatalog) (*models.ServiceCatalog, error) {
	entry, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if details.Name != "" {
		entry.Name = details.Name
	}
	if details.Description != "" {
		entry.Description = details.Description
	}
	if !details.BasePrice.IsZero() {
		if details.BasePrice.IsNegative() {
			return nil, NewValidationError("basePrice", "base price must be non-negative")
		}
		entry.BasePrice = details.BasePrice
	}
	if details.EstimatedDurationMinutes > 0 {
		entry.EstimatedDurationMinutes = details.EstimatedDurationMinutes
	}
	entry.IsActive = details.IsActive

	if err := s.db.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Deactivate hides an offering without deleting history referencing it.
func (s *CatalogService) Deactivate(id uint) error {
	entry, err := s.GetByID(id)
	if err != nil {
		return err
	}

	entry.IsActive = false
	return s.db.Save(entry).Error
}

func (s *CatalogService) Delete(id uint) error {
	entry, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.ServiceRequest{}).
		Where("service_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewConflictError("cannot delete catalog entry with existing service requests")
	}

	return s.db.Delete(entry).Error
}
