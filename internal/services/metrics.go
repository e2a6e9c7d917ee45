package services

import (
	"time"

	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

// MetricsSummary is the read-only snapshot logged by the daily summary job
// and exposed to admin reporting.
type MetricsSummary struct {
	RequestsToday   int64 `json:"requestsToday"`
	PaymentsToday   int64 `json:"paymentsToday"`
	PendingQuotes   int64 `json:"pendingQuotes"`
	OverdueInvoices int64 `json:"overdueInvoices"`
	OpenSlots       int64 `json:"openSlots"`
}

// MetricsService reads aggregate counts without mutating core state.
type MetricsService struct {
	db *gorm.DB
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

func (s *MetricsService) Summary() (*MetricsSummary, error) {
	today := StartOfDay(time.Now())
	summary := &MetricsSummary{}

	if err := s.db.Model(&models.ServiceRequest{}).
		Where("created_at >= ?", today).Count(&summary.RequestsToday).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Payment{}).
		Where("status = ? AND processed_at >= ?", models.PaymentStatusCompleted, today).
		Count(&summary.PaymentsToday).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.ServiceQuote{}).
		Where("approval_status = ?", models.ApprovalStatusPending).
		Count(&summary.PendingQuotes).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Invoice{}).
		Where("payment_status IN ? AND due_date < ?",
			[]string{models.InvoiceStatusUnpaid, models.InvoiceStatusOverdue}, time.Now()).
		Count(&summary.OverdueInvoices).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.BookingSlot{}).
		Where("is_available = ? AND date >= ?", true, today).
		Count(&summary.OpenSlots).Error; err != nil {
		return nil, err
	}

	return summary, nil
}
