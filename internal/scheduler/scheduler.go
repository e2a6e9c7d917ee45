package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/models"
	"github.com/timatix/autoworks-backend/internal/services"
	"github.com/timatix/autoworks-backend/pkg/utils"
	"gorm.io/gorm"
)

// stalePaymentAge is how long a payment may sit in PENDING before the
// cleanup job cancels it.
const stalePaymentAge = 24 * time.Hour

// Scheduler runs the periodic maintenance sweeps over the workflow core.
// Jobs share one timer pool but are individually fault-isolated: a panic or
// error in one job is logged and never stops the others.
type Scheduler struct {
	cron     *cron.Cron
	db       *gorm.DB
	quotes   *services.QuoteService
	invoices *services.InvoiceService
	payments *services.PaymentService
	metrics  *services.MetricsService
	notifier *services.Notifier
}

func New(db *gorm.DB, quotes *services.QuoteService, invoices *services.InvoiceService, payments *services.PaymentService, metrics *services.MetricsService, notifier *services.Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		db:       db,
		quotes:   quotes,
		invoices: invoices,
		payments: payments,
		metrics:  metrics,
		notifier: notifier,
	}
}

// Start registers every job and launches the cron loop in its own goroutine.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{"0 * * * *", "expire-quotes", s.expireQuotes},
		{"0 2 * * *", "overdue-invoices", s.markOverdueInvoices},
		{"0 */6 * * *", "stale-payments", s.cleanupStalePayments},
		{"0 18 * * *", "appointment-reminders", s.sendAppointmentReminders},
		{"0 23 * * *", "daily-summary", s.logDailySummary},
		{"0 1 * * 0", "weekly-maintenance", s.weeklyMaintenance},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.runIsolated(job.name, job.run) }); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Info("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}

// runIsolated keeps one job's failure from taking the process or the other
// jobs down.
func (s *Scheduler) runIsolated(name string, run func()) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("job", name).Errorf("Scheduled job panicked: %v", r)
		}
	}()

	log.WithField("job", name).Info("Running scheduled task")
	run()
}

func (s *Scheduler) expireQuotes() {
	if _, err := s.quotes.SweepExpired(); err != nil {
		log.Errorf("Error in expire-quotes scheduled task: %v", err)
	}
}

func (s *Scheduler) markOverdueInvoices() {
	count, err := s.invoices.SweepOverdue()
	if err != nil {
		log.Errorf("Error in overdue-invoices scheduled task: %v", err)
		return
	}

	if count == 0 {
		return
	}

	// Email the affected clients; delivery failures are logged per invoice.
	overdue, err := s.invoices.ListByStatus(models.InvoiceStatusOverdue)
	if err != nil {
		log.Errorf("Failed to load overdue invoices for mailing: %v", err)
		return
	}
	for _, invoice := range overdue {
		var request models.ServiceRequest
		if err := s.db.Preload("Client").First(&request, invoice.RequestID).Error; err != nil {
			continue
		}
		if request.Client == nil {
			continue
		}
		if err := utils.SendOverdueInvoiceEmail(request.Client.Email, request.Client.Name,
			invoice.InvoiceNumber, invoice.TotalAmount.StringFixed(2)); err != nil {
			log.Warnf("Failed to send overdue email for invoice %s: %v", invoice.InvoiceNumber, err)
		}
	}
}

func (s *Scheduler) cleanupStalePayments() {
	if _, err := s.payments.SweepStale(stalePaymentAge); err != nil {
		log.Errorf("Error in stale-payments scheduled task: %v", err)
	}
}

func (s *Scheduler) sendAppointmentReminders() {
	tomorrow := services.StartOfDay(time.Now().AddDate(0, 0, 1))

	var requests []models.ServiceRequest
	err := s.db.Preload("Client").Preload("Vehicle").Preload("Service").
		Where("status = ? AND preferred_date = ?", models.RequestStatusBookingConfirmed, tomorrow).
		Find(&requests).Error
	if err != nil {
		log.Errorf("Error in appointment-reminders scheduled task: %v", err)
		return
	}

	for _, request := range requests {
		s.notifier.Notify(services.EventAppointmentReminder, request.ClientID, map[string]interface{}{
			"requestId": request.ID,
			"date":      request.PreferredDate.Format("2006-01-02"),
			"time":      request.PreferredTime,
		})

		if request.Client != nil && request.Vehicle != nil && request.Service != nil {
			if err := utils.SendAppointmentReminderEmail(request.Client.Email, request.Client.Name,
				request.Service.Name, request.Vehicle.Make, request.Vehicle.VehicleModel,
				request.PreferredTime); err != nil {
				log.Warnf("Failed to send reminder email for request %d: %v", request.ID, err)
			}
		}
	}

	log.WithField("count", len(requests)).Info("Sent appointment reminders")
}

func (s *Scheduler) logDailySummary() {
	summary, err := s.metrics.Summary()
	if err != nil {
		log.Errorf("Error in daily-summary scheduled task: %v", err)
		return
	}

	log.WithFields(log.Fields{
		"requests":        summary.RequestsToday,
		"payments":        summary.PaymentsToday,
		"pendingQuotes":   summary.PendingQuotes,
		"overdueInvoices": summary.OverdueInvoices,
		"openSlots":       summary.OpenSlots,
	}).Info("Daily summary")
}

func (s *Scheduler) weeklyMaintenance() {
	// Archive completed requests older than a year. Records stay queryable
	// through the soft-delete scope.
	cutoff := time.Now().AddDate(-1, 0, 0)
	result := s.db.Where("status = ? AND updated_at < ?", models.RequestStatusCompleted, cutoff).
		Delete(&models.ServiceRequest{})
	if result.Error != nil {
		log.Errorf("Error in weekly-maintenance scheduled task: %v", result.Error)
		return
	}

	log.WithField("archivedRequests", result.RowsAffected).Info("Weekly maintenance completed")
}
