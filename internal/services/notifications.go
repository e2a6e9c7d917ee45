package services

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Notification event names published on the booking event channel and pushed
// over WebSocket.
const (
	EventRequestCreated      = "request_created"
	EventMechanicAssigned    = "mechanic_assigned"
	EventStatusUpdated       = "status_updated"
	EventQuoteCreated        = "quote_created"
	EventQuoteApproved       = "quote_approved"
	EventQuoteDeclined       = "quote_declined"
	EventInvoiceGenerated    = "invoice_generated"
	EventInvoiceOverdue      = "invoice_overdue"
	EventPaymentReceived     = "payment_received"
	EventPaymentRefunded     = "payment_refunded"
	EventAppointmentReminder = "appointment_reminder"
)

// Notifier fans workflow events out to the log, the Redis event channel and
// the WebSocket hub. Delivery is strictly fire-and-forget: a failing sink is
// logged and never surfaces to the caller.
type Notifier struct {
	Hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{Hub: hub}
}

// Notify publishes an event to every sink. userID 0 skips the WebSocket push.
func (n *Notifier) Notify(event string, userID uint, payload map[string]interface{}) {
	if n == nil {
		return
	}

	log.WithFields(log.Fields{"event": event, "userId": userID}).Info("notification")

	if err := PublishBookingEvent(context.Background(), event, payload); err != nil {
		log.Warnf("Failed to publish %s event: %v", event, err)
	}

	if n.Hub != nil && userID != 0 {
		n.Hub.SendToUser(userID, event, payload)
	}
}
