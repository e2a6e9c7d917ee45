package models

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus constants
const (
	RequestStatusPendingQuote     = "PENDING_QUOTE"
	RequestStatusQuoteSent        = "QUOTE_SENT"
	RequestStatusQuoteApproved    = "QUOTE_APPROVED"
	RequestStatusQuoteDeclined    = "QUOTE_DECLINED"
	RequestStatusBookingConfirmed = "BOOKING_CONFIRMED"
	RequestStatusInProgress       = "IN_PROGRESS"
	RequestStatusCompleted        = "COMPLETED"
	RequestStatusCancelled        = "CANCELLED"
)

// requestTransitions is the set of legal status edges. Quote-driven moves
// (PENDING_QUOTE -> QUOTE_SENT -> QUOTE_APPROVED/QUOTE_DECLINED) happen
// through the quote engine; everything else goes through UpdateStatus and is
// checked against this table.
var requestTransitions = map[string][]string{
	RequestStatusPendingQuote:     {RequestStatusQuoteSent, RequestStatusCancelled},
	RequestStatusQuoteSent:        {RequestStatusQuoteApproved, RequestStatusQuoteDeclined, RequestStatusPendingQuote, RequestStatusCancelled},
	RequestStatusQuoteApproved:    {RequestStatusBookingConfirmed, RequestStatusCancelled},
	RequestStatusQuoteDeclined:    {RequestStatusPendingQuote, RequestStatusCancelled},
	RequestStatusBookingConfirmed: {RequestStatusInProgress, RequestStatusCancelled},
	RequestStatusInProgress:       {RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusCompleted:        {},
	RequestStatusCancelled:        {},
}

// CanTransitionRequest reports whether moving a request from one status to
// another is a legal edge.
func CanTransitionRequest(from, to string) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidRequestStatus reports whether s is a known request status.
func ValidRequestStatus(s string) bool {
	_, ok := requestTransitions[s]
	return ok
}

// ServiceRequest is a client's request to have a service performed on one of
// their vehicles. It drives the quote -> invoice -> payment workflow.
type ServiceRequest struct {
	gorm.Model
	ClientID           uint            `json:"clientId" gorm:"not null"`
	VehicleID          uint            `json:"vehicleId" gorm:"not null"`
	ServiceID          uint            `json:"serviceId" gorm:"not null"`
	AssignedMechanicID *uint           `json:"assignedMechanicId,omitempty"`
	PreferredDate      time.Time       `json:"preferredDate" gorm:"type:date;not null"`
	PreferredTime      string          `json:"preferredTime"`
	Notes              string          `json:"notes"`
	PhotoURL           string          `json:"photoUrl,omitempty"`
	Status             string          `json:"status" gorm:"not null;default:'PENDING_QUOTE'"`
	Client             *User           `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Vehicle            *Vehicle        `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	Service            *ServiceCatalog `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	AssignedMechanic   *User           `json:"assignedMechanic,omitempty" gorm:"foreignKey:AssignedMechanicID"`
	Quote              *ServiceQuote   `json:"quote,omitempty" gorm:"foreignKey:RequestID"`
}

// TableName specifies the table name
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// Deletable reports whether the request may still be removed. Confirmed and
// in-flight work must be cancelled through the workflow instead.
func (r *ServiceRequest) Deletable() bool {
	switch r.Status {
	case RequestStatusBookingConfirmed, RequestStatusInProgress, RequestStatusCompleted:
		return false
	}
	return true
}
