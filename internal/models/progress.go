package models

import (
	"time"

	"gorm.io/gorm"
)

// ProgressPhase constants
const (
	PhaseReceived           = "RECEIVED"
	PhaseDiagnosis          = "DIAGNOSIS"
	PhasePartsOrdered       = "PARTS_ORDERED"
	PhaseRepairInProgress   = "REPAIR_IN_PROGRESS"
	PhaseQualityCheck       = "QUALITY_CHECK"
	PhaseCleaning           = "CLEANING"
	PhaseReadyForCollection = "READY_FOR_COLLECTION"
)

var progressPhases = map[string]string{
	PhaseReceived:           "Vehicle Received",
	PhaseDiagnosis:          "Diagnosis in Progress",
	PhasePartsOrdered:       "Parts Ordered",
	PhaseRepairInProgress:   "Repair in Progress",
	PhaseQualityCheck:       "Quality Check",
	PhaseCleaning:           "Cleaning & Finishing",
	PhaseReadyForCollection: "Ready for Collection",
}

// ValidProgressPhase reports whether phase is one of the known workshop phases.
func ValidProgressPhase(phase string) bool {
	_, ok := progressPhases[phase]
	return ok
}

// ProgressPhaseLabel returns the human readable label for a phase.
func ProgressPhaseLabel(phase string) string {
	return progressPhases[phase]
}

// ServiceProgress is a workshop status entry recorded against an in-progress
// service request.
type ServiceProgress struct {
	gorm.Model
	RequestID           uint            `json:"requestId" gorm:"not null"`
	UpdatedByID         uint            `json:"updatedById" gorm:"not null"`
	Phase               string          `json:"phase" gorm:"not null"`
	Comment             string          `json:"comment"`
	PhotoURL            string          `json:"photoUrl,omitempty"`
	EstimatedCompletion *time.Time      `json:"estimatedCompletion,omitempty"`
	Request             *ServiceRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	UpdatedBy           *User           `json:"updatedBy,omitempty" gorm:"foreignKey:UpdatedByID"`
}

// TableName specifies the table name
func (ServiceProgress) TableName() string {
	return "service_progress"
}
