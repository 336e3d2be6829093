package models

import (
	"time"

	"github.com/google/uuid"
)

// TableComplianceUpdates holds the officers' weekly compliance visits
const TableComplianceUpdates = "officer_compliance_updates"

// Formality statuses an officer can observe during a visit
const (
	FormalityUnregistered        = "Unregistered (No record with PRA)"
	FormalityRegisteredNotFiling = "Registered but Not Filing"
	FormalityRegisteredAndFiling = "Registered & Filing"
)

const (
	StatusTodayOpen   = "Open"
	StatusTodayClosed = "Closed"
)

var (
	FormalityStatuses = []string{FormalityUnregistered, FormalityRegisteredNotFiling, FormalityRegisteredAndFiling}
	// ComplianceStatuses apply only to restaurants that are registered and filing
	ComplianceStatuses = []string{"Active Filer", "Late Filer", "Filing with Errors", "Other (Specify)"}
	InterviewMethods   = []string{"Call", "In-Person", "Other (Specify)"}
	StatusesToday      = []string{StatusTodayOpen, StatusTodayClosed}
	// ClosureReasons apply only to restaurants found closed
	ClosureReasons = []string{"Temporary Closure", "Permanent Closure", "Relocated", "Unknown"}
)

// OneOf reports whether v is in choices
func OneOf(v string, choices []string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}

// ComplianceUpdateRecord is one officer visit to a restaurant
type ComplianceUpdateRecord struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	RestaurantID     string     `json:"restaurant_id" db:"restaurant_id"`
	OfficerEmail     string     `json:"officer_email" db:"officer_email"`
	OfficerID        string     `json:"officer_id" db:"officer_id"`
	InterviewDate    time.Time  `json:"interview_date" db:"interview_date"`
	InterviewMethod  string     `json:"interview_method" db:"interview_method"`
	FormalityStatus  string     `json:"formality_status" db:"formality_status"`
	ComplianceStatus string     `json:"compliance_status,omitempty" db:"compliance_status"`
	StatusToday      string     `json:"status_today" db:"status_today"`
	ClosureReason    string     `json:"closure_reason,omitempty" db:"closure_reason"`
	FollowupRequired bool       `json:"followup_required" db:"followup_required"`
	FollowupDate     *time.Time `json:"followup_date,omitempty" db:"followup_date"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// ComplianceUpdateInput is the officer's visit form. Dates are YYYY-MM-DD.
type ComplianceUpdateInput struct {
	InterviewDate    string `json:"interview_date"`
	InterviewMethod  string `json:"interview_method"`
	FormalityStatus  string `json:"formality_status"`
	ComplianceStatus string `json:"compliance_status"`
	StatusToday      string `json:"status_today"`
	ClosureReason    string `json:"closure_reason"`
	FollowupRequired bool   `json:"followup_required"`
	FollowupDate     string `json:"followup_date"`
}
