package models

import (
	"time"

	"github.com/google/uuid"
)

// Skip reason categories offered to officers
const (
	SkipReasonNotLiable           = "Not Liable – Turnover < PKR 6M"
	SkipReasonNotRestaurant       = "Not a Restaurant – Retail or Non-Food"
	SkipReasonAlreadyRegistered   = "Already Registered with PRA"
	SkipReasonDuplicate           = "Duplicate Entry / Already Covered"
	SkipReasonClosed              = "Closed / Inactive Business"
	SkipReasonOutsideJurisdiction = "Outside PRA Jurisdiction"
)

// SkipReasons is the closed set accepted on submission, in display order
var SkipReasons = []string{
	SkipReasonNotLiable,
	SkipReasonNotRestaurant,
	SkipReasonAlreadyRegistered,
	SkipReasonDuplicate,
	SkipReasonClosed,
	SkipReasonOutsideJurisdiction,
}

// IsSkipReason reports whether reason is one of SkipReasons
func IsSkipReason(reason string) bool {
	for _, r := range SkipReasons {
		if r == reason {
			return true
		}
	}
	return false
}

type SkipReasonRecord struct {
	ID           uuid.UUID `json:"id" db:"id"`
	RestaurantID string    `json:"restaurant_id" db:"restaurant_id"`
	OfficerEmail string    `json:"officer_email" db:"officer_email"`
	Reason       string    `json:"reason" db:"reason"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}

// SkipReasonEntry is an active skip reason joined with restaurant display fields
type SkipReasonEntry struct {
	RestaurantSummary
	OfficerEmail string    `json:"officer_email"`
	Reason       string    `json:"reason"`
	Timestamp    time.Time `json:"timestamp"`
}
