package reconciler

import (
	"praenforce/internal/models"
)

const complianceRegistered = "registered"

// SummarizeCompliance splits restaurants into registered, unregistered and
// filers. An empty officerID summarizes every restaurant.
func SummarizeCompliance(restaurants []models.RestaurantRecord, officerID string) models.ComplianceSummary {
	s := models.ComplianceSummary{
		OfficerID:    officerID,
		Registered:   make([]models.RestaurantSummary, 0),
		Unregistered: make([]models.RestaurantSummary, 0),
		Filers:       make([]models.RestaurantSummary, 0),
	}

	indexRestaurants(restaurants).each(func(r models.RestaurantRecord) {
		if officerID != "" && r.OfficerID != officerID {
			return
		}
		if StatusKey(r.ComplianceStatus) == complianceRegistered {
			s.Registered = append(s.Registered, r.Summary())
		} else {
			s.Unregistered = append(s.Unregistered, r.Summary())
		}
		if NormalizeIdentifier(r.NTN) != "" {
			s.Filers = append(s.Filers, r.Summary())
		}
	})
	return s
}
