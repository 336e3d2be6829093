package reconciler

import (
	"sort"
	"strings"

	"praenforce/internal/models"
)

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ActiveSkipReason returns the first submission for the (restaurant, officer)
// pair, or nil. Later duplicates are ignored.
func ActiveSkipReason(skips []models.SkipReasonRecord, restaurantID, email string) *models.SkipReasonRecord {
	restaurantID = NormalizeIdentifier(restaurantID)
	var active *models.SkipReasonRecord
	for i := range skips {
		s := skips[i]
		if s.RestaurantID != restaurantID || !sameEmail(s.OfficerEmail, email) {
			continue
		}
		if active == nil || s.Timestamp.Before(active.Timestamp) {
			active = &s
		}
	}
	return active
}

// SkipReasonsForOfficer lists the officer's active skip reasons joined with
// restaurant display fields, ordered by restaurant id. Reasons for unknown
// restaurants are kept with empty display fields.
func SkipReasonsForOfficer(skips []models.SkipReasonRecord, restaurants []models.RestaurantRecord, email string) []models.SkipReasonEntry {
	idx := indexRestaurants(restaurants)

	active := map[string]models.SkipReasonRecord{}
	for _, s := range skips {
		if !sameEmail(s.OfficerEmail, email) {
			continue
		}
		if cur, ok := active[s.RestaurantID]; !ok || s.Timestamp.Before(cur.Timestamp) {
			active[s.RestaurantID] = s
		}
	}

	out := make([]models.SkipReasonEntry, 0, len(active))
	for id, s := range active {
		summary := models.RestaurantSummary{ID: id}
		if r, ok := idx.byID[id]; ok {
			summary = r.Summary()
		}
		out = append(out, models.SkipReasonEntry{
			RestaurantSummary: summary,
			OfficerEmail:      s.OfficerEmail,
			Reason:            s.Reason,
			Timestamp:         s.Timestamp,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return compareIDs(out[i].ID, out[j].ID) < 0
	})
	return out
}
