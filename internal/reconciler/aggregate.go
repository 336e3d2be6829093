package reconciler

import (
	"strings"

	"praenforce/internal/models"
)

const (
	deliveryReturned  = "returned"
	deliveryDelivered = "delivered"
)

// AggregateOfficer computes officerID's workload. Restaurants without an
// officer and follow-ups for other officers' restaurants are never counted.
func AggregateOfficer(officerID string, restaurants []models.RestaurantRecord, followups []models.NoticeFollowupRecord) models.OfficerWorkload {
	return aggregate(strings.TrimSpace(officerID), indexRestaurants(restaurants), latestByRestaurant(followups))
}

// AggregateAll computes one workload per distinct, non-empty officer id in the
// given order.
func AggregateAll(officerIDs []string, restaurants []models.RestaurantRecord, followups []models.NoticeFollowupRecord) []models.OfficerWorkload {
	idx := indexRestaurants(restaurants)
	latest := latestByRestaurant(followups)

	seen := map[string]struct{}{}
	out := make([]models.OfficerWorkload, 0, len(officerIDs))
	for _, id := range officerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, aggregate(id, idx, latest))
	}
	return out
}

// Partition groups restaurants by officer id. Unassigned restaurants are left out.
func Partition(restaurants []models.RestaurantRecord) map[string][]models.RestaurantRecord {
	out := map[string][]models.RestaurantRecord{}
	indexRestaurants(restaurants).each(func(r models.RestaurantRecord) {
		if r.OfficerID == "" {
			return
		}
		out[r.OfficerID] = append(out[r.OfficerID], r)
	})
	return out
}

func aggregate(officerID string, idx restaurantIndex, latest map[string]models.NoticeFollowupRecord) models.OfficerWorkload {
	w := models.OfficerWorkload{
		OfficerID:  officerID,
		ResendList: make([]models.ResendEntry, 0),
		Assigned:   make([]models.RestaurantSummary, 0),
	}
	if officerID == "" {
		return w
	}

	idx.each(func(r models.RestaurantRecord) {
		if r.OfficerID != officerID {
			return
		}
		w.Assigned = append(w.Assigned, r.Summary())

		f, ok := latest[r.ID]
		if !ok {
			return
		}
		w.FollowupCount++

		switch StatusKey(f.DeliveryStatus) {
		case deliveryDelivered:
			w.DeliveredCount++
		case deliveryReturned:
			w.ReturnedCount++
			if HasCorrection(f.CorrectName) || HasCorrection(f.CorrectAddress) {
				w.ResendList = append(w.ResendList, models.ResendEntry{
					RestaurantSummary: r.Summary(),
					DeliveryStatus:    f.DeliveryStatus,
					CorrectName:       f.CorrectName,
					CorrectAddress:    f.CorrectAddress,
				})
			}
		}
	})

	w.AssignedCount = len(w.Assigned)
	w.ResendCount = len(w.ResendList)
	return w
}
