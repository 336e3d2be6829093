package reconciler

import (
	"sort"
	"strings"

	"praenforce/internal/models"
)

// idWidth matches the zero-fill used when listing restaurants by id
const idWidth = 10

// compareIDs orders restaurant ids so that "9" sorts before "10"
func compareIDs(a, b string) int {
	pa, pb := padID(a), padID(b)
	if c := strings.Compare(pa, pb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func padID(id string) string {
	if len(id) >= idWidth {
		return id
	}
	return strings.Repeat("0", idWidth-len(id)) + id
}

// newer reports whether a supersedes b. Timestamped rows beat untimestamped
// ones; otherwise the later timestamp wins, then the later position.
func newer(a, b models.NoticeFollowupRecord) bool {
	switch {
	case a.RecordedAt != nil && b.RecordedAt == nil:
		return true
	case a.RecordedAt == nil && b.RecordedAt != nil:
		return false
	case a.RecordedAt != nil && b.RecordedAt != nil && !a.RecordedAt.Equal(*b.RecordedAt):
		return a.RecordedAt.After(*b.RecordedAt)
	}
	return a.Position > b.Position
}

// LatestFollowups collapses follow-ups to the most recent row per restaurant,
// ordered by restaurant id.
func LatestFollowups(followups []models.NoticeFollowupRecord) []models.NoticeFollowupRecord {
	latest := latestByRestaurant(followups)
	out := make([]models.NoticeFollowupRecord, 0, len(latest))
	for _, f := range latest {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return compareIDs(out[i].RestaurantID, out[j].RestaurantID) < 0
	})
	return out
}

func latestByRestaurant(followups []models.NoticeFollowupRecord) map[string]models.NoticeFollowupRecord {
	latest := make(map[string]models.NoticeFollowupRecord, len(followups))
	for _, f := range followups {
		if f.RestaurantID == "" {
			continue
		}
		if cur, ok := latest[f.RestaurantID]; !ok || newer(f, cur) {
			latest[f.RestaurantID] = f
		}
	}
	return latest
}

// restaurantIndex keeps the first record per id, in id order
type restaurantIndex struct {
	byID  map[string]models.RestaurantRecord
	order []string
}

func indexRestaurants(restaurants []models.RestaurantRecord) restaurantIndex {
	idx := restaurantIndex{byID: make(map[string]models.RestaurantRecord, len(restaurants))}
	for _, r := range restaurants {
		if r.ID == "" {
			continue
		}
		if _, ok := idx.byID[r.ID]; ok {
			continue
		}
		idx.byID[r.ID] = r
		idx.order = append(idx.order, r.ID)
	}
	sort.Slice(idx.order, func(i, j int) bool {
		return compareIDs(idx.order[i], idx.order[j]) < 0
	})
	return idx
}

func (idx restaurantIndex) each(fn func(models.RestaurantRecord)) {
	for _, id := range idx.order {
		fn(idx.byID[id])
	}
}
