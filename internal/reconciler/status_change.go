package reconciler

import (
	"sort"

	"praenforce/internal/models"
)

// StatusLabels maps status keys to display labels
type StatusLabels map[string]string

// DefaultStatusLabels covers the formality statuses recorded by field staff
func DefaultStatusLabels() StatusLabels {
	return StatusLabels{
		"filed":                             "Started filing",
		"registered & filing":               "Started filing",
		"registered":                        "Registered",
		"registered but not filing":         "Registered, not filing",
		"unregistered":                      "Unregistered",
		"unregistered (no record with pra)": "Unregistered",
	}
}

// Merge returns a copy of l with overrides applied. Override keys are
// normalized with StatusKey.
func (l StatusLabels) Merge(overrides map[string]string) StatusLabels {
	out := make(StatusLabels, len(l)+len(overrides))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range overrides {
		if key := StatusKey(k); key != "" {
			out[key] = v
		}
	}
	return out
}

// Label returns the label for key, falling back to the original status text
func (l StatusLabels) Label(key, original string) string {
	if label, ok := l[key]; ok {
		return label
	}
	return original
}

// DetectStatusChanges compares each restaurant's recorded compliance status to
// the latest observed formality status. A missing observation is never a change.
func DetectStatusChanges(restaurants []models.RestaurantRecord, followups []models.NoticeFollowupRecord, labels StatusLabels) models.StatusChangeReport {
	report := models.StatusChangeReport{Groups: make([]models.StatusGroup, 0)}
	if len(restaurants) == 0 || len(followups) == 0 {
		return report
	}

	latest := latestByRestaurant(followups)
	groups := map[string]*models.StatusGroup{}

	indexRestaurants(restaurants).each(func(r models.RestaurantRecord) {
		f, ok := latest[r.ID]
		if !ok {
			return
		}
		observed := StatusKey(f.LatestFormalityStatus)
		if observed == "" || observed == StatusKey(r.ComplianceStatus) {
			return
		}

		g, ok := groups[observed]
		if !ok {
			g = &models.StatusGroup{
				StatusKey:    observed,
				DisplayLabel: labels.Label(observed, f.LatestFormalityStatus),
			}
			groups[observed] = g
		}
		g.Rows = append(g.Rows, models.StatusChangeRow{
			RestaurantSummary:     r.Summary(),
			ComplianceStatus:      r.ComplianceStatus,
			LatestFormalityStatus: f.LatestFormalityStatus,
		})
		report.TotalChanged++
	})

	for _, g := range groups {
		report.Groups = append(report.Groups, *g)
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		return report.Groups[i].StatusKey < report.Groups[j].StatusKey
	})
	return report
}
