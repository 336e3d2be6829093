// Package reconciler joins restaurant, notice follow-up and skip-reason records
// into officer workloads, status-change reports and compliance summaries.
//
// Every function here is pure: no I/O, no clock reads, and identical inputs
// produce identical outputs.
package reconciler

import (
	"sort"

	"praenforce/internal/models"
)

// ComplianceReconciler bundles the reconciliation operations with the status
// label mapping used for display.
type ComplianceReconciler struct {
	labels StatusLabels
}

// NewComplianceReconciler applies labelOverrides over DefaultStatusLabels
func NewComplianceReconciler(labelOverrides map[string]string) *ComplianceReconciler {
	return &ComplianceReconciler{labels: DefaultStatusLabels().Merge(labelOverrides)}
}

func (c *ComplianceReconciler) Workload(officerID string, restaurants []models.RestaurantRecord, followups []models.NoticeFollowupRecord) models.OfficerWorkload {
	return AggregateOfficer(officerID, restaurants, followups)
}

func (c *ComplianceReconciler) Workloads(officerIDs []string, restaurants []models.RestaurantRecord, followups []models.NoticeFollowupRecord) []models.OfficerWorkload {
	return AggregateAll(officerIDs, restaurants, followups)
}

func (c *ComplianceReconciler) StatusChanges(restaurants []models.RestaurantRecord, followups []models.NoticeFollowupRecord) models.StatusChangeReport {
	return DetectStatusChanges(restaurants, followups, c.labels)
}

func (c *ComplianceReconciler) ComplianceSummary(restaurants []models.RestaurantRecord, officerID string) models.ComplianceSummary {
	return SummarizeCompliance(restaurants, officerID)
}

// Reconcile counts references that cannot be joined. Officer-scoped reports
// exclude these rows; this is the only place they are reported.
func Reconcile(restaurants []models.RestaurantRecord, followups []models.NoticeFollowupRecord, skips []models.SkipReasonRecord) models.Diagnostics {
	idx := indexRestaurants(restaurants)
	d := models.Diagnostics{
		MissingColumns:    make([]string, 0),
		UnavailableTables: make([]string, 0),
	}

	for _, f := range followups {
		if _, ok := idx.byID[f.RestaurantID]; !ok {
			d.UnresolvedFollowups++
		}
	}
	for _, s := range skips {
		if _, ok := idx.byID[s.RestaurantID]; !ok {
			d.UnresolvedSkipReasons++
		}
	}
	idx.each(func(r models.RestaurantRecord) {
		if r.OfficerID == "" {
			d.UnassignedRestaurants++
		}
	})
	return d
}

// MergeTableReports folds normalization reports into d
func MergeTableReports(d *models.Diagnostics, reports ...TableReport) {
	for _, r := range reports {
		d.DroppedRows += r.Dropped
		d.MissingColumns = append(d.MissingColumns, r.MissingColumns...)
	}
	sort.Strings(d.MissingColumns)
}
