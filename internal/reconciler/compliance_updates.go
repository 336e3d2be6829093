package reconciler

import (
	"sort"
	"strings"

	"praenforce/internal/models"

	"github.com/google/uuid"
)

var ComplianceUpdateTable = TableSpec{
	Table:       models.TableComplianceUpdates,
	Key:         "restaurant_id",
	Identifiers: []string{"id", "officer_id"},
	Statuses:    []string{"formality_status", "compliance_status", "status_today"},
	Text:        []string{"officer_email", "interview_method", "closure_reason"},
}

func NormalizeComplianceUpdates(rows []models.RawRecord) ([]models.ComplianceUpdateRecord, TableReport) {
	table := NormalizeTable(rows, ComplianceUpdateTable)
	out := make([]models.ComplianceUpdateRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		raw := rows[table.Positions[i]]
		rec := models.ComplianceUpdateRecord{
			RestaurantID:     row["restaurant_id"],
			OfficerEmail:     row["officer_email"],
			OfficerID:        row["officer_id"],
			InterviewMethod:  row["interview_method"],
			FormalityStatus:  row["formality_status"],
			ComplianceStatus: row["compliance_status"],
			StatusToday:      row["status_today"],
			ClosureReason:    row["closure_reason"],
			FollowupRequired: parseFlag(raw["followup_required"]),
		}
		rec.ID = parseUUID(raw["id"])
		if ts, ok := parseTimestamp(raw["interview_date"]); ok {
			rec.InterviewDate = ts
		}
		if ts, ok := parseTimestamp(raw["followup_date"]); ok {
			rec.FollowupDate = &ts
		}
		if ts := rowTimestamp(raw); ts != nil {
			rec.CreatedAt = *ts
		}
		out = append(out, rec)
	}
	return out, table.report()
}

// parseUUID accepts pgx's [16]byte uuid form as well as text
func parseUUID(v any) uuid.UUID {
	switch t := v.(type) {
	case uuid.UUID:
		return t
	case [16]byte:
		return uuid.UUID(t)
	}
	id, err := uuid.Parse(NormalizeIdentifier(v))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// parseFlag reads booleans stored as bool or as yes/no text
func parseFlag(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(NormalizeIdentifier(v)) {
	case "yes", "y", "true", "t", "1":
		return true
	}
	return false
}

// StatusObservations appends the formality status reported on each officer
// visit to the follow-up observations, so the latest of either source is the
// one compared against the recorded compliance status. Visits rank after
// every follow-up row when neither carries a timestamp.
func StatusObservations(followups []models.NoticeFollowupRecord, updates []models.ComplianceUpdateRecord) []models.NoticeFollowupRecord {
	out := make([]models.NoticeFollowupRecord, 0, len(followups)+len(updates))
	out = append(out, followups...)

	base := 0
	for _, f := range followups {
		if f.Position >= base {
			base = f.Position + 1
		}
	}
	for i, u := range updates {
		obs := models.NoticeFollowupRecord{
			RestaurantID:          u.RestaurantID,
			LatestFormalityStatus: u.FormalityStatus,
			Position:              base + i,
		}
		if !u.CreatedAt.IsZero() {
			at := u.CreatedAt
			obs.RecordedAt = &at
		}
		out = append(out, obs)
	}
	return out
}

// ComplianceUpdatesFor returns the visits to restaurantID, newest first
func ComplianceUpdatesFor(updates []models.ComplianceUpdateRecord, restaurantID string) []models.ComplianceUpdateRecord {
	out := make([]models.ComplianceUpdateRecord, 0)
	for _, u := range updates {
		if u.RestaurantID == restaurantID {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
