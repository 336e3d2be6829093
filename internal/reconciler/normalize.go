package reconciler

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"praenforce/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// artifactTokens are string spellings of a missing value left behind by
// spreadsheet uploads and dataframe round-trips.
var artifactTokens = map[string]struct{}{
	"nan":  {},
	"null": {},
	"<na>": {},
	"nat":  {},
}

func isNullToken(s string, identifier bool) bool {
	k := strings.ToLower(s)
	if _, ok := artifactTokens[k]; ok {
		return true
	}
	// Field staff type "None" into free-text fields on purpose; it only means
	// null for identifiers.
	return identifier && k == "none"
}

// TableSpec names the columns of a raw table that take part in joins
type TableSpec struct {
	Table       string
	Key         string
	Identifiers []string
	Statuses    []string
	Text        []string
}

func (s TableSpec) columns() []string {
	cols := make([]string, 0, 1+len(s.Identifiers)+len(s.Statuses)+len(s.Text))
	seen := map[string]struct{}{}
	for _, group := range [][]string{{s.Key}, s.Identifiers, s.Statuses, s.Text} {
		for _, c := range group {
			if _, ok := seen[c]; ok || c == "" {
				continue
			}
			seen[c] = struct{}{}
			cols = append(cols, c)
		}
	}
	return cols
}

var (
	RestaurantTable = TableSpec{
		Table:       models.TableRestaurants,
		Key:         "id",
		Identifiers: []string{"officer_id", "ntn"},
		Statuses:    []string{"compliance_status"},
		Text:        []string{"restaurant_name", "restaurant_address"},
	}
	FollowupTable = TableSpec{
		Table:    models.TableNoticeFollowups,
		Key:      "restaurant_id",
		Statuses: []string{"delivery_status", "latest_formality_status"},
		Text:     []string{"correct_name", "correct_address"},
	}
	SkipReasonTable = TableSpec{
		Table:       models.TableSkipReasons,
		Key:         "restaurant_id",
		Identifiers: []string{"id"},
		Text:        []string{"officer_email", "reason"},
	}
)

// timestampColumns are checked in order for a row's recording time
var timestampColumns = []string{"updated_at", "timestamp", "created_at"}

// NormalizedRow holds display values keyed by column name. Missing columns read as "".
type NormalizedRow map[string]string

// NormalizedTable is the result of NormalizeTable
type NormalizedTable struct {
	Rows []NormalizedRow
	// Positions holds the index of each kept row in the raw input
	Positions      []int
	Dropped        int
	MissingColumns []string
}

// NormalizeIdentifier canonicalizes an identifier value to a trimmed string.
// Null representations become "".
func NormalizeIdentifier(v any) string {
	s := stringify(v)
	if isNullToken(s, true) {
		return ""
	}
	return trimFloatSuffix(s)
}

// StatusKey is the comparison form of a free-text status
func StatusKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// HasCorrection reports whether a corrected contact field carries usable data
func HasCorrection(s string) bool {
	k := StatusKey(s)
	return k != "" && k != "none"
}

// NormalizeText stringifies and trims a display value, keeping its casing
func NormalizeText(v any) string {
	s := stringify(v)
	if isNullToken(s, false) {
		return ""
	}
	return s
}

// NormalizeTable normalizes the columns named by spec and drops rows whose key
// identifier is empty. It never fails: malformed values degrade to "".
// Missing columns are only reported for non-empty input.
func NormalizeTable(rows []models.RawRecord, spec TableSpec) NormalizedTable {
	out := NormalizedTable{
		Rows:      make([]NormalizedRow, 0, len(rows)),
		Positions: make([]int, 0, len(rows)),
	}

	present := map[string]bool{}
	for _, raw := range rows {
		for col := range raw {
			present[col] = true
		}
	}
	for _, col := range spec.columns() {
		if len(rows) > 0 && !present[col] {
			out.MissingColumns = append(out.MissingColumns, spec.Table+"."+col)
		}
	}
	sort.Strings(out.MissingColumns)

	for i, raw := range rows {
		row := NormalizedRow{}
		row[spec.Key] = NormalizeIdentifier(raw[spec.Key])
		if row[spec.Key] == "" {
			out.Dropped++
			continue
		}
		for _, col := range spec.Identifiers {
			row[col] = NormalizeIdentifier(raw[col])
		}
		for _, col := range spec.Statuses {
			row[col] = NormalizeText(raw[col])
		}
		for _, col := range spec.Text {
			row[col] = NormalizeText(raw[col])
		}
		out.Rows = append(out.Rows, row)
		out.Positions = append(out.Positions, i)
	}

	return out
}

// TableReport summarizes what normalization discarded or could not find
type TableReport struct {
	Dropped        int
	MissingColumns []string
}

func (t NormalizedTable) report() TableReport {
	return TableReport{Dropped: t.Dropped, MissingColumns: t.MissingColumns}
}

func NormalizeRestaurants(rows []models.RawRecord) ([]models.RestaurantRecord, TableReport) {
	table := NormalizeTable(rows, RestaurantTable)
	out := make([]models.RestaurantRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		out = append(out, models.RestaurantRecord{
			ID:               row["id"],
			Name:             row["restaurant_name"],
			Address:          row["restaurant_address"],
			OfficerID:        row["officer_id"],
			ComplianceStatus: row["compliance_status"],
			NTN:              row["ntn"],
		})
	}
	return out, table.report()
}

func NormalizeFollowups(rows []models.RawRecord) ([]models.NoticeFollowupRecord, TableReport) {
	table := NormalizeTable(rows, FollowupTable)
	out := make([]models.NoticeFollowupRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		pos := table.Positions[i]
		out = append(out, models.NoticeFollowupRecord{
			RestaurantID:          row["restaurant_id"],
			DeliveryStatus:        row["delivery_status"],
			CorrectName:           row["correct_name"],
			CorrectAddress:        row["correct_address"],
			LatestFormalityStatus: row["latest_formality_status"],
			RecordedAt:            rowTimestamp(rows[pos]),
			Position:              pos,
		})
	}
	return out, table.report()
}

func NormalizeSkipReasons(rows []models.RawRecord) ([]models.SkipReasonRecord, TableReport) {
	table := NormalizeTable(rows, SkipReasonTable)
	out := make([]models.SkipReasonRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		rec := models.SkipReasonRecord{
			RestaurantID: row["restaurant_id"],
			OfficerEmail: row["officer_email"],
			Reason:       row["reason"],
		}
		if id, err := uuid.Parse(row["id"]); err == nil {
			rec.ID = id
		}
		if ts := rowTimestamp(rows[table.Positions[i]]); ts != nil {
			rec.Timestamp = *ts
		}
		out = append(out, rec)
	}
	return out, table.report()
}

func rowTimestamp(raw models.RawRecord) *time.Time {
	for _, col := range timestampColumns {
		if ts, ok := parseTimestamp(raw[col]); ok {
			return &ts
		}
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	case pgtype.Timestamptz:
		return t.Time.UTC(), t.Valid
	case pgtype.Timestamp:
		return t.Time.UTC(), t.Valid
	}
	s := NormalizeIdentifier(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case *string:
		if t == nil {
			return ""
		}
		return strings.TrimSpace(*t)
	case []byte:
		return strings.TrimSpace(string(t))
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case [16]byte:
		return uuid.UUID(t).String()
	case uuid.UUID:
		return t.String()
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return formatFloat(f.Float64)
	case pgtype.Text:
		if !t.Valid {
			return ""
		}
		return strings.TrimSpace(t.String)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimFloatSuffix turns "7.0" into "7". Integer ids stored in float columns
// come back with the suffix after a spreadsheet round-trip.
func trimFloatSuffix(s string) string {
	head, tail, ok := strings.Cut(s, ".")
	if !ok || head == "" || strings.Trim(tail, "0") != "" {
		return s
	}
	for _, r := range head {
		if r < '0' || r > '9' {
			return s
		}
	}
	return head
}
