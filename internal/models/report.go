package models

// ResendEntry is a returned notice with a usable correction
type ResendEntry struct {
	RestaurantSummary
	DeliveryStatus string `json:"delivery_status"`
	CorrectName    string `json:"correct_name"`
	CorrectAddress string `json:"correct_address"`
}

// OfficerWorkload is the per-officer notice aggregation
type OfficerWorkload struct {
	OfficerID      string              `json:"officer_id"`
	AssignedCount  int                 `json:"assigned_count"`
	FollowupCount  int                 `json:"followup_count"`
	ReturnedCount  int                 `json:"returned_count"`
	DeliveredCount int                 `json:"delivered_count"`
	ResendCount    int                 `json:"resend_count"`
	ResendList     []ResendEntry       `json:"resend_list"`
	Assigned       []RestaurantSummary `json:"assigned"`
}

// StatusChangeRow is one restaurant whose observed formality status differs
// from its recorded compliance status
type StatusChangeRow struct {
	RestaurantSummary
	ComplianceStatus      string `json:"compliance_status"`
	LatestFormalityStatus string `json:"latest_formality_status"`
}

type StatusGroup struct {
	StatusKey    string            `json:"status_key"`
	DisplayLabel string            `json:"display_label"`
	Rows         []StatusChangeRow `json:"rows"`
}

type StatusChangeReport struct {
	TotalChanged int           `json:"total_changed_count"`
	Groups       []StatusGroup `json:"groups"`
}

type ComplianceSummary struct {
	OfficerID    string              `json:"officer_id,omitempty"`
	Registered   []RestaurantSummary `json:"registered"`
	Unregistered []RestaurantSummary `json:"unregistered"`
	Filers       []RestaurantSummary `json:"filers"`
}

// Diagnostics describes how complete a report's inputs were
type Diagnostics struct {
	UnresolvedFollowups   int      `json:"unresolved_followups"`
	UnresolvedSkipReasons int      `json:"unresolved_skip_reasons"`
	UnassignedRestaurants int      `json:"unassigned_restaurants"`
	DroppedRows           int      `json:"dropped_rows"`
	MissingColumns        []string `json:"missing_columns"`
	UnavailableTables     []string `json:"unavailable_tables"`
}
