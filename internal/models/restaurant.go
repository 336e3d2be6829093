package models

// Table names in the relational store
const (
	TableRestaurants     = "treated_restaurant_data"
	TableNoticeFollowups = "notice_followup_tracking"
	TableSkipReasons     = "notice_skip_reasons"
)

// RawRecord is one row of a fetched table, keyed by column name
type RawRecord map[string]any

type RestaurantRecord struct {
	ID               string `json:"id" db:"id"`
	Name             string `json:"restaurant_name" db:"restaurant_name"`
	Address          string `json:"restaurant_address" db:"restaurant_address"`
	OfficerID        string `json:"officer_id" db:"officer_id"`
	ComplianceStatus string `json:"compliance_status" db:"compliance_status"`
	NTN              string `json:"ntn" db:"ntn"`
}

// RestaurantSummary carries the display fields shown next to counts
type RestaurantSummary struct {
	ID      string `json:"id"`
	Name    string `json:"restaurant_name"`
	Address string `json:"restaurant_address"`
}

func (r RestaurantRecord) Summary() RestaurantSummary {
	return RestaurantSummary{ID: r.ID, Name: r.Name, Address: r.Address}
}
