package models

import "time"

type NoticeFollowupRecord struct {
	RestaurantID          string     `json:"restaurant_id" db:"restaurant_id"`
	DeliveryStatus        string     `json:"delivery_status" db:"delivery_status"`
	CorrectName           string     `json:"correct_name" db:"correct_name"`
	CorrectAddress        string     `json:"correct_address" db:"correct_address"`
	LatestFormalityStatus string     `json:"latest_formality_status" db:"latest_formality_status"`
	RecordedAt            *time.Time `json:"recorded_at,omitempty" db:"updated_at"`
	// Position is the row index in the fetched table
	Position int `json:"-"`
}
