package models

// Session roles
const (
	RoleAdmin   = "admin"
	RoleOfficer = "officer"
)

// Session identifies the caller of a report request. It is built per request
// from the bearer token and the officer roster.
type Session struct {
	Email     string `json:"email"`
	OfficerID string `json:"officer_id,omitempty"`
	Role      string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanView reports whether the session may read officerID's reports
func (s Session) CanView(officerID string) bool {
	return s.IsAdmin() || (s.OfficerID != "" && s.OfficerID == officerID)
}
