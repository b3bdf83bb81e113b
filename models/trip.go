package models

import "time"

// Trip visibility tiers.
const (
	VisibilityNone     = "none"
	VisibilityPublic   = "public"
	VisibilityFollower = "follower"
)

// Trip is a user-owned itinerary container. Plans live in their own
// collection and reference the trip by id; the Plans field is populated on
// read only. Start/end dates are calendar dates kept as yyyy-MM-dd strings so
// range filters compare lexicographically.
type Trip struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Title      string `json:"title"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	IsPublic   string `json:"isPublic"` // none | public | follower
	CoverPhoto string `json:"coverPhoto,omitempty"`
	Content    string `json:"content,omitempty"`
	Tags       string `json:"tags,omitempty"`

	Plans []Plan `json:"plans,omitempty"`

	// Members may manage plans; sharedWithUsers restricts follower-tier
	// visibility (empty = all followers). Both are embedded whole and
	// rewritten on every save (last-write-wins, no CAS).
	Members         []UserSummary `json:"members"`
	SharedWithUsers []UserSummary `json:"sharedWithUsers"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	SharedAt  *time.Time `json:"sharedAt,omitempty"` // set once, first share
}

// IsActiveOn reports whether the given yyyy-MM-dd day falls inside
// [StartDate, EndDate].
func (t Trip) IsActiveOn(day string) bool {
	return t.StartDate != "" && t.EndDate != "" &&
		t.StartDate <= day && day <= t.EndDate
}
