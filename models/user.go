package models

// UserSummary is the member identity embedded on trip documents. Trips carry
// full summaries rather than id references so a single read returns complete
// member info.
type UserSummary struct {
	ID             string `json:"id" bson:"id"`
	FirstName      string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Email          string `json:"email,omitempty" bson:"email,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	Role           string `json:"role,omitempty" bson:"role,omitempty"`
	Enabled        bool   `json:"enabled" bson:"enabled"`
}

func (u UserSummary) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type UserFollow struct {
	UserID    string   `json:"userid" bson:"userid"`
	Follows   []string `json:"follows,omitempty" bson:"follows,omitempty"`
	Followers []string `json:"followers,omitempty" bson:"followers,omitempty"`
}
