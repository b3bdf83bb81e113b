package models

// UserDevice is the per-user push delivery state, keyed by userId in the
// user_device collection and merge-upserted on every token registration or
// settings change.
type UserDevice struct {
	UserID               string `json:"userId" bson:"userId"`
	FcmToken             string `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	NotificationsEnabled bool   `json:"notificationsEnabled" bson:"notificationsEnabled"`
	LastUpdated          int64  `json:"lastUpdated" bson:"lastUpdated"` // unix millis
}

// Notification types.
const (
	NotifTrip         = "TRIP"
	NotifPlan         = "PLAN"
	NotifGeneral      = "GENERAL"
	NotifTripReminder = "TRIP_REMINDER"
)

// Notification is the persisted in-app inbox record, distinct from push
// delivery. Write-once; only isRead changes afterwards.
type Notification struct {
	ID        string `json:"id" bson:"id"`
	UserID    string `json:"userId" bson:"userId"`
	Title     string `json:"title" bson:"title"`
	Message   string `json:"message" bson:"message"`
	Type      string `json:"type" bson:"type"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"` // unix millis
	IsRead    bool   `json:"isRead" bson:"isRead"`
	TripID    string `json:"tripId,omitempty" bson:"tripId,omitempty"`
	TripTitle string `json:"tripTitle,omitempty" bson:"tripTitle,omitempty"`
}
