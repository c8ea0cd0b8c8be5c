package model

import "time"

// Activity type/action vocabularies. Local-only, never sent upstream.
const (
	ActivityTypeRoom    = "room"
	ActivityTypeDevice  = "device"
	ActivityTypeUser    = "user"
	ActivityTypeMeeting = "meeting"

	ActivityActionAdd    = "add"
	ActivityActionUpdate = "update"
	ActivityActionDelete = "delete"
)

// Activity is one entry in the admin's recent-activity feed.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	ItemName  string    `json:"itemName"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivitySnapshot persists the whole feed as one serialized JSON array under
// a fixed key. There is no schema versioning: a payload that fails to
// unmarshal is discarded wholesale.
type ActivitySnapshot struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Payload   string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
