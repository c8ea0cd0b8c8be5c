package model

import (
	"strings"
	"time"
)

// PushSubscription holds a browser push subscription for activity
// notifications. Types is a comma-joined list of activity types the
// subscriber cares about; empty means all.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	Types     string    `gorm:"size:128"`
	CreatedAt time.Time `gorm:"not null"`
}

// WantsType reports whether the subscription should receive activities of
// the given type.
func (s PushSubscription) WantsType(t string) bool {
	if s.Types == "" {
		return true
	}
	for _, st := range strings.Split(s.Types, ",") {
		if strings.TrimSpace(st) == t {
			return true
		}
	}
	return false
}

// TypeList splits the stored comma-joined types.
func (s PushSubscription) TypeList() []string {
	if s.Types == "" {
		return nil
	}
	parts := strings.Split(s.Types, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
