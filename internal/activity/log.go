package activity

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"booking-admin-backend/internal/logs"
	"booking-admin-backend/internal/model"
)

// MaxEntries bounds the feed. Inserts beyond the bound drop the oldest.
const MaxEntries = 20

// snapshotKey is the single fixed key the serialized feed lives under.
const snapshotKey = "recent_activities"

// Log is the bounded, persisted recent-activity feed. Entries are held in
// memory most-recent first; after every mutation the whole list is persisted
// as one JSON array snapshot. Persistence failures are logged, never fatal.
type Log struct {
	mu      sync.Mutex
	db      *gorm.DB // nil means memory-only (tests, degraded startup)
	entries []model.Activity
}

// NewLog creates a feed, restoring the persisted snapshot when one exists.
// A snapshot that fails to unmarshal is discarded wholesale: there is no
// schema versioning for this data.
func NewLog(db *gorm.DB) *Log {
	l := &Log{db: db}
	if db == nil {
		return l
	}

	var snap model.ActivitySnapshot
	err := db.First(&snap, "key = ?", snapshotKey).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		// First run.
	case err != nil:
		logs.Logger.Warnf("could not read activity snapshot, starting empty: %v", err)
	default:
		var entries []model.Activity
		if uerr := json.Unmarshal([]byte(snap.Payload), &entries); uerr != nil {
			logs.Logger.Warnf("discarding corrupt activity snapshot: %v", uerr)
		} else {
			if len(entries) > MaxEntries {
				entries = entries[:MaxEntries]
			}
			l.entries = entries
		}
	}
	return l
}

// Record appends an activity at the front of the feed and persists the new
// snapshot.
func (l *Log) Record(activityType, action, itemName, details string) model.Activity {
	entry := model.Activity{
		ID:        fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8]),
		Type:      activityType,
		Action:    action,
		ItemName:  itemName,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]model.Activity{entry}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	l.persistLocked()
	return entry
}

// Recent returns up to n entries, most recent first. n <= 0 returns the
// whole feed.
func (l *Log) Recent(n int) []model.Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]model.Activity(nil), l.entries[:n]...)
}

// ByType returns the entries of one activity type, most recent first. The
// filter is in-memory only and does not affect what is persisted.
func (l *Log) ByType(activityType string) []model.Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Activity, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Type == activityType {
			out = append(out, e)
		}
	}
	return out
}

// Clear empties the feed and its persisted snapshot.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.persistLocked()
}

// persistLocked writes the current feed as the snapshot row. It runs under
// the mutex: snapshots must reach the database in mutation order, or a pair
// of concurrent records could leave the older list persisted.
func (l *Log) persistLocked() {
	if l.db == nil {
		return
	}
	entries := l.entries
	if entries == nil {
		entries = []model.Activity{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		logs.Logger.Warnf("could not serialize activity snapshot: %v", err)
		return
	}
	snap := model.ActivitySnapshot{Key: snapshotKey, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	err = l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		logs.Logger.Warnf("could not persist activity snapshot: %v", err)
	}
}
