package preload

import (
	"context"
	"sync"

	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/normalize"
	"booking-admin-backend/internal/upstream"
)

// Backend is the slice of the upstream client the loaders consume.
type Backend interface {
	ListUsers(ctx context.Context, page, size int, search string) (upstream.UsersPage, error)
	UserStats(ctx context.Context) (model.UserStats, error)
	ListDeviceTypes(ctx context.Context) ([]model.DeviceType, error)
	ListDevices(ctx context.Context) ([]normalize.RawDevice, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	ListRoomDevices(ctx context.Context, roomID int64) ([]model.RoomDeviceAssignment, error)
	ListMeetings(ctx context.Context) ([]model.Meeting, error)
}

// resource is one versioned slice of shared state. The version counter makes
// the race between an optimistic setter and an in-flight reload an explicit
// rule: whoever wrote last wins, and a reload that raced a setter is
// discarded rather than silently clobbering the newer local state.
type resource[T any] struct {
	items   []T
	version uint64
	loading bool
}

// Store is the shared cache every admin screen reads from. It is populated
// once per session by PreloadAll and kept fresh by explicit reloads and
// write-through setters; there is no polling or automatic invalidation.
type Store struct {
	mu      sync.RWMutex
	backend Backend

	users    resource[model.User]
	devices  resource[model.Device]
	rooms    resource[model.Room]
	meetings resource[model.Meeting]

	stats        model.UserStats
	statsVersion uint64
	deviceTypes  []model.DeviceType

	userFetchSize int
	preloading    bool
}

// NewStore creates a store over the given backend. userFetchSize is the
// server page size used when pulling users for client-side re-pagination.
func NewStore(backend Backend, userFetchSize int) *Store {
	if userFetchSize <= 0 {
		userFetchSize = 1000
	}
	return &Store{backend: backend, userFetchSize: userFetchSize}
}

// begin marks a resource loading and snapshots its version for the stale
// check at commit time.
func begin[T any](s *Store, r *resource[T]) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.loading = true
	return r.version
}

// commit installs freshly loaded items unless the resource's version moved
// while the fetch was in flight, in which case the result is discarded and
// false returned.
func commit[T any](s *Store, r *resource[T], items []T, base uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.loading = false
	if r.version != base {
		return false
	}
	r.items = items
	r.version++
	return true
}

// set is the write-through path used by mutating screens for optimistic
// updates. It always wins over any in-flight load.
func set[T any](s *Store, r *resource[T], items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.items = items
	r.version++
}

// snapshot returns a copy so callers can filter and slice without holding
// the store's lock.
func snapshot[T any](s *Store, r *resource[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), r.items...)
}

// Users returns the cached user list.
func (s *Store) Users() []model.User { return snapshot(s, &s.users) }

// Devices returns the cached device list.
func (s *Store) Devices() []model.Device { return snapshot(s, &s.devices) }

// Rooms returns the cached room list.
func (s *Store) Rooms() []model.Room { return snapshot(s, &s.rooms) }

// Meetings returns the cached meeting list.
func (s *Store) Meetings() []model.Meeting { return snapshot(s, &s.meetings) }

// Stats returns the cached user stats.
func (s *Store) Stats() model.UserStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// DeviceTypes returns the device type reference data.
func (s *Store) DeviceTypes() []model.DeviceType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.DeviceType(nil), s.deviceTypes...)
}

// SetUsers replaces the cached user list (optimistic write-through).
func (s *Store) SetUsers(users []model.User) { set(s, &s.users, users) }

// SetDevices replaces the cached device list (optimistic write-through).
func (s *Store) SetDevices(devices []model.Device) { set(s, &s.devices, devices) }

// SetRooms replaces the cached room list (optimistic write-through).
func (s *Store) SetRooms(rooms []model.Room) { set(s, &s.rooms, rooms) }

// SetMeetings replaces the cached meeting list (optimistic write-through).
func (s *Store) SetMeetings(meetings []model.Meeting) { set(s, &s.meetings, meetings) }

// IsPreloading reports whether the initial join-all load is still running.
// The UI gates its full-screen loading state on this single flag to avoid
// partial-render flicker.
func (s *Store) IsPreloading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preloading
}

// ResourceState describes one resource slice for the status endpoint.
type ResourceState struct {
	Loading bool   `json:"loading"`
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

// States reports per-resource load state.
func (s *Store) States() map[string]ResourceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]ResourceState{
		"users":    {Loading: s.users.loading, Count: len(s.users.items), Version: s.users.version},
		"devices":  {Loading: s.devices.loading, Count: len(s.devices.items), Version: s.devices.version},
		"rooms":    {Loading: s.rooms.loading, Count: len(s.rooms.items), Version: s.rooms.version},
		"meetings": {Loading: s.meetings.loading, Count: len(s.meetings.items), Version: s.meetings.version},
	}
}

// VersionTag compactly encodes all resource versions. The response cache
// keys on it so any write-through or reload invalidates cached GETs.
func (s *Store) VersionTag() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.version ^ s.statsVersion<<8 ^ s.devices.version<<16 ^ s.rooms.version<<32 ^ s.meetings.version<<48
}
