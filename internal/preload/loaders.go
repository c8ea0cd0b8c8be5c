package preload

import (
	"context"
	"errors"
	"sync"

	"booking-admin-backend/internal/logs"
	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/normalize"
)

// Loader failure policy: the affected slice is reset to empty and the error
// returned, so the calling screen can show a retry affordance. Sibling
// resources are never touched, and the store itself never enters a failed
// state.

// PreloadAll runs the initial loaders concurrently and blocks until all of
// them settle, success or failure. IsPreloading reports true for the whole
// window. Individual failures are joined into the returned error.
func (s *Store) PreloadAll(ctx context.Context) error {
	s.mu.Lock()
	s.preloading = true
	s.mu.Unlock()

	loaders := []func(context.Context) error{
		s.LoadUsers,
		s.LoadStats,
		s.LoadDevices,
		s.LoadRooms,
		s.LoadMeetings,
	}

	errs := make([]error, len(loaders))
	var wg sync.WaitGroup
	for i, load := range loaders {
		wg.Add(1)
		go func(i int, load func(context.Context) error) {
			defer wg.Done()
			errs[i] = load(ctx)
		}(i, load)
	}
	wg.Wait()

	s.mu.Lock()
	s.preloading = false
	s.mu.Unlock()

	return errors.Join(errs...)
}

// LoadUsers fetches one large server page of users and replaces the cached
// slice. The admin screens re-filter and re-paginate this list client-side.
func (s *Store) LoadUsers(ctx context.Context) error {
	base := begin(s, &s.users)
	page, err := s.backend.ListUsers(ctx, 0, s.userFetchSize, "")
	if err != nil {
		commit(s, &s.users, nil, base)
		return err
	}
	if !commit(s, &s.users, page.Users, base) {
		logs.Logger.Debugf("user reload discarded: slice changed while request was in flight")
	}
	return nil
}

// LoadStats fetches the aggregate user counts. Every refresh bumps the stats
// version so cached stats responses are invalidated along with the listings.
func (s *Store) LoadStats(ctx context.Context) error {
	stats, err := s.backend.UserStats(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsVersion++
	if err != nil {
		s.stats = model.UserStats{}
		return err
	}
	s.stats = stats
	return nil
}

// LoadDevices fetches the device list, sourcing the device type enumeration
// first (once; it is static reference data for the session), then runs every
// raw payload through the normalizer. Records the normalizer rejects are
// skipped, never fatal.
func (s *Store) LoadDevices(ctx context.Context) error {
	base := begin(s, &s.devices)

	types, err := s.ensureDeviceTypes(ctx)
	if err != nil {
		// Types are an enrichment; devices still load with sentinel names.
		logs.Logger.Warnf("device types unavailable, continuing without: %v", err)
	}

	raw, err := s.backend.ListDevices(ctx)
	if err != nil {
		commit(s, &s.devices, nil, base)
		return err
	}

	devices := make([]model.Device, 0, len(raw))
	for i := range raw {
		dev, ok := normalize.NormalizeDevice(&raw[i], types)
		if !ok {
			logs.Logger.Warnf("skipping device record with no usable id (name=%q)", raw[i].Name)
			continue
		}
		devices = append(devices, dev)
	}
	commit(s, &s.devices, devices, base)
	return nil
}

func (s *Store) ensureDeviceTypes(ctx context.Context) ([]model.DeviceType, error) {
	s.mu.RLock()
	cached := s.deviceTypes
	s.mu.RUnlock()
	if len(cached) > 0 {
		return cached, nil
	}

	types, err := s.backend.ListDeviceTypes(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.deviceTypes = types
	s.mu.Unlock()
	return types, nil
}

// LoadRooms fetches the room list and enriches each room with its assigned
// device ids. The per-room assignment fetches run concurrently and are
// reassembled by index, preserving room order. Enrichment failure degrades
// to an empty SelectedDevices list: rooms must always render even when
// device linkage is temporarily unavailable.
func (s *Store) LoadRooms(ctx context.Context) error {
	base := begin(s, &s.rooms)

	rooms, err := s.backend.ListRooms(ctx)
	if err != nil {
		commit(s, &s.rooms, nil, base)
		return err
	}

	selected := make([][]int64, len(rooms))
	var wg sync.WaitGroup
	for i := range rooms {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assignments, err := s.backend.ListRoomDevices(ctx, rooms[i].ID)
			if err != nil {
				logs.Logger.Warnf("device linkage unavailable for room %d: %v", rooms[i].ID, err)
				return
			}
			ids := make([]int64, 0, len(assignments))
			for _, a := range assignments {
				ids = append(ids, a.DeviceID)
			}
			selected[i] = ids
		}(i)
	}
	wg.Wait()

	for i := range rooms {
		if selected[i] == nil {
			selected[i] = []int64{}
		}
		rooms[i].SelectedDevices = selected[i]
	}

	commit(s, &s.rooms, rooms, base)
	return nil
}

// LoadMeetings fetches the meeting list.
func (s *Store) LoadMeetings(ctx context.Context) error {
	base := begin(s, &s.meetings)
	meetings, err := s.backend.ListMeetings(ctx)
	if err != nil {
		commit(s, &s.meetings, nil, base)
		return err
	}
	commit(s, &s.meetings, meetings, base)
	return nil
}

// Reload invokes the loader for a named resource. Used by the manual retry
// affordance and by mutating screens that want to reconcile with server
// truth after an optimistic write.
func (s *Store) Reload(ctx context.Context, resource string) error {
	switch resource {
	case "users":
		return s.LoadUsers(ctx)
	case "stats":
		return s.LoadStats(ctx)
	case "devices":
		return s.LoadDevices(ctx)
	case "rooms":
		return s.LoadRooms(ctx)
	case "meetings":
		return s.LoadMeetings(ctx)
	default:
		return errors.New("unknown resource: " + resource)
	}
}
