package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"booking-admin-backend/internal/logs"
)

// Applier is the slice of the upstream client the reconciler needs.
type Applier interface {
	AddRoomDevice(ctx context.Context, roomID, deviceID int64, quantity int) error
	UpdateRoomDevice(ctx context.Context, roomDeviceID int64, quantity int) error
	RemoveRoomDevice(ctx context.Context, roomDeviceID int64) error
}

// Result aggregates per-item outcomes of an Apply run. Partial failures are
// counted, never fatal: the room's own metadata commits independently of
// device sync, so a half-failed sync must not look like a failed save.
type Result struct {
	Added   int
	Updated int
	Removed int

	FailedAdds    int
	FailedUpdates int
	FailedRemoves int
}

// OK reports whether every operation in the plan succeeded.
func (r Result) OK() bool {
	return r.FailedAdds == 0 && r.FailedUpdates == 0 && r.FailedRemoves == 0
}

// Summary renders the failure counts as a human-readable warning, e.g.
// "2/3 devices could not be added". Empty when everything succeeded.
func (r Result) Summary() string {
	var parts []string
	if r.FailedAdds > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d devices could not be added", r.FailedAdds, r.FailedAdds+r.Added))
	}
	if r.FailedUpdates > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d devices could not be updated", r.FailedUpdates, r.FailedUpdates+r.Updated))
	}
	if r.FailedRemoves > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d devices could not be removed", r.FailedRemoves, r.FailedRemoves+r.Removed))
	}
	return strings.Join(parts, "; ")
}

// Apply executes the plan against the backend in three strictly ordered
// phases: adds, then updates, then removes. Operations within a phase run
// concurrently. Ordering removes last avoids a window where a device is
// unassigned before its replacement quantity is known. This is best-effort
// sync, not a transaction; a failed item is counted and logged and the rest
// proceed.
func Apply(ctx context.Context, a Applier, roomID int64, plan Plan) Result {
	var (
		res Result
		mu  sync.Mutex
		wg  sync.WaitGroup
	)

	run := func(op func() error, onOK, onFail *int, what string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := op()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				*onFail++
				logs.Logger.Warnf("room %d device sync: %s failed: %v", roomID, what, err)
				return
			}
			*onOK++
		}()
	}

	for _, op := range plan.ToAdd {
		op := op
		run(func() error { return a.AddRoomDevice(ctx, roomID, op.DeviceID, op.Quantity) },
			&res.Added, &res.FailedAdds, fmt.Sprintf("add device %d", op.DeviceID))
	}
	wg.Wait()

	for _, op := range plan.ToUpdate {
		op := op
		run(func() error { return a.UpdateRoomDevice(ctx, op.RoomDeviceID, op.Quantity) },
			&res.Updated, &res.FailedUpdates, fmt.Sprintf("update assignment %d", op.RoomDeviceID))
	}
	wg.Wait()

	for _, op := range plan.ToRemove {
		op := op
		run(func() error { return a.RemoveRoomDevice(ctx, op.RoomDeviceID) },
			&res.Removed, &res.FailedRemoves, fmt.Sprintf("remove assignment %d", op.RoomDeviceID))
	}
	wg.Wait()

	return res
}
