package reconcile

import (
	"booking-admin-backend/internal/model"
)

// Computes and executes the minimal change set that moves a room's device
// assignments from their stored state to the desired state submitted by the
// room form.

// AddOp creates a new assignment for a device not currently in the room.
type AddOp struct {
	DeviceID int64
	Quantity int
}

// UpdateOp changes the quantity of an existing assignment. Mutations are
// keyed by the assignment id, the only key the backend accepts.
type UpdateOp struct {
	RoomDeviceID int64
	DeviceID     int64
	Quantity     int
}

// RemoveOp deletes an assignment whose device was deselected.
type RemoveOp struct {
	RoomDeviceID int64
	DeviceID     int64
}

// Plan is the full change set for one room save.
type Plan struct {
	ToAdd    []AddOp
	ToUpdate []UpdateOp
	ToRemove []RemoveOp
}

// Empty reports whether the plan contains no work.
func (p Plan) Empty() bool {
	return len(p.ToAdd) == 0 && len(p.ToUpdate) == 0 && len(p.ToRemove) == 0
}

// Diff compares the room's existing assignments against the desired device
// id list and per-device quantities. A device missing from quantities is
// assigned at 1. At most one assignment per device is treated as current;
// stray duplicates are scheduled for removal.
func Diff(existing []model.RoomDeviceAssignment, desired []int64, quantities map[int64]int) Plan {
	var plan Plan

	current := make(map[int64]model.RoomDeviceAssignment, len(existing))
	for _, a := range existing {
		if _, dup := current[a.DeviceID]; dup {
			plan.ToRemove = append(plan.ToRemove, RemoveOp{RoomDeviceID: a.RoomDeviceID, DeviceID: a.DeviceID})
			continue
		}
		current[a.DeviceID] = a
	}

	wanted := make(map[int64]bool, len(desired))
	for _, id := range desired {
		if wanted[id] {
			continue
		}
		wanted[id] = true

		qty := quantities[id]
		if qty < 1 {
			qty = 1
		}

		cur, ok := current[id]
		if !ok {
			plan.ToAdd = append(plan.ToAdd, AddOp{DeviceID: id, Quantity: qty})
			continue
		}
		if cur.QuantityAssigned != qty {
			plan.ToUpdate = append(plan.ToUpdate, UpdateOp{
				RoomDeviceID: cur.RoomDeviceID,
				DeviceID:     id,
				Quantity:     qty,
			})
		}
	}

	for deviceID, a := range current {
		if !wanted[deviceID] {
			plan.ToRemove = append(plan.ToRemove, RemoveOp{RoomDeviceID: a.RoomDeviceID, DeviceID: deviceID})
		}
	}

	return plan
}

// ClampQuantity pins a requested assignment quantity into [1, max]. max < 1
// means the device's total is unknown and only the lower bound applies.
// Clamping is idempotent.
func ClampQuantity(n, max int) int {
	if n < 1 {
		return 1
	}
	if max >= 1 && n > max {
		return max
	}
	return n
}
