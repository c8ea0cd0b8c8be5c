package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-admin-backend/internal/model"
)

func TestDiff_RoomDeviceScenario(t *testing.T) {
	existing := []model.RoomDeviceAssignment{
		{RoomDeviceID: 10, RoomID: 7, DeviceID: 1, QuantityAssigned: 2},
	}
	plan := Diff(existing, []int64{1, 2}, map[int64]int{1: 3, 2: 1})

	require.Len(t, plan.ToAdd, 1)
	assert.Equal(t, AddOp{DeviceID: 2, Quantity: 1}, plan.ToAdd[0])

	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, UpdateOp{RoomDeviceID: 10, DeviceID: 1, Quantity: 3}, plan.ToUpdate[0])

	assert.Empty(t, plan.ToRemove)
}

func TestDiff_Partition(t *testing.T) {
	existing := []model.RoomDeviceAssignment{
		{RoomDeviceID: 100, DeviceID: 1, QuantityAssigned: 1},
		{RoomDeviceID: 101, DeviceID: 2, QuantityAssigned: 2},
		{RoomDeviceID: 102, DeviceID: 3, QuantityAssigned: 3},
	}
	desired := []int64{2, 3, 4, 5}
	plan := Diff(existing, desired, map[int64]int{2: 2, 3: 9, 4: 1})

	// Every desired id lands in exactly one of add/update/unchanged, and ids
	// dropped from desired land in remove.
	added := map[int64]bool{}
	for _, op := range plan.ToAdd {
		added[op.DeviceID] = true
	}
	updated := map[int64]bool{}
	for _, op := range plan.ToUpdate {
		updated[op.DeviceID] = true
	}
	removed := map[int64]bool{}
	for _, op := range plan.ToRemove {
		removed[op.DeviceID] = true
	}

	assert.Equal(t, map[int64]bool{4: true, 5: true}, added)
	assert.Equal(t, map[int64]bool{3: true}, updated) // 2 is unchanged
	assert.Equal(t, map[int64]bool{1: true}, removed)

	for id := range added {
		assert.False(t, removed[id], "toAdd and toRemove must be disjoint")
	}
}

func TestDiff_DefaultsAndDuplicates(t *testing.T) {
	// Missing quantity defaults to 1; a zero/negative quantity coerces to 1.
	plan := Diff(nil, []int64{1, 1, 2}, map[int64]int{2: -4})
	require.Len(t, plan.ToAdd, 2)
	assert.Equal(t, AddOp{DeviceID: 1, Quantity: 1}, plan.ToAdd[0])
	assert.Equal(t, AddOp{DeviceID: 2, Quantity: 1}, plan.ToAdd[1])

	// A duplicate assignment record for the same device is not current and
	// gets scheduled for removal.
	existing := []model.RoomDeviceAssignment{
		{RoomDeviceID: 10, DeviceID: 1, QuantityAssigned: 1},
		{RoomDeviceID: 11, DeviceID: 1, QuantityAssigned: 5},
	}
	plan = Diff(existing, []int64{1}, map[int64]int{1: 1})
	assert.True(t, plan.Empty() == false)
	require.Len(t, plan.ToRemove, 1)
	assert.Equal(t, int64(11), plan.ToRemove[0].RoomDeviceID)
	assert.Empty(t, plan.ToAdd)
	assert.Empty(t, plan.ToUpdate)
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, ClampQuantity(0, 5))
	assert.Equal(t, 1, ClampQuantity(-7, 5))
	assert.Equal(t, 5, ClampQuantity(9, 5))
	assert.Equal(t, 3, ClampQuantity(3, 5))
	assert.Equal(t, 12, ClampQuantity(12, 0)) // unknown max, lower bound only

	// Idempotence.
	for _, n := range []int{-3, 0, 1, 4, 5, 80} {
		once := ClampQuantity(n, 5)
		assert.Equal(t, once, ClampQuantity(once, 5))
	}
}

// mockApplier records the phase each call arrives in and can fail selected
// device adds.
type mockApplier struct {
	mu         sync.Mutex
	phases     []string
	failAddFor map[int64]bool
}

func (m *mockApplier) AddRoomDevice(_ context.Context, _ int64, deviceID int64, _ int) error {
	m.mu.Lock()
	m.phases = append(m.phases, "add")
	m.mu.Unlock()
	if m.failAddFor[deviceID] {
		return errors.New("boom")
	}
	return nil
}

func (m *mockApplier) UpdateRoomDevice(_ context.Context, _ int64, _ int) error {
	m.mu.Lock()
	m.phases = append(m.phases, "update")
	m.mu.Unlock()
	return nil
}

func (m *mockApplier) RemoveRoomDevice(_ context.Context, _ int64) error {
	m.mu.Lock()
	m.phases = append(m.phases, "remove")
	m.mu.Unlock()
	return nil
}

func TestApply_PartialFailure(t *testing.T) {
	applier := &mockApplier{failAddFor: map[int64]bool{2: true, 3: true}}
	plan := Plan{
		ToAdd: []AddOp{{DeviceID: 1, Quantity: 1}, {DeviceID: 2, Quantity: 1}, {DeviceID: 3, Quantity: 2}},
	}

	res := Apply(context.Background(), applier, 7, plan)

	assert.False(t, res.OK())
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 2, res.FailedAdds)
	assert.Contains(t, res.Summary(), "2/3")
}

func TestApply_PhaseOrdering(t *testing.T) {
	applier := &mockApplier{}
	plan := Plan{
		ToAdd:    []AddOp{{DeviceID: 1, Quantity: 1}, {DeviceID: 2, Quantity: 1}},
		ToUpdate: []UpdateOp{{RoomDeviceID: 10, DeviceID: 3, Quantity: 2}},
		ToRemove: []RemoveOp{{RoomDeviceID: 11, DeviceID: 4}},
	}

	res := Apply(context.Background(), applier, 7, plan)
	require.True(t, res.OK())
	assert.Empty(t, res.Summary())

	// All adds strictly before the update, the update strictly before the
	// remove.
	assert.Equal(t, []string{"add", "add", "update", "remove"}, applier.phases)
}
