package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"booking-admin-backend/internal/list"
	"booking-admin-backend/internal/logs"
	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/reconcile"
	"booking-admin-backend/internal/upstream"
)

type roomRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1,max=1000"`
	Status      string `json:"status"`
	Description string `json:"description"`

	// Device assignment form state. DeviceQuantities keys arrive as JSON
	// object keys, i.e. strings.
	SelectedDevices  []int64        `json:"selectedDevices"`
	DeviceQuantities map[string]int `json:"deviceQuantities"`
}

func (r roomRequest) payload() upstream.RoomPayload {
	status := r.Status
	if status == "" {
		status = model.RoomStatusAvailable
	}
	return upstream.RoomPayload{
		Name:        r.Name,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Status:      status,
		Description: r.Description,
	}
}

// quantities converts the form's string-keyed map and clamps each value into
// [1, total owned units] for its device. Unknown devices clamp against a
// lower bound only.
func (r roomRequest) quantities(devices []model.Device) map[int64]int {
	totals := make(map[int64]int, len(devices))
	for _, d := range devices {
		totals[d.ID] = d.Quantity
	}
	out := make(map[int64]int, len(r.DeviceQuantities))
	for key, qty := range r.DeviceQuantities {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			logs.Logger.Warnf("ignoring non-numeric device key %q in room form", key)
			continue
		}
		out[id] = reconcile.ClampQuantity(qty, totals[id])
	}
	return out
}

func roomSearchFields(r model.Room) []string {
	return []string{r.Name, r.Location}
}

// ListRooms serves the cached, assignment-enriched room list.
func (h *Handler) ListRooms(c *gin.Context) {
	page, size, search := pageParams(c, 10)

	filtered := list.Filter(h.store.Rooms(), search, roomSearchFields)
	current := list.ClampPage(page, totalPages(filtered, size))
	items, pages := list.Paginate(filtered, current, size)

	c.JSON(http.StatusOK, gin.H{
		"rooms":         items,
		"totalPages":    pages,
		"totalElements": len(filtered),
		"currentPage":   current,
	})
}

// CreateRoom creates the room upstream, then best-effort syncs its device
// assignments. A partial assignment failure is a warning, never a failed
// save: the room metadata has already committed.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.client.CreateRoom(c.Request.Context(), req.payload())
	if err != nil {
		abortUpstream(c, err)
		return
	}

	plan := reconcile.Diff(nil, req.SelectedDevices, req.quantities(h.store.Devices()))
	res := reconcile.Apply(c.Request.Context(), h.client, room.ID, plan)

	room.SelectedDevices = dedup(req.SelectedDevices)
	h.store.SetRooms(append(h.store.Rooms(), room))
	h.record(model.ActivityTypeRoom, model.ActivityActionAdd, room.Name, "room created")

	body := gin.H{"room": room}
	if !res.OK() {
		body["warning"] = res.Summary()
	}
	c.JSON(http.StatusCreated, body)
}

// UpdateRoom updates room metadata, then reconciles the device assignments
// against the submitted selection.
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.client.UpdateRoom(c.Request.Context(), id, req.payload())
	if err != nil {
		abortUpstream(c, err)
		return
	}

	var warning string
	existing, err := h.client.ListRoomDevices(c.Request.Context(), id)
	if err != nil {
		// Without the current records any diff would duplicate assignments,
		// so skip the sync; the room metadata write above stands on its own.
		logs.Logger.Warnf("skipping device sync for room %d, assignments unreadable: %v", id, err)
		warning = "device assignments could not be synced"
		room.SelectedDevices = dedup(req.SelectedDevices)
	} else {
		plan := reconcile.Diff(existing, req.SelectedDevices, req.quantities(h.store.Devices()))
		res := reconcile.Apply(c.Request.Context(), h.client, id, plan)
		if !res.OK() {
			warning = res.Summary()
		}
		room.SelectedDevices = dedup(req.SelectedDevices)
	}

	rooms := h.store.Rooms()
	for i := range rooms {
		if rooms[i].ID == id {
			rooms[i] = room
			break
		}
	}
	h.store.SetRooms(rooms)
	h.record(model.ActivityTypeRoom, model.ActivityActionUpdate, room.Name, "room updated")

	body := gin.H{"room": room}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusOK, body)
}

// DeleteRoom deletes a room.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.client.DeleteRoom(c.Request.Context(), id); err != nil {
		abortUpstream(c, err)
		return
	}

	var removedName string
	rooms := h.store.Rooms()
	next := rooms[:0]
	for _, r := range rooms {
		if r.ID == id {
			removedName = r.Name
			continue
		}
		next = append(next, r)
	}
	h.store.SetRooms(next)
	if removedName == "" {
		removedName = fmt.Sprintf("room %d", id)
	}
	h.record(model.ActivityTypeRoom, model.ActivityActionDelete, removedName, "room deleted")
	c.Status(http.StatusNoContent)
}

func dedup(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
