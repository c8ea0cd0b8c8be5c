package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-admin-backend/internal/list"
	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/normalize"
	"booking-admin-backend/internal/upstream"
)

type deviceRequest struct {
	Name         string `json:"name" binding:"required"`
	DeviceTypeID *int64 `json:"deviceTypeId"`
	DeviceType   string `json:"deviceType"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	Description  string `json:"description"`
}

func (r deviceRequest) payload() upstream.DevicePayload {
	return upstream.DevicePayload{
		Name:         r.Name,
		DeviceTypeID: r.DeviceTypeID,
		DeviceType:   r.DeviceType,
		Quantity:     r.Quantity,
		Description:  r.Description,
	}
}

func deviceSearchFields(d model.Device) []string {
	return []string{d.Name, d.Description, d.DeviceTypeName}
}

// ListDevices serves the cached device list with client-side search and
// pagination.
func (h *Handler) ListDevices(c *gin.Context) {
	page, size, search := pageParams(c, 10)

	filtered := list.Filter(h.store.Devices(), search, deviceSearchFields)
	current := list.ClampPage(page, totalPages(filtered, size))
	items, pages := list.Paginate(filtered, current, size)

	c.JSON(http.StatusOK, gin.H{
		"devices":       items,
		"totalPages":    pages,
		"totalElements": len(filtered),
		"currentPage":   current,
	})
}

// ListDeviceTypes serves the device type reference data.
func (h *Handler) ListDeviceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.DeviceTypes())
}

// CreateDevice creates a device upstream and pushes the normalized result
// into the shared cache.
func (h *Handler) CreateDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := h.client.CreateDevice(c.Request.Context(), req.payload())
	if err != nil {
		abortUpstream(c, err)
		return
	}

	device, ok := normalize.NormalizeDevice(raw, h.store.DeviceTypes())
	if !ok {
		// The backend answered with a shape we can't identify; fall back to
		// a full reload so the cache still converges.
		if err := h.store.LoadDevices(c.Request.Context()); err != nil {
			abortUpstream(c, err)
			return
		}
		h.record(model.ActivityTypeDevice, model.ActivityActionAdd, req.Name, "device created")
		c.JSON(http.StatusCreated, gin.H{"devices": h.store.Devices()})
		return
	}

	h.store.SetDevices(append([]model.Device{device}, h.store.Devices()...))
	h.record(model.ActivityTypeDevice, model.ActivityActionAdd, device.Name, "device created")
	c.JSON(http.StatusCreated, device)
}

// UpdateDevice updates a device by id.
func (h *Handler) UpdateDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := h.client.UpdateDevice(c.Request.Context(), id, req.payload())
	if err != nil {
		abortUpstream(c, err)
		return
	}

	device, okNorm := normalize.NormalizeDevice(raw, h.store.DeviceTypes())
	if !okNorm {
		device = model.Device{ID: id, Name: req.Name, DeviceTypeName: normalize.UnclassifiedType,
			Quantity: req.Quantity, Description: req.Description}
	}

	devices := h.store.Devices()
	for i := range devices {
		if devices[i].ID == id {
			devices[i] = device
			break
		}
	}
	h.store.SetDevices(devices)
	h.record(model.ActivityTypeDevice, model.ActivityActionUpdate, device.Name, "device updated")
	c.JSON(http.StatusOK, device)
}

// DeleteDevice deletes a device by id.
func (h *Handler) DeleteDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.client.DeleteDevice(c.Request.Context(), id); err != nil {
		abortUpstream(c, err)
		return
	}

	var removedName string
	devices := h.store.Devices()
	next := devices[:0]
	for _, d := range devices {
		if d.ID == id {
			removedName = d.Name
			continue
		}
		next = append(next, d)
	}
	h.store.SetDevices(next)
	if removedName == "" {
		removedName = fmt.Sprintf("device %d", id)
	}
	h.record(model.ActivityTypeDevice, model.ActivityActionDelete, removedName, "device deleted")
	c.Status(http.StatusNoContent)
}
