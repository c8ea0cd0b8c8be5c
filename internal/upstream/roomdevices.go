package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"booking-admin-backend/internal/model"
)

// The assignment endpoints are keyed by roomDeviceId for mutations; the
// (roomId, deviceId) pair only appears on create.

type addRoomDeviceRequest struct {
	RoomID   int64 `json:"roomId"`
	DeviceID int64 `json:"deviceId"`
	Quantity int   `json:"quantity"`
}

type updateRoomDeviceRequest struct {
	Quantity int `json:"quantity"`
}

// ListRoomDevices fetches the current assignment records for one room.
func (c *Client) ListRoomDevices(ctx context.Context, roomID int64) ([]model.RoomDeviceAssignment, error) {
	data, err := c.doEnveloped(ctx, http.MethodGet, fmt.Sprintf("/api/room-devices/room/%d", roomID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list room devices for room %d: %w", roomID, err)
	}
	var assignments []model.RoomDeviceAssignment
	if err := json.Unmarshal(unwrapList(data), &assignments); err != nil {
		return nil, fmt.Errorf("list room devices for room %d: unexpected payload shape: %w", roomID, err)
	}
	return assignments, nil
}

// AddRoomDevice creates one assignment.
func (c *Client) AddRoomDevice(ctx context.Context, roomID, deviceID int64, quantity int) error {
	req := addRoomDeviceRequest{RoomID: roomID, DeviceID: deviceID, Quantity: quantity}
	if _, err := c.doEnveloped(ctx, http.MethodPost, "/api/room-devices", nil, req); err != nil {
		return fmt.Errorf("assign device %d to room %d: %w", deviceID, roomID, err)
	}
	return nil
}

// UpdateRoomDevice changes an assignment's quantity.
func (c *Client) UpdateRoomDevice(ctx context.Context, roomDeviceID int64, quantity int) error {
	req := updateRoomDeviceRequest{Quantity: quantity}
	if _, err := c.doEnveloped(ctx, http.MethodPut, fmt.Sprintf("/api/room-devices/%d", roomDeviceID), nil, req); err != nil {
		return fmt.Errorf("update assignment %d: %w", roomDeviceID, err)
	}
	return nil
}

// RemoveRoomDevice deletes an assignment.
func (c *Client) RemoveRoomDevice(ctx context.Context, roomDeviceID int64) error {
	if _, err := c.doEnveloped(ctx, http.MethodDelete, fmt.Sprintf("/api/room-devices/%d", roomDeviceID), nil, nil); err != nil {
		return fmt.Errorf("remove assignment %d: %w", roomDeviceID, err)
	}
	return nil
}
