package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/normalize"
)

// DevicePayload is the wire shape for device create/update requests.
type DevicePayload struct {
	Name         string `json:"name"`
	DeviceTypeID *int64 `json:"deviceTypeId,omitempty"`
	DeviceType   string `json:"deviceType,omitempty"`
	Quantity     int    `json:"quantity"`
	Description  string `json:"description"`
}

// ListDevices fetches all devices in their raw wire shape. Normalization is
// the caller's concern (the loaders need the known-types list for it).
func (c *Client) ListDevices(ctx context.Context) ([]normalize.RawDevice, error) {
	data, err := c.doEnveloped(ctx, http.MethodGet, "/api/devices", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	var raw []normalize.RawDevice
	if err := json.Unmarshal(unwrapList(data), &raw); err != nil {
		return nil, fmt.Errorf("list devices: unexpected payload shape: %w", err)
	}
	return raw, nil
}

// ListDeviceTypes fetches the device type enumeration.
func (c *Client) ListDeviceTypes(ctx context.Context) ([]model.DeviceType, error) {
	data, err := c.doEnveloped(ctx, http.MethodGet, "/api/device-types", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list device types: %w", err)
	}
	var types []model.DeviceType
	if err := json.Unmarshal(unwrapList(data), &types); err != nil {
		return nil, fmt.Errorf("list device types: unexpected payload shape: %w", err)
	}
	return types, nil
}

// CreateDevice creates a device and returns it in raw wire shape.
func (c *Client) CreateDevice(ctx context.Context, p DevicePayload) (*normalize.RawDevice, error) {
	data, err := c.doEnveloped(ctx, http.MethodPost, "/api/devices", nil, p)
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	var raw normalize.RawDevice
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("create device: unexpected payload shape: %w", err)
	}
	return &raw, nil
}

// UpdateDevice updates a device by id.
func (c *Client) UpdateDevice(ctx context.Context, id int64, p DevicePayload) (*normalize.RawDevice, error) {
	data, err := c.doEnveloped(ctx, http.MethodPut, fmt.Sprintf("/api/devices/%d", id), nil, p)
	if err != nil {
		return nil, fmt.Errorf("update device %d: %w", id, err)
	}
	var raw normalize.RawDevice
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("update device %d: unexpected payload shape: %w", id, err)
	}
	return &raw, nil
}

// DeleteDevice deletes a device by id.
func (c *Client) DeleteDevice(ctx context.Context, id int64) error {
	if _, err := c.doEnveloped(ctx, http.MethodDelete, fmt.Sprintf("/api/devices/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete device %d: %w", id, err)
	}
	return nil
}
