package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/normalize"
)

// wireRoom is the room shape as the backend sends it: roomId instead of id,
// and the wider backend status enum.
type wireRoom struct {
	RoomID      int64  `json:"roomId"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

func (w wireRoom) canonical() model.Room {
	return model.Room{
		ID:          w.RoomID,
		Name:        w.Name,
		Location:    w.Location,
		Capacity:    w.Capacity,
		Status:      normalize.RoomStatusFromWire(w.Status),
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
	}
}

// RoomPayload is the wire shape for room create/update requests. Status is
// canonical here and mapped to the backend enum on send.
type RoomPayload struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

func (p RoomPayload) wire() RoomPayload {
	p.Status = normalize.RoomStatusToWire(p.Status)
	return p
}

// ListRooms fetches all rooms in canonical shape. SelectedDevices is left
// empty; enrichment from assignment records happens in the preload layer.
func (c *Client) ListRooms(ctx context.Context) ([]model.Room, error) {
	data, err := c.doEnveloped(ctx, http.MethodGet, "/api/rooms", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	var wired []wireRoom
	if err := json.Unmarshal(unwrapList(data), &wired); err != nil {
		return nil, fmt.Errorf("list rooms: unexpected payload shape: %w", err)
	}
	rooms := make([]model.Room, len(wired))
	for i, w := range wired {
		rooms[i] = w.canonical()
	}
	return rooms, nil
}

// CreateRoom creates a room and returns the canonical result.
func (c *Client) CreateRoom(ctx context.Context, p RoomPayload) (model.Room, error) {
	data, err := c.doEnveloped(ctx, http.MethodPost, "/api/rooms", nil, p.wire())
	if err != nil {
		return model.Room{}, fmt.Errorf("create room: %w", err)
	}
	var w wireRoom
	if err := json.Unmarshal(data, &w); err != nil {
		return model.Room{}, fmt.Errorf("create room: unexpected payload shape: %w", err)
	}
	return w.canonical(), nil
}

// UpdateRoom updates a room by id.
func (c *Client) UpdateRoom(ctx context.Context, id int64, p RoomPayload) (model.Room, error) {
	data, err := c.doEnveloped(ctx, http.MethodPut, fmt.Sprintf("/api/rooms/%d", id), nil, p.wire())
	if err != nil {
		return model.Room{}, fmt.Errorf("update room %d: %w", id, err)
	}
	var w wireRoom
	if err := json.Unmarshal(data, &w); err != nil {
		return model.Room{}, fmt.Errorf("update room %d: unexpected payload shape: %w", id, err)
	}
	return w.canonical(), nil
}

// DeleteRoom deletes a room by id.
func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	if _, err := c.doEnveloped(ctx, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete room %d: %w", id, err)
	}
	return nil
}
