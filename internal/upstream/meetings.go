package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/normalize"
)

// ListMeetings fetches all meetings. The endpoint has been observed both
// bare and enveloped, so the decode tolerates either shape.
func (c *Client) ListMeetings(ctx context.Context) ([]model.Meeting, error) {
	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/meetings", nil, nil, &body); err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}

	data := body
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		if !env.Success {
			return nil, &Error{Status: http.StatusOK, Message: env.Message}
		}
		data = unwrapList(env.Data)
	}

	var meetings []model.Meeting
	if err := json.Unmarshal(data, &meetings); err != nil {
		return nil, fmt.Errorf("list meetings: unexpected payload shape: %w", err)
	}
	for i := range meetings {
		meetings[i].BookingStatus = normalize.BookingStatusFromWire(meetings[i].BookingStatus)
	}
	return meetings, nil
}

// CancelMeeting cancels a meeting. Cancellation is terminal; there is no
// other meeting mutation on the admin surface.
func (c *Client) CancelMeeting(ctx context.Context, meetingID int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/meetings/%d", meetingID), nil, nil, nil); err != nil {
		return fmt.Errorf("cancel meeting %d: %w", meetingID, err)
	}
	return nil
}
