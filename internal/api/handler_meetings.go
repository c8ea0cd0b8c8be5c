package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-admin-backend/internal/list"
	"booking-admin-backend/internal/model"
)

func meetingSearchFields(m model.Meeting) []string {
	return []string{m.Title, m.Description, m.RoomName, m.UserName, m.UserEmail}
}

// ListMeetings serves the cached meeting list with client-side search and
// pagination.
func (h *Handler) ListMeetings(c *gin.Context) {
	page, size, search := pageParams(c, 10)

	filtered := list.Filter(h.store.Meetings(), search, meetingSearchFields)
	current := list.ClampPage(page, totalPages(filtered, size))
	items, pages := list.Paginate(filtered, current, size)

	c.JSON(http.StatusOK, gin.H{
		"meetings":      items,
		"totalPages":    pages,
		"totalElements": len(filtered),
		"currentPage":   current,
	})
}

// CancelMeeting cancels a meeting upstream and flips its cached status.
// Cancellation is terminal; a cancelled meeting stays in the list.
func (h *Handler) CancelMeeting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.client.CancelMeeting(c.Request.Context(), id); err != nil {
		abortUpstream(c, err)
		return
	}

	title := fmt.Sprintf("meeting %d", id)
	meetings := h.store.Meetings()
	for i := range meetings {
		if meetings[i].MeetingID == id {
			meetings[i].BookingStatus = model.BookingStatusCancelled
			if meetings[i].Title != "" {
				title = meetings[i].Title
			}
			break
		}
	}
	h.store.SetMeetings(meetings)
	h.record(model.ActivityTypeMeeting, model.ActivityActionDelete, title, "meeting cancelled")
	c.Status(http.StatusNoContent)
}
