package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-admin-backend/config"
	"booking-admin-backend/internal/activity"
	"booking-admin-backend/internal/api"
	"booking-admin-backend/internal/db"
	"booking-admin-backend/internal/model"
	"booking-admin-backend/internal/preload"
	"booking-admin-backend/internal/upstream"
)

// mutationLog records assignment writes the fake backend receives, so the
// tests can assert what the reconciler actually sent. Writes arrive
// concurrently.
type mutationLog struct {
	mu      sync.Mutex
	adds    []map[string]any
	updates map[int64]int
}

func (m *mutationLog) add(body map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adds = append(m.adds, body)
}

func (m *mutationLog) update(id int64, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updates == nil {
		m.updates = map[int64]int{}
	}
	m.updates[id] = qty
}

func enveloped(w http.ResponseWriter, data string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"success":true,"data":%s}`, data)
}

// newBookingBackend simulates the booking platform's REST backend with the
// wire quirks the gateway has to absorb: enveloped device and room
// endpoints, a paged object inside the rooms envelope, a bare users page,
// three different device id field names, and a bare meetings array.
func newBookingBackend(t *testing.T, muts *mutationLog) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/admin/users":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"users": [
					{"id": 1, "email": "admin@corp.test", "fullName": "Site Admin", "role": "ADMIN"},
					{"id": 2, "email": "ada@corp.test", "fullName": "Ada Lovelace", "role": "USER", "googleId": "g-777"}
				],
				"totalPages": 1, "totalElements": 2, "currentPage": 0
			}`)
		case "GET /api/admin/users/stats":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"totalUsers": 2, "adminCount": 1, "userCount": 1}`)
		case "GET /api/device-types":
			enveloped(w, `[{"id": 11, "name": "Projector"}, {"id": 12, "name": "Speaker"}]`)
		case "GET /api/devices":
			enveloped(w, `[
				{"deviceId": 1, "name": "Conference Projector", "deviceType": "MAY_CHIEU", "quantity": 5},
				{"id": 2, "name": "Ceiling Speaker", "deviceType": {"displayName": "Speaker"}, "quantity": 2},
				{"name": "Ghost Device", "quantity": 1}
			]`)
		case "GET /api/rooms":
			enveloped(w, `{"content": [
				{"roomId": 1, "name": "Boardroom", "location": "Floor 3", "capacity": 12, "status": "AVAILABLE"}
			]}`)
		case "PUT /api/rooms/1":
			enveloped(w, `{"roomId": 1, "name": "Boardroom", "location": "Floor 4", "capacity": 12, "status": "MAINTENANCE"}`)
		case "GET /api/room-devices/room/1":
			enveloped(w, `[{"roomDeviceId": 10, "roomId": 1, "deviceId": 1, "quantityAssigned": 2}]`)
		case "POST /api/room-devices":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			muts.add(body)
			enveloped(w, `{}`)
		case "PUT /api/room-devices/10":
			var body struct {
				Quantity int `json:"quantity"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			muts.update(10, body.Quantity)
			enveloped(w, `{}`)
		case "GET /api/meetings":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[
				{"meetingId": 5, "title": "Quarterly Review", "roomName": "Boardroom", "bookingStatus": "CONFIRMED"}
			]`)
		default:
			t.Errorf("unexpected backend request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// TestAdminGatewayLifecycle drives the gateway end to end: preload from the
// fake backend, serve cached listings, then edit a room's device selection
// and verify the reconciler's writes and the recorded activity.
func TestAdminGatewayLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	muts := &mutationLog{}
	backend := newBookingBackend(t, muts)
	defer backend.Close()

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 60
	cfg.Upstream.BaseURL = backend.URL
	cfg.Upstream.Timeout = 5 * time.Second
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:gateway_lifecycle?mode=memory&cache=shared"

	gormDB, err := db.Init(&cfg.Database)
	require.NoError(t, err)

	client := upstream.New(&cfg.Upstream)
	store := preload.NewStore(client, 1000)
	activities := activity.NewLog(gormDB)

	require.NoError(t, store.PreloadAll(context.Background()))

	// Preload assertions: normalization and enrichment happened on the way in.
	devices := store.Devices()
	require.Len(t, devices, 2, "the record with no id should have been skipped")
	assert.Equal(t, "Projector", devices[0].DeviceTypeName)
	require.NotNil(t, devices[0].DeviceTypeID)
	assert.Equal(t, int64(11), *devices[0].DeviceTypeID, "enum code should cross-reference the known type")
	assert.Equal(t, "Speaker", devices[1].DeviceTypeName)

	rooms := store.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, model.RoomStatusAvailable, rooms[0].Status)
	assert.Equal(t, []int64{1}, rooms[0].SelectedDevices)

	meetings := store.Meetings()
	require.Len(t, meetings, 1)
	assert.Equal(t, model.BookingStatusConfirmed, meetings[0].BookingStatus)

	handler := api.NewHandler(store, client, activities, nil, gormDB, nil)
	router := api.NewRouter(cfg, handler)

	t.Run("status reports loaded resources", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/status", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Preloading bool                             `json:"preloading"`
			Resources  map[string]preload.ResourceState `json:"resources"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Preloading)
		assert.Equal(t, 2, body.Resources["users"].Count)
		assert.Equal(t, 1, body.Resources["rooms"].Count)
	})

	t.Run("room edit reconciles device assignments", func(t *testing.T) {
		// Keep device 1 but with quantity 99 (clamped to the 5 owned units)
		// and newly select device 2.
		reqBody := `{
			"name": "Boardroom", "location": "Floor 4", "capacity": 12,
			"status": "maintenance",
			"selectedDevices": [1, 2],
			"deviceQuantities": {"1": 99, "2": 1}
		}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPut, "/api/rooms/1", bytes.NewBufferString(reqBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body struct {
			Room    model.Room `json:"room"`
			Warning string     `json:"warning"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Empty(t, body.Warning)
		assert.Equal(t, model.RoomStatusMaintenance, body.Room.Status)
		assert.Equal(t, []int64{1, 2}, body.Room.SelectedDevices)

		muts.mu.Lock()
		defer muts.mu.Unlock()
		require.Len(t, muts.adds, 1, "only the newly selected device should be added")
		assert.Equal(t, float64(2), muts.adds[0]["deviceId"])
		assert.Equal(t, float64(1), muts.adds[0]["quantity"])
		assert.Equal(t, 5, muts.updates[10], "existing assignment quantity should be clamped to owned units")
	})

	t.Run("cached listing reflects the write-through", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/rooms", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Rooms []model.Room `json:"rooms"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Rooms, 1)
		assert.Equal(t, "Floor 4", body.Rooms[0].Location)
		assert.Equal(t, model.RoomStatusMaintenance, body.Rooms[0].Status)
	})

	t.Run("room edit lands in the activity feed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/activities", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Activities []model.Activity `json:"activities"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body.Activities)
		assert.Equal(t, model.ActivityTypeRoom, body.Activities[0].Type)
		assert.Equal(t, model.ActivityActionUpdate, body.Activities[0].Action)
		assert.Equal(t, "Boardroom", body.Activities[0].ItemName)
	})
}
