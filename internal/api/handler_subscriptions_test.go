package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"booking-admin-backend/internal/model"
)

func setupSubscriptionRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}))

	h := NewHandler(nil, nil, nil, nil, db, nil)
	r := gin.New()
	r.GET("/api/subscriptions", h.GetSubscription)
	r.PUT("/api/subscriptions", h.PutSubscription)
	r.DELETE("/api/subscriptions", h.DeleteSubscription)
	return r
}

func TestPutSubscriptionRejectsEmptyBody(t *testing.T) {
	router := setupSubscriptionRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	router := setupSubscriptionRouter(t)

	endpoint := "https://push.example.test/reg%2Fabc"
	put := func(types string) {
		body := fmt.Sprintf(`{"endpoint":%q,"p256dh":"key","auth":"secret","types":[%s]}`, endpoint, types)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPut, "/api/subscriptions", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	put(`"room","device"`)

	// The endpoint is matched against the raw query string, undecoded.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"types":["room","device"]}`, w.Body.String())

	// Re-subscribing replaces the type selection in place.
	put(`"meeting"`)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"types":["meeting"]}`, w.Body.String())

	// Delete, then the lookup misses.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodDelete, "/api/subscriptions",
		bytes.NewBufferString(fmt.Sprintf(`{"endpoint":%q}`, endpoint)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
