package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"booking-admin-backend/internal/model"
)

// mockSender is a func-field mock of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}))
	return db
}

func pushResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, nil, &webpush.Options{})

	activity := model.Activity{ID: "a1", Type: model.ActivityTypeMeeting, Action: model.ActivityActionDelete}
	wp.Dispatch(activity)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "a1", job.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_SendsToMatchingSubscribers(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/meetings-only",
		P256DH:   "p", Auth: "a",
		Types: model.ActivityTypeMeeting,
	}).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/rooms-only",
		P256DH:   "p", Auth: "a",
		Types: model.ActivityTypeRoom,
	}).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/everything",
		P256DH:   "p", Auth: "a",
	}).Error)

	wp := NewWorkerPool(1, db, &webpush.Options{})

	var (
		mu        sync.Mutex
		endpoints []string
	)
	var wg sync.WaitGroup
	wg.Add(2) // meetings-only and everything; rooms-only is filtered out
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
			var got model.Activity
			assert.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, model.ActivityTypeMeeting, got.Type)
			mu.Lock()
			endpoints = append(endpoints, sub.Endpoint)
			mu.Unlock()
			wg.Done()
			return pushResponse(http.StatusCreated), nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(model.Activity{ID: "a2", Type: model.ActivityTypeMeeting, Action: model.ActivityActionDelete, ItemName: "Standup"})
	wg.Wait()

	assert.ElementsMatch(t, []string{
		"https://example.com/meetings-only",
		"https://example.com/everything",
	}, endpoints)
}

func TestWorkerPool_PrunesExpiredSubscription(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/expired",
		P256DH:   "p", Auth: "a",
	}).Error)

	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.SetSender(&mockSender{
		SendFunc: func(_ []byte, _ *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
			return pushResponse(http.StatusGone), nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(model.Activity{ID: "a3", Type: model.ActivityTypeDevice, Action: model.ActivityActionAdd})

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&model.PushSubscription{}).Count(&count)
		return count == 0
	}, 2*time.Second, 20*time.Millisecond, "410 response should prune the subscription")
}

func TestWorkerPool_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	wp := NewWorkerPool(1, nil, &webpush.Options{})

	// Workers are not started; the buffered queue fills, later dispatches
	// must return immediately.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			wp.Dispatch(model.Activity{ID: fmt.Sprintf("a%d", i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}
