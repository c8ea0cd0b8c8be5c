package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"booking-admin-backend/internal/logs"
	"booking-admin-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans recorded activities out to subscribed admin browsers.
type WorkerPool struct {
	size    int
	jobs    chan model.Activity
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan model.Activity, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// SetSender swaps the push transport. Used by tests.
func (wp *WorkerPool) SetSender(s Sender) { wp.sender = s }

// Jobs exposes the jobs channel for tests.
func (wp *WorkerPool) Jobs() chan model.Activity { return wp.jobs }

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// Dispatch hands an activity to the pool. Pushes are best-effort: when the
// queue is full the activity is dropped with a warning instead of stalling
// the mutation that produced it.
func (wp *WorkerPool) Dispatch(a model.Activity) {
	select {
	case wp.jobs <- a:
	default:
		logs.Logger.Warnf("notification queue full, dropping %s/%s for %q", a.Type, a.Action, a.ItemName)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	logs.Logger.Debugf("notification worker %d started", id)
	for {
		select {
		case activity := <-wp.jobs:
			wp.notifySubscribers(ctx, activity)
		case <-ctx.Done():
			logs.Logger.Debugf("notification worker %d shutting down", id)
			return
		}
	}
}

// notifySubscribers sends one activity to every subscription that wants its
// type.
func (wp *WorkerPool) notifySubscribers(ctx context.Context, activity model.Activity) {
	if wp.db == nil || wp.webpush == nil {
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		logs.Logger.Warnf("could not fetch push subscriptions: %v", err)
		return
	}

	payload, err := json.Marshal(activity)
	if err != nil {
		logs.Logger.Warnf("could not serialize activity %s: %v", activity.ID, err)
		return
	}

	for _, sub := range subscriptions {
		if !sub.WantsType(activity.Type) {
			continue
		}
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		logs.Logger.Warnf("push to %s failed: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// 410 Gone means the browser dropped the subscription; prune it.
	if resp.StatusCode == http.StatusGone {
		logs.Logger.Infof("subscription %s expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			logs.Logger.Warnf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
