package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"plantcare-backend/internal/model"
	"plantcare-backend/internal/watering"
)

// Reminder is one watering reminder to deliver to a user.
type Reminder struct {
	UserID    int64
	PlantName string
	City      string
	Schedule  watering.Schedule
}

// ReminderSender defines the interface for delivering a reminder payload to a
// single push subscription.
type ReminderSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of ReminderSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending watering reminders.
type WorkerPool struct {
	size    int
	jobs    chan Reminder
	db      *gorm.DB
	webpush *webpush.Options
	sender  ReminderSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Reminder, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// SetSender replaces the delivery implementation. Used by tests.
func (wp *WorkerPool) SetSender(s ReminderSender) {
	wp.sender = s
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Reminder worker %d started", id)
	for {
		select {
		case reminder := <-wp.jobs:
			log.Printf("Worker %d processing reminder for user %d (%s)", id, reminder.UserID, reminder.PlantName)
			wp.sendRemindersForUser(ctx, reminder)
		case <-ctx.Done():
			log.Printf("Reminder worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(reminder Reminder) {
	wp.jobs <- reminder
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Reminder {
	return wp.jobs
}

// sendRemindersForUser fetches the user's push subscriptions and delivers the
// reminder to each of them.
func (wp *WorkerPool) sendRemindersForUser(ctx context.Context, reminder Reminder) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("user_id = ?", reminder.UserID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for user %d: %v", reminder.UserID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"title": fmt.Sprintf("Arrosage : %s", reminder.PlantName),
		"body":  reminderBody(reminder),
	})
	if err != nil {
		log.Printf("Error building reminder payload: %v", err)
		return
	}

	log.Printf("Sending %d reminder(s) for user %d", len(subscriptions), reminder.UserID)
	for _, sub := range subscriptions {
		wp.sendReminder(ctx, sub, payload)
	}
}

func reminderBody(r Reminder) string {
	hours := r.Schedule.HoursUntil
	switch {
	case hours <= 0:
		return fmt.Sprintf("Votre %s à %s a besoin d'eau maintenant !", r.PlantName, r.City)
	case hours <= 24:
		return fmt.Sprintf("Votre %s à %s aura besoin d'eau dans les prochaines 24h.", r.PlantName, r.City)
	default:
		days := int(math.Round(hours / 24))
		return fmt.Sprintf("Votre %s à %s aura besoin d'eau dans %d jour(s).", r.PlantName, r.City, days)
	}
}

// sendReminder sends a single web push notification.
func (wp *WorkerPool) sendReminder(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending reminder to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
