package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"plant-care-backend/internal/model"
	"plant-care-backend/internal/schedule"
	"plant-care-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Reminder is a single plant that should be brought to the user's attention.
type Reminder struct {
	PlantID   int64
	PlantName string
	Status    schedule.Status
	Fertilize bool
	Relative  string
}

// Payload is the JSON body delivered to the service worker.
type Payload struct {
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	PlantID   int64           `json:"plant_id"`
	Status    schedule.Status `json:"status"`
	Fertilize bool            `json:"fertilize"`
	URL       string          `json:"url"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Reminder
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
	texts   Texts
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options, texts Texts) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Reminder, size), // Buffered channel
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
		texts:   texts,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case r := <-wp.jobs:
			log.Printf("Worker %d processing plant %d", id, r.PlantID)
			wp.sendRemindersForPlant(ctx, r)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a reminder, blocking while the pool is saturated.
func (wp *WorkerPool) Dispatch(ctx context.Context, r Reminder) error {
	select {
	case wp.jobs <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Reminder {
	return wp.jobs
}

// sendRemindersForPlant fetches subscriptions and notifies each of them.
func (wp *WorkerPool) sendRemindersForPlant(ctx context.Context, r Reminder) {
	subscriptions, err := wp.store.SubscribersForPlant(ctx, r.PlantID)
	if err != nil {
		log.Printf("Error fetching subscriptions for plant %d: %v", r.PlantID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(wp.texts.Build(r))
	if err != nil {
		log.Printf("Error encoding reminder for plant %d: %v", r.PlantID, err)
		return
	}

	log.Printf("Sending %d notifications for plant %d", len(subscriptions), r.PlantID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	// Manually construct the webpush.Subscription object
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

// Texts holds the localized notification strings.
type Texts struct {
	Title         string // %s plant name
	DueBody       string // %s relative phrase
	NeverBody     string
	FertilizeAlso string
}

var (
	SpanishTexts = Texts{
		Title:         "💧 Toca regar %s",
		DueBody:       "Riego previsto: %s",
		NeverBody:     "Todavía no la has regado nunca",
		FertilizeAlso: " · ¡Toca abonar en este riego!",
	}
	EnglishTexts = Texts{
		Title:         "💧 Time to water %s",
		DueBody:       "Watering due: %s",
		NeverBody:     "You have not watered it yet",
		FertilizeAlso: " · Fertilize with this watering!",
	}
)

// TextsFor returns the notification strings for a language code, defaulting to Spanish.
func TextsFor(lang string) Texts {
	if lang == "en" {
		return EnglishTexts
	}
	return SpanishTexts
}

// Build renders the push payload for r.
func (t Texts) Build(r Reminder) Payload {
	p := Payload{
		Title:     fmt.Sprintf(t.Title, r.PlantName),
		PlantID:   r.PlantID,
		Status:    r.Status,
		Fertilize: r.Fertilize,
		URL:       fmt.Sprintf("/plants/%d", r.PlantID),
	}
	if r.Status == schedule.StatusNever {
		p.Body = t.NeverBody
	} else {
		p.Body = fmt.Sprintf(t.DueBody, r.Relative)
	}
	if r.Fertilize {
		p.Body += t.FertilizeAlso
	}
	return p
}
