package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-care-backend/internal/db/dbtest"
	"plant-care-backend/internal/model"
	"plant-care-backend/internal/schedule"
	"plant-care-backend/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func newTestStore(t *testing.T) (store.Store, *model.Plant) {
	s := store.NewGormStore(dbtest.Open(t))
	plant := &model.Plant{Name: "Monstera", WateringIntervalDays: 7}
	require.NoError(t, s.CreatePlant(context.Background(), plant))
	return s, plant
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, nil, &webpush.Options{}, SpanishTexts)

	require.NoError(t, wp.Dispatch(context.Background(), Reminder{PlantID: 123}))

	select {
	case job := <-wp.jobs:
		assert.Equal(t, int64(123), job.PlantID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchCancelled(t *testing.T) {
	wp := NewWorkerPool(1, nil, &webpush.Options{}, SpanishTexts)
	require.NoError(t, wp.Dispatch(context.Background(), Reminder{PlantID: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wp.Dispatch(ctx, Reminder{PlantID: 2}), context.Canceled)
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	s, plant := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wp := NewWorkerPool(1, s, &webpush.Options{}, SpanishTexts)
	wp.Start(ctx)

	t.Run("sends notification for subscribed plant", func(t *testing.T) {
		sub := &model.PushSubscription{Endpoint: "https://example.com/push", P256DH: "k", Auth: "a"}
		require.NoError(t, s.PutSubscription(ctx, sub, []int64{plant.ID}))

		var wg sync.WaitGroup
		wg.Add(1)
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				assert.Equal(t, "https://example.com/push", sub.Endpoint)

				var p Payload
				assert.NoError(t, json.Unmarshal(payload, &p))
				assert.Equal(t, "💧 Toca regar Monstera", p.Title)
				assert.Equal(t, "Riego previsto: Hace 2 días · ¡Toca abonar en este riego!", p.Body)
				assert.Equal(t, plant.ID, p.PlantID)
				assert.Equal(t, schedule.StatusOverdue, p.Status)
				return response(http.StatusCreated), nil
			},
		}

		require.NoError(t, wp.Dispatch(ctx, Reminder{
			PlantID:   plant.ID,
			PlantName: plant.Name,
			Status:    schedule.StatusOverdue,
			Fertilize: true,
			Relative:  "Hace 2 días",
		}))
		wg.Wait()
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				return response(http.StatusGone), nil
			},
		}

		require.NoError(t, wp.Dispatch(ctx, Reminder{PlantID: plant.ID, PlantName: plant.Name, Status: schedule.StatusToday}))
		wg.Wait()

		assert.Eventually(t, func() bool {
			_, err := s.GetSubscription(ctx, "https://example.com/push")
			return err != nil
		}, time.Second, 10*time.Millisecond)
	})
}

func TestWorkerPool_AllPlantsSubscription(t *testing.T) {
	s, plant := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/all", P256DH: "k", Auth: "a", AllPlants: true,
	}, nil))
	require.NoError(t, s.PutSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/other", P256DH: "k", Auth: "a",
	}, nil))

	var endpoints []string
	wp := NewWorkerPool(1, s, &webpush.Options{}, EnglishTexts)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			endpoints = append(endpoints, sub.Endpoint)
			return response(http.StatusCreated), nil
		},
	}

	wp.sendRemindersForPlant(ctx, Reminder{PlantID: plant.ID, PlantName: plant.Name, Status: schedule.StatusNever})
	assert.Equal(t, []string{"https://example.com/all"}, endpoints)
}

func TestTexts_Build(t *testing.T) {
	p := EnglishTexts.Build(Reminder{PlantID: 4, PlantName: "Pothos", Status: schedule.StatusNever})
	assert.Equal(t, "💧 Time to water Pothos", p.Title)
	assert.Equal(t, "You have not watered it yet", p.Body)
	assert.Equal(t, "/plants/4", p.URL)

	p = EnglishTexts.Build(Reminder{PlantID: 4, PlantName: "Pothos", Status: schedule.StatusSoon, Fertilize: true, Relative: "In 2 days"})
	assert.Equal(t, "Watering due: In 2 days · Fertilize with this watering!", p.Body)
	assert.True(t, p.Fertilize)

	assert.Equal(t, SpanishTexts, TextsFor("es"))
	assert.Equal(t, EnglishTexts, TextsFor("en"))
}
