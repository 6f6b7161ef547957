package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"plant-care-backend/config"
	"plant-care-backend/internal/notification"
	"plant-care-backend/internal/schedule"
	"plant-care-backend/internal/store"
)

// Dispatcher queues reminders for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, r notification.Reminder) error
}

// Service periodically sweeps all plants and dispatches reminders for the
// ones that need attention.
type Service struct {
	cfg        config.ReminderConfig
	store      store.Store
	dispatcher Dispatcher
	phrases    schedule.Phrases
	statuses   map[schedule.Status]bool
	loc        *time.Location
	now        func() time.Time
}

// NewService creates a reminder service. It fails on unknown statuses or timezones.
func NewService(cfg config.ReminderConfig, s store.Store, d Dispatcher, phrases schedule.Phrases) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	statuses := make(map[schedule.Status]bool, len(cfg.Statuses))
	for _, raw := range cfg.Statuses {
		st := schedule.Status(raw)
		if !st.Valid() {
			return nil, fmt.Errorf("unknown reminder status %q", raw)
		}
		statuses[st] = true
	}

	return &Service{
		cfg:        cfg,
		store:      s,
		dispatcher: d,
		phrases:    phrases,
		statuses:   statuses,
		loc:        loc,
		now:        time.Now,
	}, nil
}

// Run schedules the sweep on the configured cron expression and blocks
// until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		log.Println("Reminders are disabled. Not starting.")
		return nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.cfg.Cron, func() {
		if _, err := s.SweepOnce(ctx); err != nil {
			log.Printf("Reminder sweep failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder cron %q: %w", s.cfg.Cron, err)
	}

	log.Printf("Starting reminder service (cron %q, %s)...", s.cfg.Cron, s.loc)
	c.Start()
	<-ctx.Done()

	log.Println("Reminder service shutting down.")
	<-c.Stop().Done()
	return nil
}

// SweepOnce evaluates every plant against a single now and dispatches the
// due reminders. It returns how many were dispatched.
func (s *Service) SweepOnce(ctx context.Context) (int, error) {
	plants, err := s.store.ListPlants(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now().In(s.loc)
	dispatched := 0
	for i := range plants {
		p := &plants[i]
		summary := schedule.Summarize(p.Schedule(), now)
		if !s.statuses[summary.Status] {
			continue
		}

		r := notification.Reminder{
			PlantID:   p.ID,
			PlantName: p.Name,
			Status:    summary.Status,
			Fertilize: summary.NeedsFertilizer,
			Relative:  s.phrases.Format(summary.Relative),
		}
		if err := s.dispatcher.Dispatch(ctx, r); err != nil {
			return dispatched, fmt.Errorf("failed to dispatch reminder for plant %d: %w", p.ID, err)
		}
		dispatched++
	}

	log.Printf("Reminder sweep finished: %d of %d plants need attention.", dispatched, len(plants))
	return dispatched, nil
}
