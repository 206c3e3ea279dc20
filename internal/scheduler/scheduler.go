package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/aruizh/wind-history/internal/wind"
)

// Scheduler periodically refreshes the wind history cache, replacing the
// manual refresh button for unattended deployments.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *wind.Service
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service *wind.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running wind history refresh")

		// A full backfill walks many 30-day sub-windows with a fixed delay
		// between them, so the budget is generous.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		result, err := s.service.Refresh(ctx)
		if err != nil {
			log.Printf("scheduler: refresh failed for %s: %v", s.service.Location().Key(), err)
			return
		}
		for _, w := range result.Warnings {
			log.Printf("scheduler: warning for %s..%s: %s",
				w.Window.Start.Format(time.RFC3339), w.Window.End.Format(time.RFC3339), w.Message)
		}
		log.Printf("scheduler: refresh done: state=%s added=%d total=%d", result.State, result.Added, result.Total)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
