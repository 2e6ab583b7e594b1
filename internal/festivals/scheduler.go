package festivals

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// nightly at 00:00:00 (seconds field enabled)
const nightlySpec = "0 0 0 * * *"

// Job is the rollover work run by the scheduler.
type Job func(ctx context.Context) error

// Scheduler runs the festival rollover every night and once shortly after Start.
type Scheduler struct {
	job          Job
	initialDelay time.Duration

	mu    sync.Mutex
	cron  *cron.Cron
	timer *time.Timer
}

func NewScheduler(job Job) *Scheduler {
	return &Scheduler{job: job, initialDelay: time.Second}
}

// WithInitialDelay overrides the delay of the first run after Start.
func (s *Scheduler) WithInitialDelay(d time.Duration) *Scheduler {
	s.initialDelay = d
	return s
}

// Start schedules the jobs. Calling Start on a running scheduler restarts it.
func (s *Scheduler) Start() error {
	s.Stop()

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(nightlySpec, s.run); err != nil {
		log.Printf("[festivals] failed to create cron job: %v", err)
		return err
	}

	s.mu.Lock()
	s.cron = c
	s.timer = time.AfterFunc(s.initialDelay, s.run)
	s.mu.Unlock()

	c.Start()
	log.Println("[festivals] rollover scheduler started (nightly at 12:00AM)")
	return nil
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	c, t := s.cron, s.timer
	s.cron, s.timer = nil, nil
	s.mu.Unlock()

	if t != nil {
		t.Stop()
	}
	if c != nil {
		<-c.Stop().Done()
		log.Println("[festivals] rollover scheduler stopped")
	}
}

// Trigger runs the job synchronously.
func (s *Scheduler) Trigger(ctx context.Context) error {
	return s.job(ctx)
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := s.job(ctx); err != nil {
		log.Printf("[festivals] rollover failed: %v", err)
	}
}
