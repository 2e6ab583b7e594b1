package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

// ErrThrottled is returned by Refresh when called again too soon.
var ErrThrottled = errors.New("calendar refresh throttled")

// EventSource lists provider events starting in [from, to).
type EventSource interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error)
}

// Window bounds the fetched range around now.
type Window struct {
	Past  time.Duration
	Ahead time.Duration
}

var DefaultWindow = Window{Past: 30 * 24 * time.Hour, Ahead: 180 * 24 * time.Hour}

// Poller keeps a read-only cache of provider events. The cache is refreshed on a cron
// interval and on demand; it is never written into the local event store.
type Poller struct {
	src     EventSource
	every   time.Duration
	window  Window
	limiter *rate.Limiter
	now     func() time.Time

	mu        sync.RWMutex
	gen       uint64
	events    []domain.CalendarEvent
	fetchedAt time.Time
	cron      *cron.Cron
}

// NewPoller polls src every interval. Manual refreshes are limited to one per
// minRefreshGap.
func NewPoller(src EventSource, interval, minRefreshGap time.Duration) *Poller {
	return &Poller{
		src:     src,
		every:   interval,
		window:  DefaultWindow,
		limiter: rate.NewLimiter(rate.Every(minRefreshGap), 1),
		now:     time.Now,
	}
}

func (p *Poller) WithWindow(w Window) *Poller {
	p.window = w
	return p
}

// Start fetches once in the background and schedules the periodic fetch.
func (p *Poller) Start() error {
	p.Stop()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.every), p.run); err != nil {
		log.Printf("[calendar] failed to create cron job: %v", err)
		return err
	}
	p.mu.Lock()
	p.cron = c
	p.mu.Unlock()

	c.Start()
	go p.run()
	log.Printf("[calendar] poller started every=%s", p.every)
	return nil
}

// Stop halts polling and drops the cache.
func (p *Poller) Stop() {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.gen++
	p.events = nil
	p.fetchedAt = time.Time{}
	p.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		log.Println("[calendar] poller stopped")
	}
}

// Refresh fetches immediately unless a manual refresh ran too recently.
func (p *Poller) Refresh(ctx context.Context) error {
	if !p.limiter.Allow() {
		return ErrThrottled
	}
	return p.fetch(ctx)
}

func (p *Poller) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := p.fetch(ctx); err != nil {
		log.Printf("[calendar] poll failed: %v", err)
	}
}

func (p *Poller) fetch(ctx context.Context) error {
	p.mu.RLock()
	gen := p.gen
	p.mu.RUnlock()

	now := p.now()
	events, err := p.src.ListEvents(ctx, now.Add(-p.window.Past), now.Add(p.window.Ahead))
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	// a fetch that outlived Stop belongs to the previous session
	if p.gen == gen {
		p.events = events
		p.fetchedAt = now
	}
	return nil
}

// Events returns a copy of the cached provider events.
func (p *Poller) Events() []domain.CalendarEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.CalendarEvent(nil), p.events...)
}

func (p *Poller) FetchedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetchedAt
}
