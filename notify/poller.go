// Package notify implements the client-side auto-refresh of the notification
// feed: a fixed-interval poll of the unread counter, with a callback when
// the count changes.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taxfree-rdc/taxfree-go/api"
)

// DefaultInterval matches the UI's refresh cadence.
const DefaultInterval = 30 * time.Second

// Poller polls the unread notification count on a fixed interval.
type Poller struct {
	notifications *api.NotificationService
	interval      time.Duration
	onChange      func(unread int)
	log           zerolog.Logger

	mu       sync.Mutex
	lastSeen int
	seeded   bool
}

// Option modifies the Poller instance.
type Option func(*Poller)

// WithInterval overrides the polling cadence.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) { p.interval = interval }
}

// WithOnChange registers the callback fired when the unread count changes.
func WithOnChange(fn func(unread int)) Option {
	return func(p *Poller) { p.onChange = fn }
}

// WithLogger sets the poller logger (disabled by default).
func WithLogger(log zerolog.Logger) Option {
	return func(p *Poller) { p.log = log }
}

// New creates a poller over the notification service.
func New(notifications *api.NotificationService, opts ...Option) *Poller {
	p := &Poller{
		notifications: notifications,
		interval:      DefaultInterval,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until the context is cancelled. Poll failures are logged and
// retried on the next tick; only context cancellation stops the loop.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Unread returns the last successfully fetched unread count.
func (p *Poller) Unread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

func (p *Poller) poll(ctx context.Context) {
	count, err := p.notifications.Unread(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("notification poll failed")
		return
	}

	p.mu.Lock()
	changed := !p.seeded || count.Count != p.lastSeen
	p.lastSeen = count.Count
	p.seeded = true
	p.mu.Unlock()

	if changed && p.onChange != nil {
		p.onChange(count.Count)
	}
}
