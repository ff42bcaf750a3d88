// Package store holds the two persisted state containers: the finance store
// (transactions, categories, settings) and the assistant store (rotating
// message indices and last-seen transaction tracking).
//
// Both are explicit values built over an injected persist.Storage. Every
// mutation updates memory synchronously and schedules a full-state write
// whose completion is exposed as a *persist.Pending.
package store

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/moneybox/internal/assistant"
	"github.com/jask/moneybox/internal/domain"
)

// DefaultTriggerWindow is how long the show-for-transaction flag stays set.
const DefaultTriggerWindow = 500 * time.Millisecond

type options struct {
	log             zerolog.Logger
	newID           func() string
	now             func() time.Time
	defaultCurrency string
	pools           assistant.Pools
	rand            *rand.Rand
	scheduler       Scheduler
	triggerWindow   time.Duration
}

// Option configures a store.
type Option func(*options)

func defaultOptions() options {
	return options{
		log:             zerolog.Nop(),
		newID:           newTimeOrderedID,
		now:             time.Now,
		defaultCurrency: domain.DefaultCurrency,
		pools:           assistant.DefaultPools(),
		rand:            rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		scheduler:       RealScheduler{},
		triggerWindow:   DefaultTriggerWindow,
	}
}

func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// WithIDGenerator replaces the id generator. Collisions with existing ids are
// retried, so a generator only needs to be unique most of the time.
func WithIDGenerator(f func() string) Option {
	return func(o *options) { o.newID = f }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDefaultCurrency sets the currency used for fresh installs and resets.
func WithDefaultCurrency(symbol string) Option {
	return func(o *options) {
		if symbol != "" {
			o.defaultCurrency = symbol
		}
	}
}

// WithPools replaces the assistant message pools.
func WithPools(p assistant.Pools) Option {
	return func(o *options) { o.pools = p }
}

// WithRand sets the source used to pick reactions.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithScheduler sets the scheduler behind the auto-clearing flag.
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithTriggerWindow sets how long TriggerForTransaction keeps its flag up.
func WithTriggerWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.triggerWindow = d
		}
	}
}
