package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jask/moneybox/internal/aggregate"
	"github.com/jask/moneybox/internal/assistant"
	"github.com/jask/moneybox/internal/domain"
	"github.com/jask/moneybox/internal/logger"
	"github.com/jask/moneybox/internal/persist"
)

// AssistantState is the persisted blob of the assistant store.
type AssistantState struct {
	LastInteraction    *time.Time `json:"lastInteraction"`
	TipIndex           int        `json:"tipIndex"`
	GreetingIndex      int        `json:"greetingIndex"`
	LastTransactionID  *string    `json:"lastTransactionId"`
	ShowForTransaction bool       `json:"showBaxikForTransaction"`
}

// AssistantStore tracks which canned message to surface next. It is
// independent of the finance store and only reads transactions handed to it.
type AssistantStore struct {
	mu        sync.Mutex
	state     AssistantState
	persister *persist.Persister
	opts      options
	log       zerolog.Logger

	trigger    Timer
	generation uint64
	closed     bool
}

// OpenAssistantStore loads the assistant blob from storage.
func OpenAssistantStore(ctx context.Context, storage persist.Storage, opts ...Option) (*AssistantStore, error) {
	o := defaultOptions()
	o.log = logger.FromContext(ctx)
	for _, opt := range opts {
		opt(&o)
	}
	s := &AssistantStore{
		opts: o,
		log:  o.log.With().Str("store", "assistant").Logger(),
	}

	blob, err := storage.Load(ctx, persist.AssistantKey)
	switch {
	case errors.Is(err, persist.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load assistant state: %w", err)
	default:
		if err := json.Unmarshal(blob, &s.state); err != nil {
			return nil, fmt.Errorf("decode assistant state: %w", err)
		}
	}
	// The flag only lives for one trigger window; a saved true is stale.
	s.state.ShowForTransaction = false
	s.persister = persist.NewPersister(storage, persist.AssistantKey, o.log)
	return s, nil
}

func (s *AssistantStore) commitLocked(action string) *persist.Pending {
	if s.closed {
		return persist.Resolved(persist.ErrClosed)
	}
	blob, err := json.Marshal(s.state)
	if err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("encode assistant state")
		return persist.Resolved(err)
	}
	return s.persister.Schedule(blob)
}

// rotate returns pool[*idx] and advances *idx. The returned message is the
// one at the index before advancing, so the first call on a fresh store
// yields pool[0].
func rotate(pool []string, idx *int) string {
	if len(pool) == 0 {
		return ""
	}
	cur := *idx % len(pool)
	if cur < 0 {
		cur += len(pool)
	}
	*idx = (cur + 1) % len(pool)
	return pool[cur]
}

// NextTip returns the next tip in rotation.
func (s *AssistantStore) NextTip() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tip := rotate(s.opts.pools.Tips, &s.state.TipIndex)
	s.commitLocked("next tip")
	return tip
}

// NextGreeting returns the next greeting in rotation.
func (s *AssistantStore) NextGreeting() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	greeting := rotate(s.opts.pools.Greetings, &s.state.GreetingIndex)
	s.commitLocked("next greeting")
	return greeting
}

// Reaction picks a random message for t. The pool depends on the
// transaction type and on whether its amount is more than twice average.
func (s *AssistantStore) Reaction(t domain.Transaction, average decimal.Decimal) string {
	pool := s.opts.pools.ReactionPool(t.Type, assistant.IsBigAmount(t.Amount, average))
	if len(pool) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return pool[s.opts.rand.IntN(len(pool))]
}

// TouchInteraction records the current time as the last interaction.
func (s *AssistantStore) TouchInteraction() *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.opts.now()
	s.state.LastInteraction = &now
	return s.commitLocked("touch interaction")
}

// SetLastTransactionID remembers the transaction most recently reacted to.
func (s *AssistantStore) SetLastTransactionID(id string) *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastTransactionID = &id
	return s.commitLocked("set last transaction")
}

// ReactToLatest reacts to the newest transaction in txs unless it was already
// reacted to and no trigger is active. The average passed to the reaction
// is taken over transactions of the same type.
func (s *AssistantStore) ReactToLatest(txs []domain.Transaction) (string, bool) {
	latest, ok := aggregate.Latest(txs)
	if !ok {
		return "", false
	}
	s.mu.Lock()
	seen := s.state.LastTransactionID != nil && *s.state.LastTransactionID == latest.ID
	forced := s.state.ShowForTransaction
	s.mu.Unlock()
	if seen && !forced {
		return "", false
	}

	avg := aggregate.AverageAmount(aggregate.FilterByType(txs, latest.Type))
	msg := s.Reaction(latest, avg)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.opts.now()
	id := latest.ID
	s.state.LastInteraction = &now
	s.state.LastTransactionID = &id
	s.commitLocked("react")
	return msg, true
}

// TriggerForTransaction raises the show-for-transaction flag and schedules
// it to drop after the trigger window. A second trigger inside the window
// cancels the pending clear and starts a new window.
func (s *AssistantStore) TriggerForTransaction() *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persist.Resolved(persist.ErrClosed)
	}
	s.stopTriggerLocked()
	s.state.ShowForTransaction = true
	gen := s.generation
	s.trigger = s.opts.scheduler.AfterFunc(s.opts.triggerWindow, func() { s.clearTrigger(gen) })
	return s.commitLocked("trigger")
}

func (s *AssistantStore) stopTriggerLocked() {
	if s.trigger != nil {
		s.trigger.Stop()
		s.trigger = nil
	}
	s.generation++
}

func (s *AssistantStore) clearTrigger(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.closed {
		return
	}
	s.trigger = nil
	s.state.ShowForTransaction = false
	s.commitLocked("clear trigger")
}

// ShowForTransaction reports whether a trigger window is active.
func (s *AssistantStore) ShowForTransaction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ShowForTransaction
}

// Reset clears the indices, the interaction and transaction tracking and
// cancels any active trigger.
func (s *AssistantStore) Reset() *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTriggerLocked()
	s.state = AssistantState{}
	s.log.Info().Msg("assistant store reset")
	return s.commitLocked("reset")
}

// State returns a copy of the current state.
func (s *AssistantStore) State() AssistantState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.LastInteraction != nil {
		t := *st.LastInteraction
		st.LastInteraction = &t
	}
	if st.LastTransactionID != nil {
		id := *st.LastTransactionID
		st.LastTransactionID = &id
	}
	return st
}

// Flush waits for every scheduled write to complete.
func (s *AssistantStore) Flush(ctx context.Context) error {
	return s.persister.Flush(ctx)
}

// Close cancels the trigger timer and flushes outstanding writes.
func (s *AssistantStore) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.stopTriggerLocked()
		s.closed = true
	}
	s.mu.Unlock()
	return s.persister.Close()
}
