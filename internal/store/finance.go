package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jask/moneybox/internal/domain"
	"github.com/jask/moneybox/internal/logger"
	"github.com/jask/moneybox/internal/persist"
)

// FinanceState is the persisted blob of the finance store.
type FinanceState struct {
	Transactions []domain.Transaction `json:"transactions"`
	Categories   []domain.Category    `json:"categories"`
	Settings     domain.AppSettings   `json:"settings"`
}

func (s FinanceState) clone() FinanceState {
	return FinanceState{
		Transactions: slices.Clone(s.Transactions),
		Categories:   slices.Clone(s.Categories),
		Settings:     s.Settings,
	}
}

// TransactionStore owns transactions, categories and settings.
// It performs no validation: amounts and category references are the
// caller's responsibility.
type TransactionStore struct {
	mu        sync.RWMutex
	state     FinanceState
	revision  uint64
	persister *persist.Persister
	opts      options
	log       zerolog.Logger
}

// OpenTransactionStore loads the finance blob from storage, or starts from
// the defaults when none was saved yet. It logs through the logger carried
// by ctx.
func OpenTransactionStore(ctx context.Context, storage persist.Storage, opts ...Option) (*TransactionStore, error) {
	o := defaultOptions()
	o.log = logger.FromContext(ctx)
	for _, opt := range opts {
		opt(&o)
	}
	s := &TransactionStore{
		opts: o,
		log:  o.log.With().Str("store", "finance").Logger(),
	}

	state := s.defaultState()
	blob, err := storage.Load(ctx, persist.FinanceKey)
	switch {
	case errors.Is(err, persist.ErrNotFound):
		s.log.Info().Msg("no saved finance state, starting fresh")
	case err != nil:
		return nil, fmt.Errorf("load finance state: %w", err)
	default:
		if err := json.Unmarshal(blob, &state); err != nil {
			return nil, fmt.Errorf("decode finance state: %w", err)
		}
		s.log.Debug().
			Int("transactions", len(state.Transactions)).
			Int("categories", len(state.Categories)).
			Msg("finance state loaded")
	}
	if state.Transactions == nil {
		state.Transactions = []domain.Transaction{}
	}
	s.state = state
	s.persister = persist.NewPersister(storage, persist.FinanceKey, o.log)
	return s, nil
}

func (s *TransactionStore) defaultState() FinanceState {
	settings := domain.DefaultSettings()
	settings.Currency = s.opts.defaultCurrency
	return FinanceState{
		Transactions: []domain.Transaction{},
		Categories:   domain.DefaultCategories(),
		Settings:     settings,
	}
}

// commitLocked bumps the revision and schedules a write of the full state.
// Callers hold s.mu.
func (s *TransactionStore) commitLocked(action string) *persist.Pending {
	s.revision++
	blob, err := json.Marshal(s.state)
	if err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("encode finance state")
		return persist.Resolved(err)
	}
	s.log.Debug().Str("action", action).Uint64("revision", s.revision).Msg("finance state changed")
	return s.persister.Schedule(blob)
}

func (s *TransactionStore) uniqueIDLocked(taken func(string) bool) string {
	for {
		id := s.opts.newID()
		if id != "" && !taken(id) {
			return id
		}
	}
}

func (s *TransactionStore) hasTransactionLocked(id string) bool {
	return slices.ContainsFunc(s.state.Transactions, func(t domain.Transaction) bool { return t.ID == id })
}

func (s *TransactionStore) hasCategoryLocked(id string) bool {
	return slices.ContainsFunc(s.state.Categories, func(c domain.Category) bool { return c.ID == id })
}

// AddTransaction assigns a fresh id and appends the transaction.
func (s *TransactionStore) AddTransaction(n domain.NewTransaction) (domain.Transaction, *persist.Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := n.WithID(s.uniqueIDLocked(s.hasTransactionLocked))
	s.state.Transactions = append(slices.Clone(s.state.Transactions), t)
	return t, s.commitLocked("add transaction")
}

// UpdateTransaction merges patch into the transaction with id. Unknown ids
// leave the list unchanged; the state is persisted either way.
func (s *TransactionStore) UpdateTransaction(id string, patch domain.TransactionPatch) *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := slices.Clone(s.state.Transactions)
	found := false
	for i, t := range next {
		if t.ID == id {
			next[i] = patch.Apply(t)
			found = true
		}
	}
	if !found {
		s.log.Debug().Str("id", id).Msg("update of unknown transaction ignored")
	}
	s.state.Transactions = next
	return s.commitLocked("update transaction")
}

// DeleteTransaction removes the transaction with id, if present.
func (s *TransactionStore) DeleteTransaction(id string) *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Transactions = slices.DeleteFunc(slices.Clone(s.state.Transactions), func(t domain.Transaction) bool {
		return t.ID == id
	})
	return s.commitLocked("delete transaction")
}

// AddCategory assigns a fresh id and appends the category.
func (s *TransactionStore) AddCategory(n domain.NewCategory) (domain.Category, *persist.Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := n.WithID(s.uniqueIDLocked(s.hasCategoryLocked))
	s.state.Categories = append(slices.Clone(s.state.Categories), c)
	return c, s.commitLocked("add category")
}

// UpdateCategory merges patch into the category with id.
func (s *TransactionStore) UpdateCategory(id string, patch domain.CategoryPatch) *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := slices.Clone(s.state.Categories)
	for i, c := range next {
		if c.ID == id {
			next[i] = patch.Apply(c)
		}
	}
	s.state.Categories = next
	return s.commitLocked("update category")
}

// DeleteCategory removes the category with id. Transactions pointing at it
// are left alone and become orphans.
func (s *TransactionStore) DeleteCategory(id string) *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Categories = slices.DeleteFunc(slices.Clone(s.state.Categories), func(c domain.Category) bool {
		return c.ID == id
	})
	return s.commitLocked("delete category")
}

// UpdateSettings shallow-merges patch into the settings.
func (s *TransactionStore) UpdateSettings(patch domain.SettingsPatch) *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings = patch.Apply(s.state.Settings)
	return s.commitLocked("update settings")
}

// Reset empties the transactions and restores the default categories and
// settings.
func (s *TransactionStore) Reset() *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.defaultState()
	s.log.Info().Msg("finance store reset")
	return s.commitLocked("reset")
}

// Snapshot returns a copy of the whole state.
func (s *TransactionStore) Snapshot() FinanceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Transactions returns a copy of the transaction list in insertion order.
func (s *TransactionStore) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Transactions)
}

// Categories returns a copy of the category list.
func (s *TransactionStore) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Categories)
}

// Settings returns the current settings.
func (s *TransactionStore) Settings() domain.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// Transaction looks a transaction up by id.
func (s *TransactionStore) Transaction(id string) (domain.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.state.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Transaction{}, false
}

// Category looks a category up by id. A missing category is a normal
// outcome for orphaned transactions.
func (s *TransactionStore) Category(id string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// Revision increases with every mutation; derived views key caches on it.
func (s *TransactionStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Flush waits for every scheduled write to complete.
func (s *TransactionStore) Flush(ctx context.Context) error {
	return s.persister.Flush(ctx)
}

// Close flushes outstanding writes and stops the writer.
func (s *TransactionStore) Close() error {
	return s.persister.Close()
}
