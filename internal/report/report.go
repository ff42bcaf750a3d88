// Package report builds the derived views shown by the UI. Results are
// cached per store revision, so any mutation invalidates them.
package report

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jask/moneybox/internal/aggregate"
	"github.com/jask/moneybox/internal/domain"
)

// DefaultCacheExpiration is used when the service is built with a
// non-positive ttl.
const DefaultCacheExpiration = time.Minute

// Source is the read side of the finance store.
type Source interface {
	Transactions() []domain.Transaction
	Categories() []domain.Category
	Revision() uint64
}

// Row is a dashboard line: a transaction and its category.
type Row struct {
	Transaction domain.Transaction
	Category    domain.Category
}

// Dashboard is the period overview. Views are shared between callers and
// must not be modified.
type Dashboard struct {
	Period  domain.Period
	Range   aggregate.Range
	Balance decimal.Decimal
	Income  decimal.Decimal
	Expense decimal.Decimal
	// Rows are newest first; transactions with a missing category are left out.
	Rows []Row
}

// Statistics is the per-category breakdown of one transaction type.
type Statistics struct {
	Period  domain.Period
	Range   aggregate.Range
	Type    domain.TransactionType
	Income  decimal.Decimal
	Expense decimal.Decimal
	Summary []aggregate.CategoryShare
}

type Service struct {
	src   Source
	cache *cache.Cache
	log   zerolog.Logger
}

func NewService(src Source, ttl time.Duration, log zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	return &Service{
		src:   src,
		cache: cache.New(ttl, 2*ttl),
		log:   log.With().Str("component", "report").Logger(),
	}
}

func cacheKey(kind string, rev uint64, r aggregate.Range, extra string) string {
	return fmt.Sprintf("%s:%d:%d:%d:%s", kind, rev, r.Start.UnixNano(), r.End.UnixNano(), extra)
}

// Dashboard returns the overview of the period containing ref.
func (s *Service) Dashboard(period domain.Period, ref time.Time) Dashboard {
	r := aggregate.PeriodDates(period, ref)
	rev := s.src.Revision()
	key := cacheKey("dashboard", rev, r, "")
	if cached, found := s.cache.Get(key); found {
		return cached.(Dashboard)
	}

	txs := aggregate.InRange(s.src.Transactions(), r)
	cats := s.src.Categories()
	view := Dashboard{
		Period:  period,
		Range:   r,
		Balance: aggregate.Balance(txs),
		Income:  aggregate.IncomeTotal(txs),
		Expense: aggregate.ExpenseTotal(txs),
	}
	for _, t := range aggregate.SortByDateDesc(txs) {
		cat, ok := aggregate.CategoryByID(cats, t.CategoryID)
		if !ok {
			continue
		}
		view.Rows = append(view.Rows, Row{Transaction: t, Category: cat})
	}

	s.cache.Set(key, view, cache.DefaultExpiration)
	s.log.Debug().Str("period", string(period)).Uint64("revision", rev).Int("rows", len(view.Rows)).Msg("dashboard computed")
	return view
}

// Statistics returns the category breakdown of typ over the period
// containing ref. Only categories of typ take part.
func (s *Service) Statistics(period domain.Period, ref time.Time, typ domain.TransactionType) Statistics {
	r := aggregate.PeriodDates(period, ref)
	rev := s.src.Revision()
	key := cacheKey("statistics", rev, r, string(typ))
	if cached, found := s.cache.Get(key); found {
		return cached.(Statistics)
	}

	txs := aggregate.InRange(s.src.Transactions(), r)
	var cats []domain.Category
	for _, c := range s.src.Categories() {
		if c.Type == typ {
			cats = append(cats, c)
		}
	}
	view := Statistics{
		Period:  period,
		Range:   r,
		Type:    typ,
		Income:  aggregate.IncomeTotal(txs),
		Expense: aggregate.ExpenseTotal(txs),
		Summary: aggregate.CategorySummary(aggregate.FilterByType(txs, typ), cats),
	}

	s.cache.Set(key, view, cache.DefaultExpiration)
	s.log.Debug().Str("period", string(period)).Str("type", string(typ)).Uint64("revision", rev).Msg("statistics computed")
	return view
}

// Purge drops every cached view. Views of older revisions otherwise
// linger until they expire.
func (s *Service) Purge() {
	s.cache.Flush()
	s.log.Debug().Msg("report cache purged")
}
