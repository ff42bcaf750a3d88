package report

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/moneybox/internal/domain"
)

type fakeSource struct {
	txs   []domain.Transaction
	cats  []domain.Category
	rev   uint64
	reads int
}

func (f *fakeSource) Transactions() []domain.Transaction {
	f.reads++
	return f.txs
}
func (f *fakeSource) Categories() []domain.Category { return f.cats }
func (f *fakeSource) Revision() uint64              { return f.rev }

var ref = time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)

func tx(id, amount string, typ domain.TransactionType, cat string, date time.Time) domain.Transaction {
	return domain.Transaction{ID: id, Amount: decimal.RequireFromString(amount), Type: typ, CategoryID: cat, Date: date}
}

func newSource() *fakeSource {
	return &fakeSource{
		cats: []domain.Category{
			{ID: "food", Name: "Food", Type: domain.Expense},
			{ID: "fun", Name: "Fun", Type: domain.Expense},
			{ID: "salary", Name: "Salary", Type: domain.Income},
		},
		txs: []domain.Transaction{
			tx("a", "100", domain.Income, "salary", ref.Add(-time.Hour)),
			tx("b", "30", domain.Expense, "food", ref.Add(-2*time.Hour)),
			tx("c", "10", domain.Expense, "fun", ref),
			tx("d", "5", domain.Expense, "gone", ref.Add(-3*time.Hour)),
			tx("e", "999", domain.Expense, "food", ref.AddDate(0, 0, -7)),
		},
	}
}

func TestDashboard(t *testing.T) {
	src := newSource()
	svc := NewService(src, time.Minute, zerolog.Nop())

	view := svc.Dashboard(domain.Day, ref)
	require.True(t, view.Income.Equal(decimal.NewFromInt(100)))
	require.True(t, view.Expense.Equal(decimal.NewFromInt(45)))
	require.True(t, view.Balance.Equal(decimal.NewFromInt(55)))

	var ids []string
	for _, r := range view.Rows {
		ids = append(ids, r.Transaction.ID)
	}
	require.Equal(t, []string{"c", "a", "b"}, ids, "newest first, orphan skipped")
	require.Equal(t, "Fun", view.Rows[0].Category.Name)
}

func TestStatisticsUsesCategoriesOfType(t *testing.T) {
	src := newSource()
	svc := NewService(src, time.Minute, zerolog.Nop())

	view := svc.Statistics(domain.Day, ref, domain.Expense)
	require.Len(t, view.Summary, 2)
	require.Equal(t, "food", view.Summary[0].Category.ID)
	require.InDelta(t, 75.0, view.Summary[0].Percentage, 1e-9)
	require.InDelta(t, 25.0, view.Summary[1].Percentage, 1e-9)

	income := svc.Statistics(domain.Day, ref, domain.Income)
	require.Len(t, income.Summary, 1)
	require.InDelta(t, 100.0, income.Summary[0].Percentage, 1e-9)

	month := svc.Statistics(domain.Month, ref, domain.Expense)
	require.True(t, month.Expense.Equal(decimal.NewFromInt(1044)))
}

func TestCacheFollowsRevision(t *testing.T) {
	src := newSource()
	svc := NewService(src, time.Minute, zerolog.Nop())

	svc.Dashboard(domain.Day, ref)
	svc.Dashboard(domain.Day, ref.Add(-time.Minute))
	require.Equal(t, 1, src.reads, "same range and revision is served from cache")

	src.txs = append(src.txs, tx("f", "1", domain.Income, "salary", ref))
	src.rev++
	view := svc.Dashboard(domain.Day, ref)
	require.Equal(t, 2, src.reads)
	require.Len(t, view.Rows, 4)

	svc.Purge()
	svc.Dashboard(domain.Day, ref)
	require.Equal(t, 3, src.reads, "purged views are rebuilt")
}
