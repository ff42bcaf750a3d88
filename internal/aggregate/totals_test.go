package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/moneybox/internal/domain"
)

func tx(id string, amount string, typ domain.TransactionType, cat string) domain.Transaction {
	return domain.Transaction{
		ID:         id,
		Amount:     decimal.RequireFromString(amount),
		Type:       typ,
		CategoryID: cat,
		Date:       time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestTotalsScenario(t *testing.T) {
	txs := []domain.Transaction{
		tx("1", "100", domain.Income, "salary"),
		tx("2", "40", domain.Expense, "food"),
	}
	require.True(t, Balance(txs).Equal(decimal.NewFromInt(60)))
	require.True(t, IncomeTotal(txs).Equal(decimal.NewFromInt(100)))
	require.True(t, ExpenseTotal(txs).Equal(decimal.NewFromInt(40)))
}

func TestTotalsProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		var txs []domain.Transaction
		n := r.Intn(20)
		for i := 0; i < n; i++ {
			typ := domain.Income
			if r.Intn(2) == 0 {
				typ = domain.Expense
			}
			amt := decimal.New(int64(r.Intn(100000)+1), -2)
			txs = append(txs, domain.Transaction{ID: "x", Amount: amt, Type: typ})
		}
		in, out := IncomeTotal(txs), ExpenseTotal(txs)
		require.True(t, Balance(txs).Equal(in.Sub(out)), "round %d", round)
		require.True(t, in.Add(out).Equal(Sum(txs)), "round %d", round)
	}
}

func TestAverageAmount(t *testing.T) {
	require.True(t, AverageAmount(nil).IsZero())
	require.True(t, AverageAmount([]domain.Transaction{}).IsZero())

	txs := []domain.Transaction{
		tx("1", "10", domain.Income, "a"),
		tx("2", "20", domain.Expense, "a"),
		tx("3", "60", domain.Expense, "b"),
	}
	require.True(t, AverageAmount(txs).Equal(decimal.NewFromInt(30)))

	odd := []domain.Transaction{tx("1", "1", domain.Income, "a"), tx("2", "1", domain.Income, "a"), tx("3", "2", domain.Income, "a")}
	want := decimal.NewFromInt(4).Div(decimal.NewFromInt(3))
	require.True(t, AverageAmount(odd).Equal(want))
}

func TestSortByDateDescAndLatest(t *testing.T) {
	base := time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{ID: "mid", Date: base},
		{ID: "new", Date: base.Add(time.Hour)},
		{ID: "old", Date: base.Add(-time.Hour)},
		{ID: "mid2", Date: base},
	}
	sorted := SortByDateDesc(txs)
	require.Equal(t, []string{"new", "mid", "mid2", "old"}, txIDs(sorted))
	require.Equal(t, "mid", txs[0].ID, "input must stay untouched")

	latest, ok := Latest(txs)
	require.True(t, ok)
	require.Equal(t, "new", latest.ID)

	_, ok = Latest(nil)
	require.False(t, ok)
}

func TestFilterByType(t *testing.T) {
	txs := []domain.Transaction{
		tx("1", "10", domain.Income, "a"),
		tx("2", "20", domain.Expense, "a"),
	}
	require.Equal(t, []string{"2"}, txIDs(FilterByType(txs, domain.Expense)))
	require.Equal(t, []string{"1"}, txIDs(FilterByType(txs, domain.Income)))
}
