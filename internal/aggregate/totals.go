package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jask/moneybox/internal/domain"
)

// Balance is total income minus total expense.
func Balance(txs []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Signed())
	}
	return total
}

// IncomeTotal sums the amounts of income transactions.
func IncomeTotal(txs []domain.Transaction) decimal.Decimal {
	return sumOfType(txs, domain.Income)
}

// ExpenseTotal sums the amounts of expense transactions.
func ExpenseTotal(txs []domain.Transaction) decimal.Decimal {
	return sumOfType(txs, domain.Expense)
}

func sumOfType(txs []domain.Transaction, typ domain.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == typ {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Sum adds every amount regardless of type.
func Sum(txs []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	return total
}

// AverageAmount is the arithmetic mean of the amounts, or zero for an empty list.
func AverageAmount(txs []domain.Transaction) decimal.Decimal {
	if len(txs) == 0 {
		return decimal.Zero
	}
	return Sum(txs).Div(decimal.NewFromInt(int64(len(txs))))
}

// FilterByType keeps the transactions of one type.
func FilterByType(txs []domain.Transaction, typ domain.TransactionType) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

// SortByDateDesc returns a copy sorted newest first. Equal dates keep input order.
func SortByDateDesc(txs []domain.Transaction) []domain.Transaction {
	out := append([]domain.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Latest returns the transaction with the newest date. Ties go to the one
// that appears first.
func Latest(txs []domain.Transaction) (domain.Transaction, bool) {
	if len(txs) == 0 {
		return domain.Transaction{}, false
	}
	latest := txs[0]
	for _, t := range txs[1:] {
		if t.Date.After(latest.Date) {
			latest = t
		}
	}
	return latest, true
}
