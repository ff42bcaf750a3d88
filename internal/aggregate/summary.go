package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jask/moneybox/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// CategoryShare is one row of a category summary.
type CategoryShare struct {
	Category   domain.Category
	Amount     decimal.Decimal
	Percentage float64
}

// CategoryByID finds a category. A missing id is a normal outcome.
func CategoryByID(categories []domain.Category, id string) (domain.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// CategorySummary groups transactions by category, sums each group and
// computes its share of the total. Transactions whose category is not in
// categories are dropped before totalling, so they count toward neither the
// rows nor the denominator. Rows are sorted by descending amount; equal
// amounts keep first-seen order.
func CategorySummary(txs []domain.Transaction, categories []domain.Category) []CategoryShare {
	byID := make(map[string]int)
	var out []CategoryShare
	total := decimal.Zero
	for _, t := range txs {
		idx, ok := byID[t.CategoryID]
		if !ok {
			cat, found := CategoryByID(categories, t.CategoryID)
			if !found {
				continue
			}
			idx = len(out)
			byID[t.CategoryID] = idx
			out = append(out, CategoryShare{Category: cat, Amount: decimal.Zero})
		}
		out[idx].Amount = out[idx].Amount.Add(t.Amount)
		total = total.Add(t.Amount)
	}

	for i := range out {
		if total.IsPositive() {
			out[i].Percentage = out[i].Amount.Div(total).Mul(hundred).InexactFloat64()
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}
