// Package demo fills an empty finance store with sample transactions so the
// views have something to show on a fresh install.
package demo

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/moneybox/internal/domain"
	"github.com/jask/moneybox/internal/persist"
)

// Adder is the part of the finance store the generator writes through.
type Adder interface {
	Transactions() []domain.Transaction
	Categories() []domain.Category
	AddTransaction(domain.NewTransaction) (domain.Transaction, *persist.Pending)
}

var notes = map[string][]string{
	"Food":          {"groceries", "coffee", "lunch out", ""},
	"Transport":     {"metro card", "taxi", "fuel"},
	"Housing":       {"rent", "electricity", "internet"},
	"Entertainment": {"cinema", "concert", ""},
	"Salary":        {"monthly salary"},
	"Freelance":     {"logo project", "consulting"},
}

// Seed adds n sample transactions dated within the last 60 days of now.
// It does nothing when the store already holds transactions and reports how
// many it added. The last returned Pending covers every write.
func Seed(store Adder, n int, r *rand.Rand, now time.Time) (int, *persist.Pending) {
	if len(store.Transactions()) > 0 || n <= 0 {
		return 0, persist.Resolved(nil)
	}
	var expense, income []domain.Category
	for _, c := range store.Categories() {
		if c.Type == domain.Income {
			income = append(income, c)
		} else {
			expense = append(expense, c)
		}
	}
	if len(expense) == 0 && len(income) == 0 {
		return 0, persist.Resolved(nil)
	}

	var last *persist.Pending
	added := 0
	for i := 0; i < n; i++ {
		// roughly one income for every five expenses
		pool, typ, lo, hi := expense, domain.Expense, 100, 5000
		if len(expense) == 0 || (len(income) > 0 && r.IntN(6) == 0) {
			pool, typ, lo, hi = income, domain.Income, 10000, 90000
		}
		cat := pool[r.IntN(len(pool))]
		cents := int64(lo + r.IntN(hi-lo))
		note := ""
		if opts := notes[cat.Name]; len(opts) > 0 {
			note = opts[r.IntN(len(opts))]
		}
		date := now.AddDate(0, 0, -r.IntN(60)).Add(-time.Duration(r.IntN(12*60)) * time.Minute)
		_, last = store.AddTransaction(domain.NewTransaction{
			Amount:     decimal.New(cents, -2),
			Type:       typ,
			CategoryID: cat.ID,
			Date:       date,
			Note:       note,
		})
		added++
	}
	return added, last
}
