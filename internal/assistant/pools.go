// Package assistant holds the canned messages the virtual assistant picks
// from and the rules for choosing a reaction pool.
package assistant

import (
	"github.com/shopspring/decimal"

	"github.com/jask/moneybox/internal/domain"
)

var two = decimal.NewFromInt(2)

// Reactions are the four pools a transaction reaction is drawn from.
type Reactions struct {
	Income     []string
	BigIncome  []string
	Expense    []string
	BigExpense []string
}

// Pools is the full message set.
type Pools struct {
	Tips      []string
	Greetings []string
	Reactions Reactions
}

// IsBigAmount reports whether amount is more than twice the average.
func IsBigAmount(amount, average decimal.Decimal) bool {
	return amount.GreaterThan(average.Mul(two))
}

// ReactionPool selects the pool for a transaction of typ.
func (p Pools) ReactionPool(typ domain.TransactionType, big bool) []string {
	switch {
	case typ == domain.Income && big:
		return p.Reactions.BigIncome
	case typ == domain.Income:
		return p.Reactions.Income
	case big:
		return p.Reactions.BigExpense
	default:
		return p.Reactions.Expense
	}
}

// DefaultPools returns the built-in messages.
func DefaultPools() Pools {
	return Pools{
		Tips: []string{
			"Write down every expense, even the small ones. Coffee adds up!",
			"Try the 50/30/20 rule: needs, wants and savings.",
			"Check your statistics weekly to spot where the money goes.",
			"Set aside a little from every income before you spend anything.",
			"Subscriptions you forgot about are the sneakiest expenses.",
			"A shopping list is the cheapest financial advisor there is.",
			"Compare this month with last month. Small trends become big ones.",
			"An emergency fund of three months of expenses buys a lot of calm.",
		},
		Greetings: []string{
			"Hi! I'm Baxik, let's look after your money together.",
			"Welcome back! Ready to count some coins?",
			"Hello again! Every recorded transaction makes the picture clearer.",
			"Good to see you! Let's check how the budget is doing.",
		},
		Reactions: Reactions{
			Income: []string{
				"Nice, money in! Don't forget to save a bit.",
				"Income recorded. The balance says thank you!",
				"Every bit counts. Well done!",
			},
			BigIncome: []string{
				"Wow, that's a big one! Time to think about savings goals.",
				"Jackpot! Maybe put part of it aside?",
				"Impressive income! Your future self is cheering.",
			},
			Expense: []string{
				"Expense noted. Keeping track is half the battle.",
				"Recorded! Small expenses are easy to forget, good job.",
				"Got it. Let's keep an eye on that category.",
			},
			BigExpense: []string{
				"That's a big expense! Was it planned?",
				"Whoa, that one hurts. Let's check the budget.",
				"Big purchase! Make sure it fits this month's plan.",
			},
		},
	}
}
