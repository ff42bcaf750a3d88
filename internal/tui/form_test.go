package tui

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/moneybox/internal/domain"
)

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]string{
		"12":     "12",
		" 3,50 ": "3.5",
		"0.01":   "0.01",
		"1.500":  "1.5",
	} {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		require.True(t, got.Equal(decimal.RequireFromString(want)), in)
	}
	for _, in := range []string{"", "abc", "0", "-5", "1.234"} {
		_, err := parseAmount(in)
		require.Error(t, err, in)
	}
}

func TestResolveCategory(t *testing.T) {
	expense := categoriesOfType(domain.DefaultCategories(), domain.Expense)

	cases := map[string]string{
		"food":      "Food",
		"  HEALTH ": "Health",
		"tr":        "Transport",
		"Shoping":   "Shopping",
		"Educaton":  "Education",
	}
	for in, want := range cases {
		got, err := resolveCategory(in, expense)
		require.NoError(t, err, in)
		require.Equal(t, want, got.Name, in)
	}

	for _, in := range []string{"", "Salary", "zzz"} {
		_, err := resolveCategory(in, expense)
		require.Error(t, err, in)
	}
}

func TestSuggestions(t *testing.T) {
	income := categoriesOfType(domain.DefaultCategories(), domain.Income)
	require.Equal(t, []string{"Salary", "Freelance", "Gifts", "Investments"}, suggestions("", income))
	require.Equal(t, []string{"Freelance"}, suggestions("fr", income))
}

func TestFormBuild(t *testing.T) {
	now := time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)
	f := newAddForm()
	f.input("2")
	f.input("5")
	f.backspace()
	f.input("0")
	f.next()
	f.input("i")
	f.next()
	f.input("sal")
	f.next()
	f.input("bonus")

	n, cat, err := f.build(domain.DefaultCategories(), now)
	require.NoError(t, err)
	require.Equal(t, "Salary", cat.Name)
	require.True(t, n.Amount.Equal(decimal.NewFromInt(20)))
	require.Equal(t, domain.Income, n.Type)
	require.Equal(t, cat.ID, n.CategoryID)
	require.Equal(t, "bonus", n.Note)
	require.Equal(t, now, n.Date)
}

func TestFormCategoryMustMatchType(t *testing.T) {
	f := newAddForm()
	f.amount = "5"
	f.category = "Salary"
	_, _, err := f.build(domain.DefaultCategories(), time.Now())
	require.Error(t, err)
}
