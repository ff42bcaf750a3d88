package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"

	"github.com/jask/moneybox/internal/domain"
)

// maxCategoryTypos is how far a typed category name may be from a real one.
const maxCategoryTypos = 2

type formField int

const (
	fieldAmount formField = iota
	fieldType
	fieldCategory
	fieldNote
	fieldCount
)

// addForm collects a new transaction. All validation happens here; the
// store accepts whatever it is given.
type addForm struct {
	focus    formField
	amount   string
	typ      domain.TransactionType
	category string
	note     string
	err      string
}

func newAddForm() addForm {
	return addForm{typ: domain.Expense}
}

func (f *addForm) next() { f.focus = (f.focus + 1) % fieldCount }
func (f *addForm) prev() { f.focus = (f.focus + fieldCount - 1) % fieldCount }

func (f *addForm) input(s string) {
	switch f.focus {
	case fieldAmount:
		f.amount += s
	case fieldType:
		switch strings.ToLower(s) {
		case "i", "+":
			f.typ = domain.Income
		case "e", "-":
			f.typ = domain.Expense
		case " ":
			f.typ = f.typ.Opposite()
		}
	case fieldCategory:
		f.category += s
	case fieldNote:
		f.note += s
	}
}

func (f *addForm) backspace() {
	trim := func(s string) string {
		r := []rune(s)
		if len(r) == 0 {
			return s
		}
		return string(r[:len(r)-1])
	}
	switch f.focus {
	case fieldAmount:
		f.amount = trim(f.amount)
	case fieldCategory:
		f.category = trim(f.category)
	case fieldNote:
		f.note = trim(f.note)
	}
}

// build validates the form against the categories of the chosen type.
func (f addForm) build(categories []domain.Category, now time.Time) (domain.NewTransaction, domain.Category, error) {
	amount, err := parseAmount(f.amount)
	if err != nil {
		return domain.NewTransaction{}, domain.Category{}, err
	}
	cat, err := resolveCategory(f.category, categoriesOfType(categories, f.typ))
	if err != nil {
		return domain.NewTransaction{}, domain.Category{}, err
	}
	return domain.NewTransaction{
		Amount:     amount,
		Type:       f.typ,
		CategoryID: cat.ID,
		Date:       now,
		Note:       strings.TrimSpace(f.note),
	}, cat, nil
}

// parseAmount accepts a positive number with at most two decimals; a comma
// works as the decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, errors.New("enter an amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.New("amount must be greater than zero")
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, errors.New("at most two decimal places")
	}
	return d, nil
}

func categoriesOfType(categories []domain.Category, typ domain.TransactionType) []domain.Category {
	var out []domain.Category
	for _, c := range categories {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

// resolveCategory finds the category the user meant: an exact name, then a
// unique prefix, then the closest name within maxCategoryTypos edits.
func resolveCategory(input string, candidates []domain.Category) (domain.Category, error) {
	want := strings.ToLower(strings.TrimSpace(input))
	if want == "" {
		return domain.Category{}, errors.New("choose a category")
	}
	for _, c := range candidates {
		if strings.ToLower(c.Name) == want {
			return c, nil
		}
	}

	var prefixed []domain.Category
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c.Name), want) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}

	best, bestDist, tie := domain.Category{}, maxCategoryTypos+1, false
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(want, strings.ToLower(c.Name))
		switch {
		case d < bestDist:
			best, bestDist, tie = c, d, false
		case d == bestDist:
			tie = true
		}
	}
	if bestDist <= maxCategoryTypos && !tie {
		return best, nil
	}
	return domain.Category{}, fmt.Errorf("no single category matches %q", strings.TrimSpace(input))
}

// suggestions lists category names starting with the current input.
func suggestions(input string, candidates []domain.Category) []string {
	want := strings.ToLower(strings.TrimSpace(input))
	var out []string
	for _, c := range candidates {
		if want == "" || strings.HasPrefix(strings.ToLower(c.Name), want) {
			out = append(out, c.Name)
		}
	}
	return out
}
