// Package domain holds the data model shared by the stores, the aggregation
// engine and the presentation layer.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts are stored as JSON numbers. Quoted amounts still decode.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType is the direction of a transaction's balance impact.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Opposite returns the other transaction type.
func (t TransactionType) Opposite() TransactionType {
	if t == Income {
		return Expense
	}
	return Income
}

// Transaction is a single recorded income or expense. Amount is always a
// positive magnitude; Type carries the sign.
type Transaction struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"type"`
	CategoryID string          `json:"categoryId"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note,omitempty"`
}

// Signed returns +Amount for income and -Amount for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

// NewTransaction is the caller-supplied part of a transaction; the store
// assigns the id.
type NewTransaction struct {
	Amount     decimal.Decimal
	Type       TransactionType
	CategoryID string
	Date       time.Time
	Note       string
}

// WithID builds the stored record.
func (n NewTransaction) WithID(id string) Transaction {
	return Transaction{
		ID:         id,
		Amount:     n.Amount,
		Type:       n.Type,
		CategoryID: n.CategoryID,
		Date:       n.Date,
		Note:       n.Note,
	}
}

// TransactionPatch lists the fields to merge into an existing transaction.
// Nil fields are left untouched.
type TransactionPatch struct {
	Amount     *decimal.Decimal
	Type       *TransactionType
	CategoryID *string
	Date       *time.Time
	Note       *string
}

// Apply returns t with the non-nil patch fields merged in. The id never changes.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	return t
}

// Category groups transactions of a single type.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Emoji string          `json:"emoji"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// NewCategory is a category before the store assigns its id.
type NewCategory struct {
	Name  string
	Icon  string
	Emoji string
	Type  TransactionType
	Color string
}

// WithID builds the stored record.
func (n NewCategory) WithID(id string) Category {
	return Category{ID: id, Name: n.Name, Icon: n.Icon, Emoji: n.Emoji, Type: n.Type, Color: n.Color}
}

// CategoryPatch lists the fields to merge into an existing category.
type CategoryPatch struct {
	Name  *string
	Icon  *string
	Emoji *string
	Type  *TransactionType
	Color *string
}

// Apply returns c with the non-nil patch fields merged in.
func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Emoji != nil {
		c.Emoji = *p.Emoji
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	return c
}

// AppSettings is the singleton user configuration.
type AppSettings struct {
	Currency      string `json:"currency"`
	ShowAssistant bool   `json:"showAssistant"`
}

// SettingsPatch is a shallow partial update of AppSettings.
type SettingsPatch struct {
	Currency      *string
	ShowAssistant *bool
}

// Apply returns s with the non-nil patch fields merged in.
func (p SettingsPatch) Apply(s AppSettings) AppSettings {
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.ShowAssistant != nil {
		s.ShowAssistant = *p.ShowAssistant
	}
	return s
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T { return &v }
