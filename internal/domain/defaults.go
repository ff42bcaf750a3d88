package domain

import "github.com/google/uuid"

// DefaultCurrency is used when no currency has been chosen yet.
const DefaultCurrency = "₽"

// Currency is a selectable currency symbol.
type Currency struct {
	Symbol string
	Name   string
}

// Currencies lists the symbols offered by the settings screen.
var Currencies = []Currency{
	{Symbol: "$", Name: "US Dollar"},
	{Symbol: "€", Name: "Euro"},
	{Symbol: "₽", Name: "Russian Ruble"},
	{Symbol: "₸", Name: "Kazakhstani Tenge"},
	{Symbol: "₴", Name: "Ukrainian Hryvnia"},
	{Symbol: "£", Name: "Pound Sterling"},
	{Symbol: "¥", Name: "Japanese Yen"},
	{Symbol: "₿", Name: "Bitcoin"},
}

// NextCurrency returns the symbol after current in Currencies, wrapping around.
// Unknown symbols restart the cycle.
func NextCurrency(current string) string {
	for i, c := range Currencies {
		if c.Symbol == current {
			return Currencies[(i+1)%len(Currencies)].Symbol
		}
	}
	return Currencies[0].Symbol
}

// DefaultSettings returns the settings of a fresh installation.
func DefaultSettings() AppSettings {
	return AppSettings{Currency: DefaultCurrency, ShowAssistant: true}
}

type seedCategory struct {
	name, icon, emoji, color string
	typ                      TransactionType
}

var seedCategories = []seedCategory{
	{"Food", "utensils", "🍔", "#FF6B6B", Expense},
	{"Transport", "car", "🚕", "#4ECDC4", Expense},
	{"Housing", "home", "🏠", "#45B7D1", Expense},
	{"Entertainment", "film", "🎬", "#F7B801", Expense},
	{"Health", "heart", "💊", "#F25F5C", Expense},
	{"Shopping", "shopping-bag", "🛍️", "#A06CD5", Expense},
	{"Education", "book", "📚", "#3D5A80", Expense},
	{"Other", "more-horizontal", "📦", "#8D99AE", Expense},
	{"Salary", "briefcase", "💼", "#2A9D8F", Income},
	{"Freelance", "laptop", "💻", "#57CC99", Income},
	{"Gifts", "gift", "🎁", "#E76F51", Income},
	{"Investments", "trending-up", "📈", "#264653", Income},
}

// SeedCategoryID derives the stable id of a default category so a reset
// always restores the same ids.
func SeedCategoryID(typ TransactionType, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("cat:"+string(typ)+":"+name)).String()
}

// DefaultCategories returns a fresh copy of the seed category set.
func DefaultCategories() []Category {
	out := make([]Category, 0, len(seedCategories))
	for _, s := range seedCategories {
		out = append(out, Category{
			ID:    SeedCategoryID(s.typ, s.name),
			Name:  s.name,
			Icon:  s.icon,
			Emoji: s.emoji,
			Type:  s.typ,
			Color: s.color,
		})
	}
	return out
}
