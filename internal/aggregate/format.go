package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/moneybox/internal/domain"
)

// DefaultDateLayout is used when no layout is configured.
const DefaultDateLayout = "2 Jan 2006"

// FormatCurrency renders the magnitude of amount with two decimals behind the
// currency symbol. The sign is left to the caller.
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	return symbol + amount.Abs().StringFixed(2)
}

// FormatPeriodLabel renders the human label of the period containing ref.
func FormatPeriodLabel(period domain.Period, ref time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	switch period {
	case domain.Week:
		r := PeriodDates(domain.Week, ref)
		return r.Start.Format(layout) + " - " + r.End.Format(layout)
	case domain.Month:
		return ref.Format("January 2006")
	case domain.Year:
		return ref.Format("2006")
	default:
		return ref.Format(layout)
	}
}
