// Package aggregate is the stateless calculation layer: period bucketing,
// totals and per-category summaries over a transaction list. Nothing here
// mutates its inputs or performs I/O.
package aggregate

import (
	"time"

	"github.com/jask/moneybox/internal/domain"
)

// Range is an inclusive [Start, End] interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

const lastNano = int(999 * time.Millisecond)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, lastNano, t.Location())
}

// PeriodDates returns the inclusive bounds of period around ref, computed in
// ref's location. Weeks run Monday through Sunday. Unknown periods are
// treated as a day.
func PeriodDates(period domain.Period, ref time.Time) Range {
	switch period {
	case domain.Week:
		// Weekday is 0 for Sunday; shift so Monday is 0.
		offset := (int(ref.Weekday()) + 6) % 7
		start := startOfDay(ref.AddDate(0, 0, -offset))
		return Range{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case domain.Month:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		// day 0 of next month is the last day of this one
		end := time.Date(ref.Year(), ref.Month()+1, 0, 23, 59, 59, lastNano, ref.Location())
		return Range{Start: start, End: end}
	case domain.Year:
		return Range{
			Start: time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location()),
			End:   time.Date(ref.Year(), time.December, 31, 23, 59, 59, lastNano, ref.Location()),
		}
	default:
		return Range{Start: startOfDay(ref), End: endOfDay(ref)}
	}
}

// ByPeriod returns the transactions dated within PeriodDates(period, ref),
// preserving input order.
func ByPeriod(txs []domain.Transaction, period domain.Period, ref time.Time) []domain.Transaction {
	return InRange(txs, PeriodDates(period, ref))
}

// InRange returns the transactions dated within r, preserving input order.
func InRange(txs []domain.Transaction, r Range) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
