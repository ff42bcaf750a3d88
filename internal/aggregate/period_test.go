package aggregate

import (
	"testing"
	"time"

	"github.com/jask/moneybox/internal/domain"
)

func at(y int, m time.Month, d, h, mi int) time.Time {
	return time.Date(y, m, d, h, mi, 0, 0, time.UTC)
}

func TestPeriodDatesWeekStartsMonday(t *testing.T) {
	ref := at(2024, time.June, 12, 15, 30) // Wednesday
	r := PeriodDates(domain.Week, ref)
	wantStart := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.June, 16, 23, 59, 59, 999_000_000, time.UTC)
	if !r.Start.Equal(wantStart) || !r.End.Equal(wantEnd) {
		t.Fatalf("week = %v..%v, want %v..%v", r.Start, r.End, wantStart, wantEnd)
	}
}

func TestPeriodDatesWeekOnSundayAndMonday(t *testing.T) {
	sunday := PeriodDates(domain.Week, at(2024, time.June, 16, 8, 0))
	if sunday.Start.Day() != 10 || sunday.End.Day() != 16 {
		t.Fatalf("sunday week = %v..%v, want 10..16", sunday.Start, sunday.End)
	}
	monday := PeriodDates(domain.Week, at(2024, time.June, 10, 0, 0))
	if monday.Start.Day() != 10 || monday.End.Day() != 16 {
		t.Fatalf("monday week = %v..%v, want 10..16", monday.Start, monday.End)
	}
	// a week crossing a month boundary
	r := PeriodDates(domain.Week, at(2024, time.July, 2, 9, 0))
	if r.Start.Month() != time.July || r.Start.Day() != 1 {
		t.Fatalf("start = %v", r.Start)
	}
	r = PeriodDates(domain.Week, at(2024, time.May, 31, 9, 0))
	if r.Start.Day() != 27 || r.End.Month() != time.June || r.End.Day() != 2 {
		t.Fatalf("cross-month week = %v..%v", r.Start, r.End)
	}
}

func TestPeriodDatesLeapMonth(t *testing.T) {
	r := PeriodDates(domain.Month, at(2024, time.February, 15, 12, 0))
	wantEnd := time.Date(2024, time.February, 29, 23, 59, 59, 999_000_000, time.UTC)
	if !r.End.Equal(wantEnd) {
		t.Fatalf("month end = %v, want %v", r.End, wantEnd)
	}
	if !r.Start.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("month start = %v", r.Start)
	}
	dec := PeriodDates(domain.Month, at(2023, time.December, 5, 0, 0))
	if dec.End.Year() != 2023 || dec.End.Day() != 31 {
		t.Fatalf("december end = %v", dec.End)
	}
}

func TestPeriodDatesYearAndDay(t *testing.T) {
	y := PeriodDates(domain.Year, at(2024, time.June, 12, 0, 0))
	if !y.Start.Equal(at(2024, time.January, 1, 0, 0)) {
		t.Fatalf("year start = %v", y.Start)
	}
	if !y.End.Equal(time.Date(2024, time.December, 31, 23, 59, 59, 999_000_000, time.UTC)) {
		t.Fatalf("year end = %v", y.End)
	}

	d := PeriodDates(domain.Day, at(2024, time.June, 12, 18, 45))
	if !d.Start.Equal(at(2024, time.June, 12, 0, 0)) || d.End.Hour() != 23 {
		t.Fatalf("day = %v..%v", d.Start, d.End)
	}
	unknown := PeriodDates(domain.Period("fortnight"), at(2024, time.June, 12, 18, 45))
	if unknown != d {
		t.Fatalf("unknown period should fall back to day, got %v", unknown)
	}
}

func TestPeriodDatesKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ref := time.Date(2024, time.June, 12, 1, 0, 0, 0, loc)
	r := PeriodDates(domain.Day, ref)
	if r.Start.Location() != loc || r.Start.Day() != 12 {
		t.Fatalf("start = %v", r.Start)
	}
}

func TestByPeriodInclusiveBounds(t *testing.T) {
	ref := at(2024, time.June, 12, 12, 0)
	r := PeriodDates(domain.Week, ref)
	txs := []domain.Transaction{
		{ID: "start", Date: r.Start},
		{ID: "end", Date: r.End},
		{ID: "before", Date: r.Start.Add(-time.Nanosecond)},
		{ID: "after", Date: r.End.Add(time.Millisecond)},
		{ID: "mid", Date: ref},
	}
	got := ByPeriod(txs, domain.Week, ref)
	if ids := txIDs(got); !equalStrings(ids, []string{"start", "end", "mid"}) {
		t.Fatalf("ids = %v, want [start end mid]", ids)
	}
}

func TestByPeriodIdempotent(t *testing.T) {
	ref := at(2024, time.March, 3, 10, 0)
	var txs []domain.Transaction
	for i := 0; i < 60; i++ {
		txs = append(txs, domain.Transaction{ID: string(rune('a' + i%26)), Date: ref.AddDate(0, 0, i-30)})
	}
	for _, p := range []domain.Period{domain.Day, domain.Week, domain.Month, domain.Year} {
		once := ByPeriod(txs, p, ref)
		twice := ByPeriod(once, p, ref)
		if !equalStrings(txIDs(once), txIDs(twice)) {
			t.Fatalf("%s: refilter changed result", p)
		}
	}
}

func TestByPeriodDoesNotMutateInput(t *testing.T) {
	ref := at(2024, time.June, 12, 12, 0)
	txs := []domain.Transaction{{ID: "old", Date: ref.AddDate(-1, 0, 0)}, {ID: "new", Date: ref}}
	_ = ByPeriod(txs, domain.Day, ref)
	if len(txs) != 2 || txs[0].ID != "old" {
		t.Fatalf("input mutated: %v", txs)
	}
}

func txIDs(txs []domain.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
