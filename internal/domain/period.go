package domain

import (
	"fmt"
	"strings"
)

// Period is a named date-range bucket anchored to a reference date.
type Period string

const (
	Day   Period = "day"
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

// PeriodOption pairs a period with its display label.
type PeriodOption struct {
	Label string
	Value Period
}

// Periods is the selectable period list in display order.
var Periods = []PeriodOption{
	{Label: "Day", Value: Day},
	{Label: "Week", Value: Week},
	{Label: "Month", Value: Month},
	{Label: "Year", Value: Year},
}

// Label returns the display label, or the raw value for unknown periods.
func (p Period) Label() string {
	for _, o := range Periods {
		if o.Value == p {
			return o.Label
		}
	}
	return string(p)
}

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

// ParsePeriod accepts a period value or label, case-insensitively.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, o := range Periods {
		if s == string(o.Value) || s == strings.ToLower(o.Label) {
			return o.Value, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}
