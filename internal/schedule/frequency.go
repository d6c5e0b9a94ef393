package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a recurring obligation.
type Frequency string

const (
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyBiWeekly  Frequency = "Bi-weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencyAnnually  Frequency = "Annually"
)

// Known reports whether f is one of the supported cadences.
func Known(f Frequency) bool {
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually:
		return true
	default:
		return false
	}
}

// DateOnly truncates t to midnight UTC. Due dates carry no time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Next returns the due date following d for the given cadence. Unknown
// cadences fall back to Monthly. Month arithmetic normalizes overflow, so
// Jan 31 plus one month lands in early March.
func Next(d time.Time, f Frequency) time.Time {
	d = DateOnly(d)
	switch f {
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyBiWeekly:
		return d.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return d.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return d.AddDate(0, 3, 0)
	case FrequencyAnnually:
		return d.AddDate(1, 0, 0)
	default:
		return d.AddDate(0, 1, 0)
	}
}

// 4.33 and 2.17 approximate 52/12 and 26/12 occurrences per month.
var (
	weeksPerMonth    = decimal.NewFromFloat(4.33)
	biWeeksPerMonth  = decimal.NewFromFloat(2.17)
	monthsPerQuarter = decimal.NewFromInt(3)
	monthsPerYear    = decimal.NewFromInt(12)
)

// MonthlyEquivalent normalizes amount to an approximate monthly figure for
// reporting. The weekly factors are rough, so twelve monthly equivalents do
// not sum to an exact annual total. Unknown cadences pass through unchanged.
func MonthlyEquivalent(amount decimal.Decimal, f Frequency) decimal.Decimal {
	switch f {
	case FrequencyWeekly:
		return amount.Mul(weeksPerMonth)
	case FrequencyBiWeekly:
		return amount.Mul(biWeeksPerMonth)
	case FrequencyQuarterly:
		return amount.Div(monthsPerQuarter)
	case FrequencyAnnually:
		return amount.Div(monthsPerYear)
	default:
		return amount
	}
}
