// Package display renders cycle results for people: currency formatting,
// allocation breakdowns and markdown reports.
package display

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// notANumber stands in for values decimal cannot represent
const notANumber = "n/a"

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Money formats an amount in the currency's own notation, rounded to its minor unit
func Money(amount float64, currency string) string {
	if !finite(amount) {
		return notANumber
	}
	// money.New never returns a nil currency, unknown codes get a generic one
	cur := money.New(0, currency).Currency()
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Percent formats a percentage with an explicit sign
func Percent(pct float64) string {
	if !finite(pct) {
		return notANumber
	}
	return fmt.Sprintf("%+.2f%%", decimal.NewFromFloat(pct).Round(2).InexactFloat64())
}

// Quantity formats a unit count without trailing zeros
func Quantity(q float64) string {
	if !finite(q) {
		return notANumber
	}
	return decimal.NewFromFloat(q).Round(4).String()
}

// Rate formats an FX rate
func Rate(r float64) string {
	if !finite(r) {
		return notANumber
	}
	return decimal.NewFromFloat(r).StringFixed(4)
}
