// Package money holds the decimal arithmetic used for prices and totals.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

// FromFloat converts a price held as float64 into a decimal rounded to cents.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// Cents rounds d half away from zero to two places.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MinorUnits returns d as a whole number of cents.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Round(2).Mul(hundred).IntPart()
}

// Float converts d, rounded to cents, back to float64 for JSON responses.
func Float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Percent returns pct percent of amount, rounded to cents.
func Percent(amount decimal.Decimal, pct float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(pct)).Div(hundred).Round(2)
}

// Format renders amount as US dollars with grouping, e.g. $1,299.00.
func Format(amount float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("$%.2f", FromFloat(amount).InexactFloat64())
}
