// Package pricing converts amounts between currencies using a rate
// table snapshot.  It is pure: no I/O, no shared state, safe to call
// from anywhere including outside transactions.
//
// Convention: rates[c] is the amount of the base currency bought by one
// unit of c.  With a TJS-based table {TJS: 1, USD: 10}, one USD equals
// ten TJS, so Convert(100, "TJS", "USD", table) == 10.00.  The original
// rate-table producers publish both directions inconsistently; this
// package commits to base-per-unit everywhere.
package pricing

import (
	"fmt"
	"math"
)

// UnknownCurrencyError reports a currency code that is absent from the
// rate table.  It is a configuration problem for the requesting call
// only; nothing about the calendar or any record has been touched.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Code)
}

// Convert translates amount from one currency into another through the
// base currency.  Identity conversions return the amount unchanged
// without consulting the table at all, so a same-currency quote can
// never fail.  The result is rounded to two decimal places with
// Round2.
func Convert(amount float64, from, to string, rates map[string]float64) (float64, error) {
	rate, err := PairRate(from, to, rates)
	if err != nil {
		return 0, err
	}
	if from == to {
		return amount, nil
	}
	return Round2(amount * rate), nil
}

// PairRate returns the multiplier that converts one unit of `from` into
// `to`: amount_to = amount_from * PairRate(from, to).  With the
// base-per-unit convention this is rates[from]/rates[to], and exactly 1
// for identity pairs.  Hire records store this value so the applied
// rate can be audited later even after the table moves.
func PairRate(from, to string, rates map[string]float64) (float64, error) {
	if from == to {
		return 1, nil
	}
	fromRate, ok := rates[from]
	if !ok || fromRate <= 0 {
		return 0, &UnknownCurrencyError{Code: from}
	}
	toRate, ok := rates[to]
	if !ok || toRate <= 0 {
		return 0, &UnknownCurrencyError{Code: to}
	}
	return fromRate / toRate, nil
}

// Round2 rounds to two decimal places, half away from zero.  math.Round
// already rounds halves away from zero, which is the behaviour price
// displays expect (0.125 -> 0.13, -0.125 -> -0.13).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
