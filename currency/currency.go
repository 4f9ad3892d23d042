// Package currency holds per-currency cash amounts and the FX table used to
// consolidate them.
package currency

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/meenmo/mogreeks/errs"
)

// Currency is an ISO 4217 code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	JPY Currency = "JPY"
	KRW Currency = "KRW"
	GBP Currency = "GBP"
)

// FXMatrix stores the value of one unit of each currency in a base currency.
type FXMatrix struct {
	base   Currency
	toBase map[Currency]decimal.Decimal
}

// NewFXMatrix returns a table containing only the base currency.
func NewFXMatrix(base Currency) *FXMatrix {
	return &FXMatrix{
		base:   base,
		toBase: map[Currency]decimal.Decimal{base: decimal.NewFromInt(1)},
	}
}

// Base returns the base currency.
func (m *FXMatrix) Base() Currency { return m.base }

// WithRate returns a copy of the table in which one unit of ccy is worth
// rate units of the base currency.
func (m *FXMatrix) WithRate(ccy Currency, rate float64) (*FXMatrix, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, errs.InvalidArgument("fx: rate %g for %s must be positive and finite", rate, ccy)
	}
	next := &FXMatrix{base: m.base, toBase: make(map[Currency]decimal.Decimal, len(m.toBase)+1)}
	for k, v := range m.toBase {
		next.toBase[k] = v
	}
	next.toBase[ccy] = decimal.NewFromFloat(rate)
	return next, nil
}

// Rate returns the number of units of to for one unit of from.
func (m *FXMatrix) Rate(from, to Currency) (decimal.Decimal, error) {
	f, ok := m.toBase[from]
	if !ok {
		return decimal.Zero, errs.InvalidArgument("fx: no rate for %s", from)
	}
	t, ok := m.toBase[to]
	if !ok {
		return decimal.Zero, errs.InvalidArgument("fx: no rate for %s", to)
	}
	return f.Div(t), nil
}

// MultipleAmount is an immutable set of amounts keyed by currency.
type MultipleAmount struct {
	amounts map[Currency]decimal.Decimal
}

// Of returns a MultipleAmount holding a single amount.
func Of(ccy Currency, amount float64) MultipleAmount {
	return MultipleAmount{}.PlusAmount(ccy, amount)
}

// Amount returns the amount held in ccy (zero if absent).
func (a MultipleAmount) Amount(ccy Currency) decimal.Decimal {
	return a.amounts[ccy]
}

// Float returns the amount held in ccy as a float64.
func (a MultipleAmount) Float(ccy Currency) float64 {
	return a.amounts[ccy].InexactFloat64()
}

// Currencies returns the currencies present, sorted.
func (a MultipleAmount) Currencies() []Currency {
	out := make([]Currency, 0, len(a.amounts))
	for c := range a.amounts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsZero reports whether every amount is zero.
func (a MultipleAmount) IsZero() bool {
	for _, v := range a.amounts {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

func (a MultipleAmount) clone(extra int) map[Currency]decimal.Decimal {
	m := make(map[Currency]decimal.Decimal, len(a.amounts)+extra)
	for k, v := range a.amounts {
		m[k] = v
	}
	return m
}

// PlusAmount adds amount in ccy.
func (a MultipleAmount) PlusAmount(ccy Currency, amount float64) MultipleAmount {
	return a.plusDecimal(ccy, decimal.NewFromFloat(amount))
}

func (a MultipleAmount) plusDecimal(ccy Currency, amount decimal.Decimal) MultipleAmount {
	m := a.clone(1)
	m[ccy] = m[ccy].Add(amount)
	return MultipleAmount{amounts: m}
}

// Plus adds b currency by currency.
func (a MultipleAmount) Plus(b MultipleAmount) MultipleAmount {
	m := a.clone(len(b.amounts))
	for k, v := range b.amounts {
		m[k] = m[k].Add(v)
	}
	return MultipleAmount{amounts: m}
}

// Minus subtracts b currency by currency.
func (a MultipleAmount) Minus(b MultipleAmount) MultipleAmount {
	m := a.clone(len(b.amounts))
	for k, v := range b.amounts {
		m[k] = m[k].Sub(v)
	}
	return MultipleAmount{amounts: m}
}

// Convert consolidates every amount into target using fx.
func (a MultipleAmount) Convert(fx *FXMatrix, target Currency) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range a.Currencies() {
		rate, err := fx.Rate(c, target)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(a.amounts[c].Mul(rate))
	}
	return total, nil
}
