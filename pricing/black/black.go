// Package black is a Black-76 model on the static replication bundle. It is
// the reference pricer for scenarios and tests; production models plug into
// the same pricing.Model table.
package black

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing"
)

// EuropeanOption is a cash-settled European option on the bundle's forward.
type EuropeanOption struct {
	Strike     float64
	Expiry     float64
	Settlement float64
	Call       bool
	Notional   float64
}

func (EuropeanOption) Kind() pricing.Kind { return pricing.KindEuropeanOption }

func (o EuropeanOption) OptionExpiry() float64 { return o.Expiry }
func (o EuropeanOption) OptionStrike() float64 { return o.Strike }

// EquityForward pays Notional·(F(Settlement) − Strike) at Settlement.
type EquityForward struct {
	Strike     float64
	Settlement float64
	Notional   float64
}

func (EquityForward) Kind() pricing.Kind { return pricing.KindEquityForward }

// IndexFuture is a daily-margined future; its value is the variation margin
// against the last margin price and is not discounted.
type IndexFuture struct {
	Settlement     float64
	ReferencePrice float64
	Notional       float64
}

func (IndexFuture) Kind() pricing.Kind { return pricing.KindIndexFuture }

// Price returns the undiscounted Black-76 price of an option on F.
func Price(forward, strike, vol, expiry float64, call bool) float64 {
	if expiry <= 0 || vol <= 0 {
		if call {
			return math.Max(forward-strike, 0)
		}
		return math.Max(strike-forward, 0)
	}
	d1, d2 := d12(forward, strike, vol, expiry)
	if call {
		return forward*distuv.UnitNormal.CDF(d1) - strike*distuv.UnitNormal.CDF(d2)
	}
	return strike*distuv.UnitNormal.CDF(-d2) - forward*distuv.UnitNormal.CDF(-d1)
}

// ForwardDelta returns dPrice/dF of the undiscounted Black price.
func ForwardDelta(forward, strike, vol, expiry float64, call bool) float64 {
	d1, _ := d12(forward, strike, vol, expiry)
	if call {
		return distuv.UnitNormal.CDF(d1)
	}
	return distuv.UnitNormal.CDF(d1) - 1
}

// Vega returns dPrice/dvol of the undiscounted Black price.
func Vega(forward, strike, vol, expiry float64) float64 {
	d1, _ := d12(forward, strike, vol, expiry)
	return forward * distuv.UnitNormal.Prob(d1) * math.Sqrt(expiry)
}

func d12(forward, strike, vol, expiry float64) (float64, float64) {
	sd := vol * math.Sqrt(expiry)
	d1 := (math.Log(forward/strike) + 0.5*sd*sd) / sd
	return d1, d1 - sd
}

// Model returns the dispatch table for the three bundle-priced kinds.
func Model() *pricing.Model {
	m, err := pricing.NewModel("black",
		pricing.Case{Kind: pricing.KindEuropeanOption, Price: priceOption, Settlement: settleOption},
		pricing.Case{Kind: pricing.KindEquityForward, Price: priceForward, Settlement: settleForward},
		pricing.Case{Kind: pricing.KindIndexFuture, Price: priceFuture, Settlement: settleFuture},
	)
	if err != nil {
		// the case list above is fixed
		panic(err)
	}
	return m
}

func priceOption(d pricing.Derivative, b *market.Bundle) (float64, error) {
	o, ok := d.(EuropeanOption)
	if !ok {
		return 0, errs.UnsupportedType("black: %T is not a EuropeanOption", d)
	}
	fwd := b.ForwardCurve().Forward(o.Settlement)
	vol := b.Surface().Vol(o.Expiry, o.Strike)
	df := b.DiscountCurve().DiscountFactor(o.Settlement)
	return o.Notional * df * Price(fwd, o.Strike, vol, o.Expiry, o.Call), nil
}

func settleOption(d pricing.Derivative) (float64, error) {
	o, ok := d.(EuropeanOption)
	if !ok {
		return 0, errs.UnsupportedType("black: %T is not a EuropeanOption", d)
	}
	return o.Settlement, nil
}

func priceForward(d pricing.Derivative, b *market.Bundle) (float64, error) {
	f, ok := d.(EquityForward)
	if !ok {
		return 0, errs.UnsupportedType("black: %T is not an EquityForward", d)
	}
	fwd := b.ForwardCurve().Forward(f.Settlement)
	return f.Notional * b.DiscountCurve().DiscountFactor(f.Settlement) * (fwd - f.Strike), nil
}

func settleForward(d pricing.Derivative) (float64, error) {
	f, ok := d.(EquityForward)
	if !ok {
		return 0, errs.UnsupportedType("black: %T is not an EquityForward", d)
	}
	return f.Settlement, nil
}

func priceFuture(d pricing.Derivative, b *market.Bundle) (float64, error) {
	f, ok := d.(IndexFuture)
	if !ok {
		return 0, errs.UnsupportedType("black: %T is not an IndexFuture", d)
	}
	return f.Notional * (b.ForwardCurve().Forward(f.Settlement) - f.ReferencePrice), nil
}

func settleFuture(d pricing.Derivative) (float64, error) {
	f, ok := d.(IndexFuture)
	if !ok {
		return 0, errs.UnsupportedType("black: %T is not an IndexFuture", d)
	}
	return f.Settlement, nil
}
