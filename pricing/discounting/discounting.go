// Package discounting prices fixed cash flow streams off multi-curve and
// issuer providers.
package discounting

import (
	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing"
)

// CashFlows is a stream of known amounts in one currency paid at Times (years).
type CashFlows struct {
	Currency currency.Currency
	Times    []float64
	Amounts  []float64
}

func (CashFlows) Kind() pricing.Kind { return pricing.KindCashFlows }

func (cf CashFlows) validate() error {
	if len(cf.Times) != len(cf.Amounts) {
		return errs.InvalidArgument("cash flows: %d times for %d amounts", len(cf.Times), len(cf.Amounts))
	}
	return nil
}

// PresentValue discounts every flow on dc.
func PresentValue(cf CashFlows, dc curve.DiscountCurve) (float64, error) {
	if dc == nil {
		return 0, errs.InvalidArgument("cash flows: nil discount curve")
	}
	if err := cf.validate(); err != nil {
		return 0, err
	}
	pv := 0.0
	for i, t := range cf.Times {
		pv += cf.Amounts[i] * dc.DiscountFactor(t)
	}
	return pv, nil
}

// PresentValueProvider discounts on the provider's curve for the flows' currency.
func PresentValueProvider(cf CashFlows, p market.Provider) (float64, error) {
	if p == nil {
		return 0, errs.InvalidArgument("cash flows: nil provider")
	}
	dc, err := p.DiscountCurve(cf.Currency)
	if err != nil {
		return 0, err
	}
	return PresentValue(cf, dc)
}

// PresentValueIssuer discounts on the issuer's curve.
func PresentValueIssuer(cf CashFlows, issuer string, p *market.IssuerProvider) (float64, error) {
	if p == nil {
		return 0, errs.InvalidArgument("cash flows: nil issuer provider")
	}
	dc, err := p.IssuerCurve(issuer)
	if err != nil {
		return 0, err
	}
	return PresentValue(cf, dc)
}

// Settlement returns the time of the last flow, or 0 for an empty stream.
func Settlement(cf CashFlows) float64 {
	last := 0.0
	for _, t := range cf.Times {
		last = max(last, t)
	}
	return last
}
