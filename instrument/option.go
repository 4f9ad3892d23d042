// Package instrument holds dated instrument definitions. A definition is
// turned into a pricing.Derivative, measured in years from a valuation date,
// by ToDerivative.
package instrument

import (
	"time"

	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/pricing"
	"github.com/meenmo/mogreeks/pricing/black"
	"github.com/meenmo/mogreeks/timeseries"
	"github.com/meenmo/mogreeks/utils"
)

func dayCount(dc string) string {
	if dc == "" {
		return utils.Act365F
	}
	return dc
}

// EuropeanOptionDefinition is a cash-settled European option.
type EuropeanOptionDefinition struct {
	Currency   currency.Currency
	Strike     float64
	ExpiryDate time.Time
	SettleDate time.Time
	Call       bool
	Notional   float64
	DayCount   string
}

func (o EuropeanOptionDefinition) PaymentCurrency() currency.Currency { return o.Currency }
func (o EuropeanOptionDefinition) Expiry() time.Time                  { return o.ExpiryDate }

// ToDerivative measures the option from date.
func (o EuropeanOptionDefinition) ToDerivative(date time.Time) (pricing.Derivative, error) {
	if o.ExpiryDate.Before(date) {
		return nil, errs.InvalidArgument("option expired on %s before %s",
			o.ExpiryDate.Format("2006-01-02"), date.Format("2006-01-02"))
	}
	dc := dayCount(o.DayCount)
	return black.EuropeanOption{
		Strike:     o.Strike,
		Expiry:     utils.YearFraction(date, o.ExpiryDate, dc),
		Settlement: utils.YearFraction(date, o.SettleDate, dc),
		Call:       o.Call,
		Notional:   o.Notional,
	}, nil
}

// EquityForwardDefinition is a forward purchase at Strike on SettleDate.
type EquityForwardDefinition struct {
	Currency   currency.Currency
	Strike     float64
	SettleDate time.Time
	Notional   float64
	DayCount   string
}

func (f EquityForwardDefinition) PaymentCurrency() currency.Currency { return f.Currency }
func (f EquityForwardDefinition) Expiry() time.Time                  { return f.SettleDate }

// ToDerivative measures the forward from date.
func (f EquityForwardDefinition) ToDerivative(date time.Time) (pricing.Derivative, error) {
	if f.SettleDate.Before(date) {
		return nil, errs.InvalidArgument("forward settled on %s before %s",
			f.SettleDate.Format("2006-01-02"), date.Format("2006-01-02"))
	}
	return black.EquityForward{
		Strike:     f.Strike,
		Settlement: utils.YearFraction(date, f.SettleDate, dayCount(f.DayCount)),
		Notional:   f.Notional,
	}, nil
}

// IndexFutureDefinition is a daily-margined index future.
type IndexFutureDefinition struct {
	Currency   currency.Currency
	ExpiryDate time.Time
	SettleDate time.Time
	Notional   float64
	DayCount   string
}

func (f IndexFutureDefinition) PaymentCurrency() currency.Currency { return f.Currency }
func (f IndexFutureDefinition) Expiry() time.Time                  { return f.ExpiryDate }

// ToDerivative measures the future from date, margined against the latest
// margin price on or before date.
func (f IndexFutureDefinition) ToDerivative(date time.Time, marginPrices *timeseries.Series) (pricing.Derivative, error) {
	if marginPrices == nil {
		return nil, errs.InconsistentState("index future: no margin price series")
	}
	ref, ok := marginPrices.ValueAtOrBefore(date)
	if !ok {
		return nil, errs.InconsistentState("index future: no margin price on or before %s", date.Format("2006-01-02"))
	}
	return black.IndexFuture{
		Settlement:     utils.YearFraction(date, f.SettleDate, dayCount(f.DayCount)),
		ReferencePrice: ref,
		Notional:       f.Notional,
	}, nil
}
