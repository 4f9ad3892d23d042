package horizon

import (
	"time"

	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/instrument"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing"
	"github.com/meenmo/mogreeks/rolldown"
	"github.com/meenmo/mogreeks/timeseries"
)

// BundleDefinition is an instrument priced off a static replication bundle.
type BundleDefinition interface {
	ToDerivative(date time.Time) (pricing.Derivative, error)
	PaymentCurrency() currency.Currency
}

// BundleCalculator computes theta for bundle-priced instruments such as
// options and forwards.
type BundleCalculator[D BundleDefinition] struct {
	base
	pricer pricing.Pricer
}

// NewBundleCalculator returns a calculator pricing through p.
func NewBundleCalculator[D BundleDefinition](p pricing.Pricer, opts ...Option) (*BundleCalculator[D], error) {
	if p == nil {
		return nil, errs.InvalidArgument("horizon: nil pricer")
	}
	b, err := newBase("bundle", opts)
	if err != nil {
		return nil, err
	}
	return &BundleCalculator[D]{base: b, pricer: p}, nil
}

func (c *BundleCalculator[D]) Theta(req Request[D, *market.Bundle, None]) (currency.MultipleAmount, error) {
	if any(req.Definition) == nil {
		return currency.MultipleAmount{}, errs.InvalidArgument("horizon: nil definition")
	}
	if req.MarketData == nil {
		return currency.MultipleAmount{}, errs.InvalidArgument("horizon: nil bundle")
	}
	st, err := c.step(req.ValuationDate, req.DaysForward, req.Calendar)
	if err != nil {
		return currency.MultipleAmount{}, err
	}

	today, err := req.Definition.ToDerivative(st.today)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	pvToday, err := c.pricer.Price(today, req.MarketData)
	if err != nil {
		return currency.MultipleAmount{}, err
	}

	pvTomorrow := 0.0
	if !expiredAt(req.Definition, st.horizon) {
		rolled, err := rolldown.ConstantSpread.Bundle(req.MarketData, st.dt)
		if err != nil {
			return currency.MultipleAmount{}, err
		}
		tomorrow, err := req.Definition.ToDerivative(st.horizon)
		if err != nil {
			return currency.MultipleAmount{}, err
		}
		if pvTomorrow, err = c.pricer.Price(tomorrow, rolled); err != nil {
			return currency.MultipleAmount{}, err
		}
	}
	c.debug("bundle theta", st, pvToday, pvTomorrow)
	if err := finite("present value", pvToday, pvTomorrow); err != nil {
		return currency.MultipleAmount{}, err
	}
	return currency.Of(req.Definition.PaymentCurrency(), pvTomorrow-pvToday), nil
}

// FutureCalculator computes theta for margined index futures. The auxiliary
// data is the margin price series; it is carried forward to the horizon date
// by repeating its last observation.
type FutureCalculator struct {
	base
	pricer pricing.Pricer
}

// NewFutureCalculator returns a calculator pricing through p.
func NewFutureCalculator(p pricing.Pricer, opts ...Option) (*FutureCalculator, error) {
	if p == nil {
		return nil, errs.InvalidArgument("horizon: nil pricer")
	}
	b, err := newBase("future", opts)
	if err != nil {
		return nil, err
	}
	return &FutureCalculator{base: b, pricer: p}, nil
}

func (c *FutureCalculator) Theta(req Request[instrument.IndexFutureDefinition, *market.Bundle, *timeseries.Series]) (currency.MultipleAmount, error) {
	if req.MarketData == nil {
		return currency.MultipleAmount{}, errs.InvalidArgument("horizon: nil bundle")
	}
	st, err := c.step(req.ValuationDate, req.DaysForward, req.Calendar)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	if req.Aux == nil {
		return currency.MultipleAmount{}, errs.InconsistentState("horizon: margin future theta needs the last margin price")
	}
	def := req.Definition

	today, err := def.ToDerivative(st.today, req.Aux)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	pvToday, err := c.pricer.Price(today, req.MarketData)
	if err != nil {
		return currency.MultipleAmount{}, err
	}

	pvTomorrow := 0.0
	if !expiredAt(def, st.horizon) {
		rolled, err := rolldown.ConstantSpread.Bundle(req.MarketData, st.dt)
		if err != nil {
			return currency.MultipleAmount{}, err
		}
		tomorrow, err := def.ToDerivative(st.horizon, req.Aux.ExtendTo(st.horizon))
		if err != nil {
			return currency.MultipleAmount{}, err
		}
		if pvTomorrow, err = c.pricer.Price(tomorrow, rolled); err != nil {
			return currency.MultipleAmount{}, err
		}
	}
	c.debug("future theta", st, pvToday, pvTomorrow)
	if err := finite("present value", pvToday, pvTomorrow); err != nil {
		return currency.MultipleAmount{}, err
	}
	return currency.Of(def.PaymentCurrency(), pvTomorrow-pvToday), nil
}
