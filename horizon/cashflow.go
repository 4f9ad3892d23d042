package horizon

import (
	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/instrument"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing/discounting"
	"github.com/meenmo/mogreeks/rolldown"
)

// PaymentPolicy states how many payments a horizon step may realise.
type PaymentPolicy int

const (
	// PaymentOptional allows zero or one payment per leg in the step.
	PaymentOptional PaymentPolicy = iota
	// PaymentRequired demands exactly one payment per leg in the step.
	PaymentRequired
)

// realized returns the signed sum of the payments realised over the step.
// Moving forward the payment is received; moving backward it is given back.
func (p PaymentPolicy) realized(payments []instrument.Payment, st step) (float64, error) {
	switch {
	case len(payments) > 1:
		return 0, errs.InconsistentState("horizon: %d payments in a one-day step", len(payments))
	case len(payments) == 0 && p == PaymentRequired:
		return 0, errs.InconsistentState("horizon: expected a payment between %s and %s",
			st.today.Format("2006-01-02"), st.horizon.Format("2006-01-02"))
	case len(payments) == 0:
		return 0, nil
	}
	return float64(st.forward) * payments[0].Amount, nil
}

// CashFlowCalculator computes theta for fixed cash flow streams discounted on
// a multi-curve provider.
type CashFlowCalculator struct {
	base
	policy PaymentPolicy
}

// NewCashFlowCalculator returns a calculator enforcing policy.
func NewCashFlowCalculator(policy PaymentPolicy, opts ...Option) (*CashFlowCalculator, error) {
	b, err := newBase("cashflow", opts)
	if err != nil {
		return nil, err
	}
	return &CashFlowCalculator{base: b, policy: policy}, nil
}

func (c *CashFlowCalculator) Theta(req Request[instrument.CashFlowDefinition, market.Provider, None]) (currency.MultipleAmount, error) {
	if req.MarketData == nil {
		return currency.MultipleAmount{}, errs.InvalidArgument("horizon: nil provider")
	}
	st, err := c.step(req.ValuationDate, req.DaysForward, req.Calendar)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	def := req.Definition

	pvToday, err := discounting.PresentValueProvider(def.ToDerivative(st.today), req.MarketData)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	rolled, err := rolldown.ConstantSpread.Provider(req.MarketData, st.dt)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	pvTomorrow, err := discounting.PresentValueProvider(def.ToDerivative(st.horizon), rolled)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	flow, err := c.policy.realized(def.PaymentsBetween(st.today, st.horizon), st)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	c.debug("cash flow theta", st, pvToday, pvTomorrow)
	if err := finite("present value", pvToday, pvTomorrow); err != nil {
		return currency.MultipleAmount{}, err
	}
	if err := finite("realized flow", flow); err != nil {
		return currency.MultipleAmount{}, err
	}
	return currency.Of(def.Currency, pvTomorrow-pvToday).PlusAmount(def.Currency, flow), nil
}
