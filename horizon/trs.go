package horizon

import (
	"time"

	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/instrument"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing/discounting"
	"github.com/meenmo/mogreeks/rolldown"
)

// TotalReturnSwapCalculator computes theta for bond total return swaps. The
// asset and funding legs are valued separately on each date, the funding leg
// is converted into the asset currency at the provider's spot rate, and the
// two-leg totals are differenced.
type TotalReturnSwapCalculator struct {
	base
}

// NewTotalReturnSwapCalculator returns a TRS theta calculator.
func NewTotalReturnSwapCalculator(opts ...Option) (*TotalReturnSwapCalculator, error) {
	b, err := newBase("trs", opts)
	if err != nil {
		return nil, err
	}
	return &TotalReturnSwapCalculator{base: b}, nil
}

func (c *TotalReturnSwapCalculator) Theta(req Request[instrument.BondTRSDefinition, *market.IssuerProvider, None]) (currency.MultipleAmount, error) {
	if req.MarketData == nil {
		return currency.MultipleAmount{}, errs.InvalidArgument("horizon: nil issuer provider")
	}
	st, err := c.step(req.ValuationDate, req.DaysForward, req.Calendar)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	def := req.Definition
	assetCcy := def.Asset.Currency
	spot, err := req.MarketData.FX().Rate(def.Funding.Currency, assetCcy)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	fx := spot.InexactFloat64()

	assetToday, fundingToday, err := c.legs(def, req.MarketData, st.today)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	rolled, err := rolldown.ConstantSpread.Provider(req.MarketData, st.dt)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	rolledIssuer, ok := rolled.(*market.IssuerProvider)
	if !ok {
		return currency.MultipleAmount{}, errs.UnsupportedType("horizon: rolled provider %T", rolled)
	}
	assetTomorrow, fundingTomorrow, err := c.legs(def, rolledIssuer, st.horizon)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	pvToday := assetToday + fundingToday*fx
	pvTomorrow := assetTomorrow + fundingTomorrow*fx

	assetFlow, err := PaymentOptional.realized(def.Asset.PaymentsBetween(st.today, st.horizon), st)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	fundingFlow, err := PaymentOptional.realized(def.Funding.PaymentsBetween(st.today, st.horizon), st)
	if err != nil {
		return currency.MultipleAmount{}, err
	}
	c.debug("trs theta", st, pvToday, pvTomorrow)
	if err := finite("present value", pvToday, pvTomorrow); err != nil {
		return currency.MultipleAmount{}, err
	}
	if err := finite("realized flow", assetFlow, fundingFlow); err != nil {
		return currency.MultipleAmount{}, err
	}
	return currency.Of(assetCcy, pvTomorrow-pvToday).
		PlusAmount(assetCcy, assetFlow).
		PlusAmount(def.Funding.Currency, fundingFlow), nil
}

// legs returns the asset and funding leg present values at date, each in its
// own currency.
func (c *TotalReturnSwapCalculator) legs(def instrument.BondTRSDefinition, p *market.IssuerProvider, date time.Time) (float64, float64, error) {
	asset, err := discounting.PresentValueIssuer(def.Asset.ToDerivative(date), def.Issuer, p)
	if err != nil {
		return 0, 0, err
	}
	funding, err := discounting.PresentValueProvider(def.Funding.ToDerivative(date), p)
	if err != nil {
		return 0, 0, err
	}
	return asset, funding, nil
}
