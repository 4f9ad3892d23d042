package curve

import (
	"math"

	"github.com/meenmo/mogreeks/errs"
)

// shortEnd is the time used in place of zero when converting a discount
// factor into a continuously compounded rate.
const shortEnd = 1e-8

// DiscountCurve provides discount factors and continuously compounded zero
// rates. The only implementations are *YieldCurve and *DiscountFactorCurve.
type DiscountCurve interface {
	Name() string
	DiscountFactor(t float64) float64
	InterestRate(t float64) float64
	discountCurve()
}

// YieldCurve is a discount curve on a continuously compounded zero-rate basis.
type YieldCurve struct {
	name  string
	rates Curve
}

// NewYieldCurve wraps a zero-rate curve.
func NewYieldCurve(name string, rates Curve) (*YieldCurve, error) {
	if err := requireCurve(rates, "yield curve "+name); err != nil {
		return nil, err
	}
	return &YieldCurve{name: name, rates: rates}, nil
}

// FlatYieldCurve is a constant zero-rate curve.
func FlatYieldCurve(name string, rate float64) *YieldCurve {
	return &YieldCurve{name: name, rates: Constant(rate)}
}

func (y *YieldCurve) discountCurve() {}

func (y *YieldCurve) Name() string { return y.name }

// Rates returns the underlying zero-rate curve.
func (y *YieldCurve) Rates() Curve { return y.rates }

// InterestRate returns the zero rate to time t.
func (y *YieldCurve) InterestRate(t float64) float64 { return y.rates.At(t) }

// DiscountFactor returns exp(-r(t)·t).
func (y *YieldCurve) DiscountFactor(t float64) float64 {
	return math.Exp(-y.rates.At(t) * t)
}

// WithRates returns a yield curve with the same name over a different rate curve.
func (y *YieldCurve) WithRates(rates Curve) *YieldCurve {
	return &YieldCurve{name: y.name, rates: rates}
}

// NodeTimes returns the node times of the rate curve when it is nodal.
func (y *YieldCurve) NodeTimes() ([]float64, bool) {
	ic, ok := y.rates.(*Interpolated)
	if !ok {
		return nil, false
	}
	times, _ := ic.Nodes()
	return times, true
}

// DiscountFactorCurve is a discount curve on a discount-factor basis.
type DiscountFactorCurve struct {
	name string
	dfs  Curve
}

// NewDiscountFactorCurve wraps a discount-factor curve.
func NewDiscountFactorCurve(name string, dfs Curve) (*DiscountFactorCurve, error) {
	if err := requireCurve(dfs, "discount factor curve "+name); err != nil {
		return nil, err
	}
	return &DiscountFactorCurve{name: name, dfs: dfs}, nil
}

func (d *DiscountFactorCurve) discountCurve() {}

func (d *DiscountFactorCurve) Name() string { return d.name }

// Factors returns the underlying discount-factor curve.
func (d *DiscountFactorCurve) Factors() Curve { return d.dfs }

func (d *DiscountFactorCurve) DiscountFactor(t float64) float64 { return d.dfs.At(t) }

func (d *DiscountFactorCurve) InterestRate(t float64) float64 {
	if math.Abs(t) < shortEnd {
		t = shortEnd
	}
	return -math.Log(d.dfs.At(t)) / t
}

// WithFactors returns a discount-factor curve with the same name over dfs.
func (d *DiscountFactorCurve) WithFactors(dfs Curve) *DiscountFactorCurve {
	return &DiscountFactorCurve{name: d.name, dfs: dfs}
}

// ParallelShift moves every zero rate of dc by shift. The input is unchanged.
func ParallelShift(dc DiscountCurve, shift float64) (DiscountCurve, error) {
	switch c := dc.(type) {
	case *YieldCurve:
		return c.WithRates(AddSpread(c.rates, shift)), nil
	case *DiscountFactorCurve:
		if shift == 0 {
			return c, nil
		}
		base := c.dfs
		return c.WithFactors(Functional(func(t float64) float64 {
			return base.At(t) * math.Exp(-shift*t)
		})), nil
	case nil:
		return nil, errs.InvalidArgument("parallel shift: nil discount curve")
	default:
		return nil, errs.UnsupportedType("parallel shift: discount curve %T", dc)
	}
}
