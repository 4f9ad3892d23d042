package greeks

import (
	"go.uber.org/zap"

	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing"
)

// ForwardSensitivity returns dPV/dF at the settlement time using a centered
// difference on a ±relShift fractional forward shift.
func (c *Calculator) ForwardSensitivity(d pricing.Derivative, b *market.Bundle, relShift float64) (float64, error) {
	if err := checkInputs(d, b); err != nil {
		return 0, err
	}
	if !(relShift > 0 && relShift < 1) {
		return 0, errs.InvalidArgument("forward sensitivity: relative shift %g outside (0,1)", relShift)
	}
	settlement, err := c.pricer.TimeToSettlement(d)
	if err != nil {
		return 0, err
	}
	fwd := b.ForwardCurve().Forward(settlement)
	s, err := c.centered(d, b.WithShiftedForwardCurve(relShift), b.WithShiftedForwardCurve(-relShift), relShift)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("forward sensitivity",
		zap.Stringer("kind", d.Kind()),
		zap.Float64("settlement", settlement),
		zap.Float64("forward", fwd),
		zap.Float64("value", s/fwd))
	return s / fwd, nil
}

// DiscountRateSensitivity returns dPV/dr for a parallel move of the discount
// rate, counting both the discounting effect and the forward-projection
// effect through PV = Z(T)·F(T):
//
//	T · (F(T)·dPV/dF − PV)
func (c *Calculator) DiscountRateSensitivity(d pricing.Derivative, b *market.Bundle) (float64, error) {
	if err := checkInputs(d, b); err != nil {
		return 0, err
	}
	settlement, err := c.pricer.TimeToSettlement(d)
	if err != nil {
		return 0, err
	}
	fwdSens, err := c.ForwardSensitivity(d, b, c.cfg.ForwardRelativeShift)
	if err != nil {
		return 0, err
	}
	pv, err := c.pricer.Price(d, b)
	if err != nil {
		return 0, err
	}
	fwd := b.ForwardCurve().Forward(settlement)
	return settlement * (fwd*fwdSens - pv), nil
}

// PV01 is the discount-rate sensitivity per basis point.
func (c *Calculator) PV01(d pricing.Derivative, b *market.Bundle) (float64, error) {
	s, err := c.DiscountRateSensitivity(d, b)
	if err != nil {
		return 0, err
	}
	return s / BasisPoint, nil
}

// BucketedDelta distributes the discount-rate sensitivity across the node
// times of the discount curve. The discount curve must be a nodal yield curve.
func (c *Calculator) BucketedDelta(d pricing.Derivative, b *market.Bundle) (CurveSensitivity, error) {
	if err := checkInputs(d, b); err != nil {
		return CurveSensitivity{}, err
	}
	yc, ok := b.DiscountCurve().(*curve.YieldCurve)
	if !ok {
		return CurveSensitivity{}, errs.UnsupportedType("bucketed delta: discount curve %T is not a yield curve", b.DiscountCurve())
	}
	times, ok := yc.NodeTimes()
	if !ok {
		return CurveSensitivity{}, errs.UnsupportedType("bucketed delta: yield curve %s has no nodes", yc.Name())
	}
	settlement, err := c.pricer.TimeToSettlement(d)
	if err != nil {
		return CurveSensitivity{}, err
	}
	s, err := c.DiscountRateSensitivity(d, b)
	if err != nil {
		return CurveSensitivity{}, err
	}
	values, err := c.distributor.Distribute(yc, settlement, s)
	if err != nil {
		return CurveSensitivity{}, err
	}
	if len(values) != len(times) {
		return CurveSensitivity{}, errs.InvalidArgument("bucketed delta: distributor returned %d values for %d nodes", len(values), len(times))
	}
	return CurveSensitivity{Curve: yc.Name(), Times: times, Values: values}, nil
}
