// Package rolldown moves curves and surfaces to their assumed state a given
// number of years later under one of two conventions.
package rolldown

import (
	"fmt"

	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/surface"
)

// Policy selects the slide convention.
type Policy int

const (
	// ConstantSpread keeps same-calendar-date quotes: rolled(t) = original(t+dt).
	ConstantSpread Policy = iota
	// ForwardSlide keeps the shape by tenor: rolled = original.
	ForwardSlide
)

func (p Policy) String() string {
	switch p {
	case ConstantSpread:
		return "constant-spread"
	case ForwardSlide:
		return "forward-slide"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func (p Policy) valid() error {
	if p != ConstantSpread && p != ForwardSlide {
		return errs.InvalidArgument("rolldown: unknown policy %d", int(p))
	}
	return nil
}

// Curve rolls a plain curve.
func (p Policy) Curve(c curve.Curve, dt float64) (curve.Curve, error) {
	if err := p.valid(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.InvalidArgument("rolldown: nil curve")
	}
	if p == ForwardSlide {
		return c, nil
	}
	return curve.TimeShift(c, dt), nil
}

// DiscountCurve rolls the rate (or discount-factor) function of dc.
func (p Policy) DiscountCurve(dc curve.DiscountCurve, dt float64) (curve.DiscountCurve, error) {
	if err := p.valid(); err != nil {
		return nil, err
	}
	if p == ForwardSlide {
		if dc == nil {
			return nil, errs.InvalidArgument("rolldown: nil discount curve")
		}
		return dc, nil
	}
	switch c := dc.(type) {
	case *curve.YieldCurve:
		return c.WithRates(curve.TimeShift(c.Rates(), dt)), nil
	case *curve.DiscountFactorCurve:
		return c.WithFactors(curve.TimeShift(c.Factors(), dt)), nil
	case nil:
		return nil, errs.InvalidArgument("rolldown: nil discount curve")
	default:
		return nil, errs.UnsupportedType("rolldown: discount curve %T", dc)
	}
}

// ForwardCurve rolls a forward curve.
func (p Policy) ForwardCurve(fc *curve.ForwardCurve, dt float64) (*curve.ForwardCurve, error) {
	if err := p.valid(); err != nil {
		return nil, err
	}
	if fc == nil {
		return nil, errs.InvalidArgument("rolldown: nil forward curve")
	}
	if p == ForwardSlide {
		return fc, nil
	}
	return fc.WithCurve(curve.TimeShift(fc.Curve(), dt)), nil
}

// PriceIndexCurve rolls a price index curve.
func (p Policy) PriceIndexCurve(pc *curve.PriceIndexCurve, dt float64) (*curve.PriceIndexCurve, error) {
	if err := p.valid(); err != nil {
		return nil, err
	}
	if pc == nil {
		return nil, errs.InvalidArgument("rolldown: nil price index curve")
	}
	if p == ForwardSlide {
		return pc, nil
	}
	return pc.WithCurve(curve.TimeShift(pc.Curve(), dt)), nil
}

// Surface rolls the expiry axis of a volatility surface.
func (p Policy) Surface(s surface.Surface, dt float64) (surface.Surface, error) {
	if err := p.valid(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errs.InvalidArgument("rolldown: nil surface")
	}
	if p == ForwardSlide {
		return s, nil
	}
	return surface.TimeShift(s, dt), nil
}

// Bundle rolls each of the three members of b.
func (p Policy) Bundle(b *market.Bundle, dt float64) (*market.Bundle, error) {
	if b == nil {
		return nil, errs.InvalidArgument("rolldown: nil bundle")
	}
	if err := p.valid(); err != nil {
		return nil, err
	}
	if p == ForwardSlide {
		return b, nil
	}
	dc, err := p.DiscountCurve(b.DiscountCurve(), dt)
	if err != nil {
		return nil, err
	}
	fc, err := p.ForwardCurve(b.ForwardCurve(), dt)
	if err != nil {
		return nil, err
	}
	s, err := p.Surface(b.Surface(), dt)
	if err != nil {
		return nil, err
	}
	return market.NewBundle(dc, fc, s)
}

// Provider rolls every curve held by a multi-curve or issuer provider and
// returns a provider of the same concrete shape. FX data is carried over
// untouched.
func (p Policy) Provider(mp market.Provider, dt float64) (market.Provider, error) {
	if err := p.valid(); err != nil {
		return nil, err
	}
	roll := func(c curve.DiscountCurve) (curve.DiscountCurve, error) {
		return p.DiscountCurve(c, dt)
	}
	switch v := mp.(type) {
	case *market.MulticurveProvider:
		return v.MapCurves(roll)
	case *market.IssuerProvider:
		return v.MapCurves(roll)
	case nil:
		return nil, errs.InvalidArgument("rolldown: nil provider")
	default:
		return nil, errs.UnsupportedType("rolldown: provider %T", mp)
	}
}
