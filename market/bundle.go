// Package market holds the immutable market data snapshots consumed by the
// sensitivity and horizon calculators.
package market

import (
	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/surface"
)

// Bundle is the static replication data: a discount curve, a forward curve and
// a volatility surface. Every With* method returns a new bundle that shares
// the fields it does not replace.
type Bundle struct {
	discount curve.DiscountCurve
	forward  *curve.ForwardCurve
	surface  surface.Surface
}

// NewBundle returns a bundle over the three market objects, none of which may be nil.
func NewBundle(discount curve.DiscountCurve, forward *curve.ForwardCurve, vols surface.Surface) (*Bundle, error) {
	switch {
	case discount == nil:
		return nil, errs.InvalidArgument("bundle: nil discount curve")
	case forward == nil:
		return nil, errs.InvalidArgument("bundle: nil forward curve")
	case vols == nil:
		return nil, errs.InvalidArgument("bundle: nil volatility surface")
	}
	return &Bundle{discount: discount, forward: forward, surface: vols}, nil
}

func (b *Bundle) DiscountCurve() curve.DiscountCurve { return b.discount }
func (b *Bundle) ForwardCurve() *curve.ForwardCurve  { return b.forward }
func (b *Bundle) Surface() surface.Surface           { return b.surface }

// WithDiscountCurve replaces the discount curve.
func (b *Bundle) WithDiscountCurve(dc curve.DiscountCurve) (*Bundle, error) {
	return NewBundle(dc, b.forward, b.surface)
}

// WithForwardCurve replaces the forward curve.
func (b *Bundle) WithForwardCurve(fc *curve.ForwardCurve) (*Bundle, error) {
	return NewBundle(b.discount, fc, b.surface)
}

// WithSurface replaces the volatility surface.
func (b *Bundle) WithSurface(s surface.Surface) (*Bundle, error) {
	return NewBundle(b.discount, b.forward, s)
}

// WithShiftedDiscountCurve moves every zero rate of the discount curve by shift.
func (b *Bundle) WithShiftedDiscountCurve(shift float64) (*Bundle, error) {
	dc, err := curve.ParallelShift(b.discount, shift)
	if err != nil {
		return nil, err
	}
	return &Bundle{discount: dc, forward: b.forward, surface: b.surface}, nil
}

// WithShiftedForwardCurve scales every forward by (1 + relShift).
func (b *Bundle) WithShiftedForwardCurve(relShift float64) *Bundle {
	return &Bundle{discount: b.discount, forward: b.forward.WithFractionalShift(relShift), surface: b.surface}
}

// WithShiftedSurface adds shift to every volatility.
func (b *Bundle) WithShiftedSurface(shift float64) *Bundle {
	return &Bundle{discount: b.discount, forward: b.forward, surface: surface.ShiftParallel(b.surface, shift)}
}

// WithShiftedSurfaceNode moves the volatility at (expiry, strike) by shift.
// Only grid surfaces carry addressable nodes.
func (b *Bundle) WithShiftedSurfaceNode(expiry, strike, shift float64) (*Bundle, error) {
	g, ok := b.surface.(*surface.Grid)
	if !ok {
		return nil, errs.UnsupportedType("single-node shift on %T", b.surface)
	}
	shifted, err := g.WithNodeShift(expiry, strike, shift)
	if err != nil {
		return nil, err
	}
	return &Bundle{discount: b.discount, forward: b.forward, surface: shifted}, nil
}
