package curve

import (
	"github.com/meenmo/mogreeks/errs"
)

// ForwardCurve gives the forward price of an underlying for delivery at t.
type ForwardCurve struct {
	fwd   Curve
	scale float64
}

// NewForwardCurve wraps a curve of forward prices.
func NewForwardCurve(fwd Curve) (*ForwardCurve, error) {
	if err := requireCurve(fwd, "forward curve"); err != nil {
		return nil, err
	}
	return &ForwardCurve{fwd: fwd, scale: 1}, nil
}

// NewForwardCurveFromYield builds F(t) = spot / DF(t) with no carry other than
// the discounting rate.
func NewForwardCurveFromYield(spot float64, dc DiscountCurve) (*ForwardCurve, error) {
	if dc == nil {
		return nil, errs.InvalidArgument("forward curve: nil discount curve")
	}
	if spot <= 0 {
		return nil, errs.InvalidArgument("forward curve: spot %g must be positive", spot)
	}
	return &ForwardCurve{
		fwd: Functional(func(t float64) float64 {
			return spot / dc.DiscountFactor(t)
		}),
		scale: 1,
	}, nil
}

// Forward returns the forward price for delivery at t.
func (f *ForwardCurve) Forward(t float64) float64 {
	return f.scale * f.fwd.At(t)
}

// Spot returns the forward for immediate delivery.
func (f *ForwardCurve) Spot() float64 {
	return f.Forward(0)
}

// Curve returns the unscaled forward curve.
func (f *ForwardCurve) Curve() Curve {
	return f.fwd
}

// WithCurve returns a forward curve over fwd carrying the receiver's scaling.
func (f *ForwardCurve) WithCurve(fwd Curve) *ForwardCurve {
	return &ForwardCurve{fwd: fwd, scale: f.scale}
}

// WithFractionalShift returns F'(t) = F(t)·(1+relShift).
func (f *ForwardCurve) WithFractionalShift(relShift float64) *ForwardCurve {
	if relShift == 0 {
		return f
	}
	return &ForwardCurve{fwd: f.fwd, scale: f.scale * (1 + relShift)}
}

// PriceIndexCurve gives the projected value of a price index (e.g. CPI) at t.
type PriceIndexCurve struct {
	name  string
	index Curve
}

// NewPriceIndexCurve wraps a curve of index values.
func NewPriceIndexCurve(name string, index Curve) (*PriceIndexCurve, error) {
	if err := requireCurve(index, "price index curve "+name); err != nil {
		return nil, err
	}
	return &PriceIndexCurve{name: name, index: index}, nil
}

func (p *PriceIndexCurve) Name() string { return p.name }

// Index returns the projected index value at t.
func (p *PriceIndexCurve) Index(t float64) float64 { return p.index.At(t) }

// Curve returns the underlying index curve.
func (p *PriceIndexCurve) Curve() Curve { return p.index }

// WithCurve returns a price index curve with the same name over index.
func (p *PriceIndexCurve) WithCurve(index Curve) *PriceIndexCurve {
	return &PriceIndexCurve{name: p.name, index: index}
}
