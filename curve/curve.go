// Package curve holds the pure time-indexed functions used as market data:
// zero-rate and discount-factor curves, forward curves and price-index curves.
package curve

import (
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/interpolate"
)

// Curve is a pure function of time (in years).
type Curve interface {
	At(t float64) float64
}

// Constant is a flat curve.
type Constant float64

func (c Constant) At(float64) float64 { return float64(c) }

// Functional adapts a plain function to Curve.
type Functional func(t float64) float64

func (f Functional) At(t float64) float64 { return f(t) }

// Interpolated is a nodal curve. Node times and values are never exposed for
// mutation; every transformation returns a new curve.
type Interpolated struct {
	fn *interpolate.Func
}

// NewInterpolated fits a curve through (times, values).
func NewInterpolated(times, values []float64, method interpolate.Method) (*Interpolated, error) {
	fn, err := interpolate.Fit(method, times, values)
	if err != nil {
		return nil, err
	}
	return &Interpolated{fn: fn}, nil
}

func (c *Interpolated) At(t float64) float64 { return c.fn.At(t) }

// Nodes returns copies of the node times and values.
func (c *Interpolated) Nodes() (times, values []float64) {
	return c.fn.Nodes()
}

// Method returns the curve's interpolation scheme.
func (c *Interpolated) Method() interpolate.Method {
	return c.fn.Method()
}

// NodeSensitivities returns dAt(t)/dvalue[i] for every node.
func (c *Interpolated) NodeSensitivities(t float64) ([]float64, error) {
	return c.fn.Sensitivities(t)
}

// TimeShifted evaluates its base curve dt years later.
type TimeShifted struct {
	base Curve
	dt   float64
}

// TimeShift returns a curve c' with c'.At(t) == c.At(t+dt). Consecutive shifts
// collapse into one; shifts that cancel return the original curve.
func TimeShift(c Curve, dt float64) Curve {
	if s, ok := c.(*TimeShifted); ok {
		c, dt = s.base, s.dt+dt
	}
	if dt == 0 {
		return c
	}
	return &TimeShifted{base: c, dt: dt}
}

func (c *TimeShifted) At(t float64) float64 { return c.base.At(t + c.dt) }

// Base returns the unshifted curve.
func (c *TimeShifted) Base() Curve { return c.base }

// Shift returns the time offset in years.
func (c *TimeShifted) Shift() float64 { return c.dt }

// Spread adds a constant to its base curve.
type Spread struct {
	base   Curve
	spread float64
}

// AddSpread returns base + spread; a zero spread returns base.
func AddSpread(base Curve, spread float64) Curve {
	if s, ok := base.(*Spread); ok {
		base, spread = s.base, s.spread+spread
	}
	if spread == 0 {
		return base
	}
	return &Spread{base: base, spread: spread}
}

func (c *Spread) At(t float64) float64 { return c.base.At(t) + c.spread }

func requireCurve(c Curve, what string) error {
	if c == nil {
		return errs.InvalidArgument("%s: nil curve", what)
	}
	return nil
}
