package greeks

import (
	"go.uber.org/zap"

	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing"
	"github.com/meenmo/mogreeks/surface"
	"github.com/meenmo/mogreeks/utils"
)

// OptionTerms exposes the expiry and strike used to centre the bucketing
// window on moneyness-backed surfaces.
type OptionTerms interface {
	OptionExpiry() float64
	OptionStrike() float64
}

func checkShift(shift float64) error {
	if !(shift > 0) {
		return errs.InvalidArgument("vega: shift %g must be positive", shift)
	}
	return nil
}

// VegaParallel returns dPV/dvol for a uniform ±shift of the whole surface.
func (c *Calculator) VegaParallel(d pricing.Derivative, b *market.Bundle, shift float64) (float64, error) {
	if err := checkInputs(d, b); err != nil {
		return 0, err
	}
	if err := checkShift(shift); err != nil {
		return 0, err
	}
	return c.centered(d, b.WithShiftedSurface(shift), b.WithShiftedSurface(-shift), shift)
}

// VegaPoint returns dPV/dvol for a ±shift of the single node at
// (expiry, strike) of a grid surface.
func (c *Calculator) VegaPoint(d pricing.Derivative, b *market.Bundle, expiry, strike, shift float64) (float64, error) {
	if err := checkInputs(d, b); err != nil {
		return 0, err
	}
	if err := checkShift(shift); err != nil {
		return 0, err
	}
	up, err := b.WithShiftedSurfaceNode(expiry, strike, shift)
	if err != nil {
		return 0, err
	}
	down, err := b.WithShiftedSurfaceNode(expiry, strike, -shift)
	if err != nil {
		return 0, err
	}
	return c.centered(d, up, down, shift)
}

// BucketedVega returns the vega of every relevant volatility node.
//
// Grid surfaces are bumped node by node with centered differences.
// Moneyness-backed surfaces are bumped only in a window of slices and
// strikes around the option, each node shifted down once and its slice
// refitted; the result is (P(−shift) − P) / (−shift).
func (c *Calculator) BucketedVega(d pricing.Derivative, b *market.Bundle) (SurfaceSensitivity, error) {
	if err := checkInputs(d, b); err != nil {
		return SurfaceSensitivity{}, err
	}
	switch s := b.Surface().(type) {
	case *surface.Grid:
		return c.gridVega(d, b, s)
	case *surface.Moneyness:
		return c.moneynessVega(d, b, s)
	default:
		return SurfaceSensitivity{}, errs.UnsupportedType("bucketed vega: surface %T", b.Surface())
	}
}

func (c *Calculator) gridVega(d pricing.Derivative, b *market.Bundle, g *surface.Grid) (SurfaceSensitivity, error) {
	expiries, strikes, _ := g.Nodes()
	shift := c.cfg.VolatilityShift
	nodes := make([]NodeSensitivity, len(expiries))
	err := c.parallel(len(expiries), func(i int) error {
		v, err := c.VegaPoint(d, b, expiries[i], strikes[i], shift)
		if err != nil {
			return err
		}
		nodes[i] = NodeSensitivity{Expiry: expiries[i], Strike: strikes[i], Value: v}
		return nil
	})
	if err != nil {
		return SurfaceSensitivity{}, err
	}
	c.logger.Debug("grid vega", zap.Int("nodes", len(nodes)))
	return SurfaceSensitivity{Nodes: nodes}, nil
}

type sliceNode struct {
	slice, strike int
}

func (c *Calculator) moneynessVega(d pricing.Derivative, b *market.Bundle, m *surface.Moneyness) (SurfaceSensitivity, error) {
	opt, ok := d.(OptionTerms)
	if !ok {
		return SurfaceSensitivity{}, errs.UnsupportedType("bucketed vega: %s has no expiry/strike", d.Kind())
	}
	base, err := c.pricer.Price(d, b)
	if err != nil {
		return SurfaceSensitivity{}, err
	}

	expiries := m.Expiries()
	lo, hi := utils.Window(utils.LowerBound(expiries, opt.OptionExpiry()), c.cfg.ExpiryWindow, len(expiries))
	var window []sliceNode
	for i := lo; i <= hi; i++ {
		strikes := m.Smile(i).Strikes()
		klo, khi := utils.Window(utils.LowerBound(strikes, opt.OptionStrike()), c.cfg.StrikeWindow, len(strikes))
		for j := klo; j <= khi; j++ {
			window = append(window, sliceNode{slice: i, strike: j})
		}
	}

	shift := -c.cfg.VolatilityShift
	nodes := make([]NodeSensitivity, len(window))
	err = c.parallel(len(window), func(n int) error {
		w := window[n]
		bumped, err := m.WithSliceNodeShift(w.slice, w.strike, shift)
		if err != nil {
			return err
		}
		bb, err := b.WithSurface(bumped)
		if err != nil {
			return err
		}
		p, err := c.pricer.Price(d, bb)
		if err != nil {
			return err
		}
		smile := m.Smile(w.slice)
		nodes[n] = NodeSensitivity{
			Expiry: smile.Expiry(),
			Strike: smile.Strikes()[w.strike],
			Value:  (p - base) / shift,
		}
		return nil
	})
	if err != nil {
		return SurfaceSensitivity{}, err
	}
	c.logger.Debug("moneyness vega",
		zap.Int("slices", hi-lo+1),
		zap.Int("nodes", len(nodes)),
		zap.Float64("base", base))
	return SurfaceSensitivity{Nodes: nodes}, nil
}
