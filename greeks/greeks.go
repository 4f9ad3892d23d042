// Package greeks computes bump-and-reprice sensitivities of derivatives priced
// off a static replication bundle.
//
// Every sensitivity perturbs one member of the bundle, reprices through the
// supplied pricing.Pricer and differences. Bundles are never mutated: each
// bump builds a new bundle sharing the untouched members with the base.
package greeks

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/mogreeks/config"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing"
)

// BasisPoint converts a per-unit rate sensitivity into PV01.
const BasisPoint = 10000.0

// Calculator is stateless after construction and safe for concurrent use.
type Calculator struct {
	pricer      pricing.Pricer
	distributor NodeDistributor
	cfg         config.Config
	logger      *zap.Logger
}

// Option customises a Calculator.
type Option func(*Calculator)

// WithConfig replaces config.DefaultConfig.
func WithConfig(cfg config.Config) Option {
	return func(c *Calculator) { c.cfg = cfg }
}

// WithLogger sets the debug logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNodeDistributor replaces the interpolator-based node distributor.
func WithNodeDistributor(d NodeDistributor) Option {
	return func(c *Calculator) {
		if d != nil {
			c.distributor = d
		}
	}
}

// New returns a calculator repricing through p.
func New(p pricing.Pricer, opts ...Option) (*Calculator, error) {
	if p == nil {
		return nil, errs.InvalidArgument("greeks: nil pricer")
	}
	c := &Calculator{
		pricer:      p,
		distributor: InterpolatorDistributor{},
		cfg:         config.DefaultConfig,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	c.logger = c.logger.Named("greeks")
	return c, nil
}

// Config returns the calculator's configuration.
func (c *Calculator) Config() config.Config { return c.cfg }

func checkInputs(d pricing.Derivative, b *market.Bundle) error {
	if d == nil {
		return errs.InvalidArgument("greeks: nil derivative")
	}
	if b == nil {
		return errs.InvalidArgument("greeks: nil bundle")
	}
	return nil
}

// centered prices d on the up and down bundles and returns (up − down) / (2·h).
func (c *Calculator) centered(d pricing.Derivative, up, down *market.Bundle, h float64) (float64, error) {
	pUp, err := c.pricer.Price(d, up)
	if err != nil {
		return 0, err
	}
	pDown, err := c.pricer.Price(d, down)
	if err != nil {
		return 0, err
	}
	return (pUp - pDown) / (2 * h), nil
}

// parallel runs fn(0..n-1) on at most cfg.Workers goroutines and returns the
// first error. Each call must write only its own result slot.
func (c *Calculator) parallel(n int, fn func(i int) error) error {
	var g errgroup.Group
	g.SetLimit(c.cfg.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}
