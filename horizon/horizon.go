// Package horizon computes constant-spread theta: the change in value of an
// instrument between a valuation date and the next (or previous) calendar day,
// with the market data rolled down under the constant-spread convention.
//
// For a step of daysForward = ±1 day:
//
//	theta = price(instrument at horizon, rolled market) − price(instrument today, market)
//
// plus any cash flow realised during the step.
package horizon

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/meenmo/mogreeks/calendar"
	"github.com/meenmo/mogreeks/config"
	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/utils"
)

// None is the auxiliary-data type of instruments that need none.
type None struct{}

// Request carries the inputs of one horizon calculation.
type Request[D, M, A any] struct {
	Definition    D
	ValuationDate time.Time
	MarketData    M
	DaysForward   int
	Calendar      calendar.Calendar
	Aux           A
}

// Calculator computes theta for one instrument family.
type Calculator[D, M, A any] interface {
	Theta(req Request[D, M, A]) (currency.MultipleAmount, error)
}

// Option customises a calculator.
type Option func(*base)

// WithConfig replaces config.DefaultConfig.
func WithConfig(cfg config.Config) Option {
	return func(b *base) { b.cfg = cfg }
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.logger = l
		}
	}
}

type base struct {
	cfg    config.Config
	logger *zap.Logger
}

func newBase(name string, opts []Option) (base, error) {
	b := base{cfg: config.DefaultConfig, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&b)
	}
	if err := b.cfg.Validate(); err != nil {
		return base{}, err
	}
	b.logger = b.logger.Named("horizon").Named(name)
	return b, nil
}

// step is the pair of dates a theta is measured between.
type step struct {
	today   time.Time
	horizon time.Time
	dt      float64
	forward int
}

func (b base) step(valuation time.Time, daysForward int, cal calendar.Calendar) (step, error) {
	if daysForward != 1 && daysForward != -1 {
		return step{}, errs.InvalidArgument("horizon: days forward %d must be +1 or -1", daysForward)
	}
	if cal == nil {
		return step{}, errs.InvalidArgument("horizon: nil calendar")
	}
	today, err := calendar.NextBusinessDay(cal, valuation)
	if err != nil {
		return step{}, err
	}
	horizon := today.AddDate(0, 0, daysForward)
	return step{
		today:   today,
		horizon: horizon,
		dt:      utils.YearFraction(today, horizon, b.cfg.HorizonDayCount),
		forward: daysForward,
	}, nil
}

// finite rejects NaN and infinite values before they reach an amount.
func finite(what string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.InconsistentState("horizon: %s is not finite: %g", what, v)
		}
	}
	return nil
}

func (b base) debug(msg string, st step, today, tomorrow float64) {
	b.logger.Debug(msg,
		zap.Time("today", st.today),
		zap.Time("horizon", st.horizon),
		zap.Float64("dt", st.dt),
		zap.Float64("pv_today", today),
		zap.Float64("pv_horizon", tomorrow))
}

// Expiring is implemented by definitions with a last trading date. Once the
// horizon reaches it the instrument is treated as settled and worth zero.
type Expiring interface {
	Expiry() time.Time
}

func expiredAt(def any, horizon time.Time) bool {
	e, ok := def.(Expiring)
	return ok && !horizon.Before(e.Expiry())
}
