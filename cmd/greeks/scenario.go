package main

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/mogreeks/calendar"
	"github.com/meenmo/mogreeks/config"
	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/greeks"
	"github.com/meenmo/mogreeks/horizon"
	"github.com/meenmo/mogreeks/instrument"
	"github.com/meenmo/mogreeks/interpolate"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing/black"
	"github.com/meenmo/mogreeks/surface"
)

const dateLayout = "2006-01-02"

type scenario struct {
	TaskID        string      `yaml:"task_id"`
	ValuationDate string      `yaml:"valuation_date"`
	Currency      string      `yaml:"currency"`
	Rate          float64     `yaml:"rate"`
	Curve         *curveInput `yaml:"curve"`
	Spot          float64     `yaml:"spot"`
	Vol           float64     `yaml:"vol"`
	VolGrid       *gridInput  `yaml:"vol_grid"`
	Option        optionInput `yaml:"option"`
	Holidays      []string    `yaml:"holidays"`
	DaysForward   int         `yaml:"days_forward"`
}

type curveInput struct {
	Times  []float64 `yaml:"times"`
	Rates  []float64 `yaml:"rates"`
	Method string    `yaml:"method"`
}

type gridInput struct {
	Expiries     []float64 `yaml:"expiries"`
	Strikes      []float64 `yaml:"strikes"`
	Vols         []float64 `yaml:"vols"`
	StrikeMethod string    `yaml:"strike_method"`
	ExpiryMethod string    `yaml:"expiry_method"`
}

type optionInput struct {
	Strike     float64 `yaml:"strike"`
	ExpiryDate string  `yaml:"expiry_date"`
	SettleDate string  `yaml:"settle_date"`
	Call       bool    `yaml:"call"`
	Notional   float64 `yaml:"notional"`
	DayCount   string  `yaml:"day_count"`
}

type nodeOutput struct {
	Expiry float64 `json:"expiry"`
	Strike float64 `json:"strike,omitempty"`
	Value  float64 `json:"value"`
}

type report struct {
	TaskID                  string       `json:"task_id,omitempty"`
	PV                      float64      `json:"pv"`
	ForwardSensitivity      float64      `json:"forward_sensitivity"`
	DiscountRateSensitivity float64      `json:"discount_rate_sensitivity"`
	PV01                    float64      `json:"pv01"`
	VegaParallel            float64      `json:"vega_parallel"`
	BucketedDelta           []nodeOutput `json:"bucketed_delta,omitempty"`
	BucketedVega            []nodeOutput `json:"bucketed_vega,omitempty"`
	Theta                   float64      `json:"theta"`
	Error                   string       `json:"error,omitempty"`
}

func parseScenario(r io.Reader) (scenario, error) {
	sc := scenario{Currency: string(currency.USD), DaysForward: 1}
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		return scenario{}, err
	}
	return sc, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %v", field, err)
	}
	return t, nil
}

func (sc scenario) bundle() (*market.Bundle, error) {
	var dc *curve.YieldCurve
	if sc.Curve != nil {
		rates, err := curve.NewInterpolated(sc.Curve.Times, sc.Curve.Rates, interpolate.Method(sc.Curve.Method))
		if err != nil {
			return nil, fmt.Errorf("curve: %w", err)
		}
		if dc, err = curve.NewYieldCurve(sc.Currency, rates); err != nil {
			return nil, err
		}
	} else {
		dc = curve.FlatYieldCurve(sc.Currency, sc.Rate)
	}
	fc, err := curve.NewForwardCurveFromYield(sc.Spot, dc)
	if err != nil {
		return nil, err
	}
	var vols surface.Surface = surface.Constant(sc.Vol)
	if g := sc.VolGrid; g != nil {
		grid, err := surface.NewGrid(g.Expiries, g.Strikes, g.Vols,
			interpolate.Method(g.StrikeMethod), interpolate.Method(g.ExpiryMethod))
		if err != nil {
			return nil, fmt.Errorf("vol grid: %w", err)
		}
		vols = grid
	}
	return market.NewBundle(dc, fc, vols)
}

func (sc scenario) option() (instrument.EuropeanOptionDefinition, error) {
	expiry, err := parseDate("option.expiry_date", sc.Option.ExpiryDate)
	if err != nil {
		return instrument.EuropeanOptionDefinition{}, err
	}
	settle := expiry
	if sc.Option.SettleDate != "" {
		if settle, err = parseDate("option.settle_date", sc.Option.SettleDate); err != nil {
			return instrument.EuropeanOptionDefinition{}, err
		}
	}
	notional := sc.Option.Notional
	if notional == 0 {
		notional = 1
	}
	return instrument.EuropeanOptionDefinition{
		Currency:   currency.Currency(sc.Currency),
		Strike:     sc.Option.Strike,
		ExpiryDate: expiry,
		SettleDate: settle,
		Call:       sc.Option.Call,
		Notional:   notional,
		DayCount:   sc.Option.DayCount,
	}, nil
}

func (sc scenario) calendar() (*calendar.HolidayCalendar, error) {
	holidays := make([]time.Time, 0, len(sc.Holidays))
	for _, h := range sc.Holidays {
		d, err := parseDate("holiday", h)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, d)
	}
	return calendar.New(sc.Currency, holidays...), nil
}

func run(sc scenario, cfg config.Config, logger *zap.Logger) (*report, error) {
	valuation, err := parseDate("valuation_date", sc.ValuationDate)
	if err != nil {
		return nil, err
	}
	b, err := sc.bundle()
	if err != nil {
		return nil, err
	}
	def, err := sc.option()
	if err != nil {
		return nil, err
	}
	cal, err := sc.calendar()
	if err != nil {
		return nil, err
	}
	d, err := def.ToDerivative(valuation)
	if err != nil {
		return nil, err
	}

	model := black.Model()
	calc, err := greeks.New(model, greeks.WithConfig(cfg), greeks.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	out := &report{TaskID: sc.TaskID}
	if out.PV, err = model.Price(d, b); err != nil {
		return nil, err
	}
	if out.ForwardSensitivity, err = calc.ForwardSensitivity(d, b, cfg.ForwardRelativeShift); err != nil {
		return nil, err
	}
	if out.DiscountRateSensitivity, err = calc.DiscountRateSensitivity(d, b); err != nil {
		return nil, err
	}
	if out.PV01, err = calc.PV01(d, b); err != nil {
		return nil, err
	}
	if out.VegaParallel, err = calc.VegaParallel(d, b, cfg.VolatilityShift); err != nil {
		return nil, err
	}
	if sc.Curve != nil {
		delta, err := calc.BucketedDelta(d, b)
		if err != nil {
			return nil, err
		}
		for i, t := range delta.Times {
			out.BucketedDelta = append(out.BucketedDelta, nodeOutput{Expiry: t, Value: delta.Values[i]})
		}
	}
	if sc.VolGrid != nil {
		vega, err := calc.BucketedVega(d, b)
		if err != nil {
			return nil, err
		}
		for _, n := range vega.Nodes {
			out.BucketedVega = append(out.BucketedVega, nodeOutput{Expiry: n.Expiry, Strike: n.Strike, Value: n.Value})
		}
	}

	theta, err := horizon.NewBundleCalculator[instrument.EuropeanOptionDefinition](model,
		horizon.WithConfig(cfg), horizon.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	amount, err := theta.Theta(horizon.Request[instrument.EuropeanOptionDefinition, *market.Bundle, horizon.None]{
		Definition:    def,
		ValuationDate: valuation,
		MarketData:    b,
		DaysForward:   sc.DaysForward,
		Calendar:      cal,
	})
	if err != nil {
		return nil, err
	}
	out.Theta = amount.Float(def.Currency)
	return out, nil
}
