package horizon_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/meenmo/mogreeks/calendar"
	"github.com/meenmo/mogreeks/config"
	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/horizon"
	"github.com/meenmo/mogreeks/instrument"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing"
	"github.com/meenmo/mogreeks/pricing/black"
	"github.com/meenmo/mogreeks/surface"
	"github.com/meenmo/mogreeks/timeseries"
)

const (
	rate = 0.02
	spot = 100.0
	day  = 1.0 / 365.0
)

type (
	forwardRequest = horizon.Request[instrument.EquityForwardDefinition, *market.Bundle, horizon.None]
	optionRequest  = horizon.Request[instrument.EuropeanOptionDefinition, *market.Bundle, horizon.None]
	futureRequest  = horizon.Request[instrument.IndexFutureDefinition, *market.Bundle, *timeseries.Series]
	flowRequest    = horizon.Request[instrument.CashFlowDefinition, market.Provider, horizon.None]
	trsRequest     = horizon.Request[instrument.BondTRSDefinition, *market.IssuerProvider, horizon.None]
)

var (
	_ horizon.Calculator[instrument.EquityForwardDefinition, *market.Bundle, horizon.None]     = (*horizon.BundleCalculator[instrument.EquityForwardDefinition])(nil)
	_ horizon.Calculator[instrument.IndexFutureDefinition, *market.Bundle, *timeseries.Series] = (*horizon.FutureCalculator)(nil)
	_ horizon.Calculator[instrument.CashFlowDefinition, market.Provider, horizon.None]         = (*horizon.CashFlowCalculator)(nil)
	_ horizon.Calculator[instrument.BondTRSDefinition, *market.IssuerProvider, horizon.None]   = (*horizon.TotalReturnSwapCalculator)(nil)
)

// 2024-01-02 is a Tuesday.
var today = date(2024, 1, 2)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func flatBundle(t *testing.T) *market.Bundle {
	t.Helper()
	dc := curve.FlatYieldCurve("USD", rate)
	fc, err := curve.NewForwardCurveFromYield(spot, dc)
	require.NoError(t, err)
	b, err := market.NewBundle(dc, fc, surface.Constant(0.2))
	require.NoError(t, err)
	return b
}

func forwardCalculator(t *testing.T, opts ...horizon.Option) *horizon.BundleCalculator[instrument.EquityForwardDefinition] {
	t.Helper()
	c, err := horizon.NewBundleCalculator[instrument.EquityForwardDefinition](black.Model(), opts...)
	require.NoError(t, err)
	return c
}

var oneYearForward = instrument.EquityForwardDefinition{
	Currency:   currency.USD,
	Strike:     100,
	SettleDate: date(2025, 1, 2),
	Notional:   1,
}

type closedCalendar struct{}

func (closedCalendar) IsBusinessDay(time.Time) bool { return false }

// thetaFuncs runs one request per instrument family with the given step and
// calendar.
func thetaFuncs(t *testing.T) map[string]func(days int, cal calendar.Calendar) error {
	t.Helper()
	b := flatBundle(t)
	prices, err := timeseries.New([]time.Time{date(2023, 12, 29), today}, []float64{99, 100})
	require.NoError(t, err)
	future := instrument.IndexFutureDefinition{Currency: currency.USD, ExpiryDate: date(2024, 6, 13), SettleDate: date(2024, 6, 14), Notional: 1}
	flows := instrument.CashFlowDefinition{Currency: currency.USD, Payments: []instrument.Payment{{Date: date(2025, 1, 2), Amount: 100}}}
	trs := instrument.BondTRSDefinition{Asset: flows, Issuer: "ACME", Funding: flows}

	fwd := forwardCalculator(t)
	fut, err := horizon.NewFutureCalculator(black.Model())
	require.NoError(t, err)
	cf, err := horizon.NewCashFlowCalculator(horizon.PaymentOptional)
	require.NoError(t, err)
	sw, err := horizon.NewTotalReturnSwapCalculator()
	require.NoError(t, err)

	return map[string]func(int, calendar.Calendar) error{
		"bundle": func(days int, cal calendar.Calendar) error {
			_, err := fwd.Theta(forwardRequest{Definition: oneYearForward, ValuationDate: today, MarketData: b, DaysForward: days, Calendar: cal})
			return err
		},
		"future": func(days int, cal calendar.Calendar) error {
			_, err := fut.Theta(futureRequest{Definition: future, ValuationDate: today, MarketData: b, DaysForward: days, Calendar: cal, Aux: prices})
			return err
		},
		"cash flow": func(days int, cal calendar.Calendar) error {
			_, err := cf.Theta(flowRequest{Definition: flows, ValuationDate: today, MarketData: provider(t), DaysForward: days, Calendar: cal})
			return err
		},
		"total return swap": func(days int, cal calendar.Calendar) error {
			_, err := sw.Theta(trsRequest{Definition: trs, ValuationDate: today, MarketData: issuerProvider(t), DaysForward: days, Calendar: cal})
			return err
		},
	}
}

func TestTheta_ArgumentContract(t *testing.T) {
	t.Parallel()

	for name, theta := range thetaFuncs(t) {
		for _, days := range []int{0, 2, -3} {
			assert.ErrorIs(t, theta(days, calendar.Weekends), errs.ErrInvalidArgument, "%s: days forward %d", name, days)
		}
		assert.ErrorIs(t, theta(1, nil), errs.ErrInvalidArgument, "%s: nil calendar", name)
		assert.ErrorIs(t, theta(1, closedCalendar{}), errs.ErrInvalidArgument, "%s: no business day", name)
		assert.NoError(t, theta(1, calendar.Weekends), name)
		assert.NoError(t, theta(-1, calendar.Weekends), name)
	}

	c := forwardCalculator(t)
	_, err := c.Theta(forwardRequest{Definition: oneYearForward, ValuationDate: today, DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = horizon.NewBundleCalculator[instrument.EquityForwardDefinition](nil)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	bad := config.DefaultConfig
	bad.HorizonDayCount = "BUS/252"
	_, err = horizon.NewCashFlowCalculator(horizon.PaymentOptional, horizon.WithConfig(bad))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

// nanPricer stands in for a model that fails numerically.
type nanPricer struct{}

func (nanPricer) Price(pricing.Derivative, *market.Bundle) (float64, error) { return math.NaN(), nil }
func (nanPricer) TimeToSettlement(pricing.Derivative) (float64, error) { return 1, nil }

func TestTheta_NonFiniteValues(t *testing.T) {
	t.Parallel()

	b := flatBundle(t)
	c, err := horizon.NewBundleCalculator[instrument.EquityForwardDefinition](nanPricer{})
	require.NoError(t, err)
	req := forwardRequest{Definition: oneYearForward, ValuationDate: today, MarketData: b, DaysForward: 1, Calendar: calendar.Weekends}
	_, err = c.Theta(req)
	assert.ErrorIs(t, err, errs.ErrInconsistentState)

	out, err := horizon.Batch(context.Background(), horizon.Calculator[instrument.EquityForwardDefinition, *market.Bundle, horizon.None](c), []forwardRequest{req, req}, 2)
	assert.ErrorIs(t, err, errs.ErrInconsistentState)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, out[0].IsZero())

	prices, err := timeseries.New([]time.Time{today}, []float64{100})
	require.NoError(t, err)
	fut, err := horizon.NewFutureCalculator(nanPricer{})
	require.NoError(t, err)
	_, err = fut.Theta(futureRequest{
		Definition:    instrument.IndexFutureDefinition{Currency: currency.USD, ExpiryDate: date(2024, 6, 13), SettleDate: date(2024, 6, 14), Notional: 1},
		ValuationDate: today, MarketData: b, DaysForward: 1, Calendar: calendar.Weekends, Aux: prices,
	})
	assert.ErrorIs(t, err, errs.ErrInconsistentState)

	tomorrow := today.AddDate(0, 0, 1)
	flows := instrument.CashFlowDefinition{Currency: currency.USD, Payments: []instrument.Payment{{Date: tomorrow, Amount: math.Inf(1)}}}
	cf, err := horizon.NewCashFlowCalculator(horizon.PaymentRequired)
	require.NoError(t, err)
	_, err = cf.Theta(flowRequest{Definition: flows, ValuationDate: today, MarketData: provider(t), DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInconsistentState)

	sw, err := horizon.NewTotalReturnSwapCalculator()
	require.NoError(t, err)
	trs := instrument.BondTRSDefinition{Asset: flows, Issuer: "ACME", Funding: instrument.CashFlowDefinition{Currency: currency.EUR}}
	_, err = sw.Theta(trsRequest{Definition: trs, ValuationDate: today, MarketData: issuerProvider(t), DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInconsistentState)
}

func TestTheta_ForwardConstantSpreadSample(t *testing.T) {
	t.Parallel()

	theta, err := forwardCalculator(t).Theta(forwardRequest{
		Definition:    oneYearForward,
		ValuationDate: today,
		MarketData:    flatBundle(t),
		DaysForward:   1,
		Calendar:      calendar.Weekends,
	})
	require.NoError(t, err)

	T := 366.0 / 365.0
	fwd := spot * math.Exp(rate*T)
	want := (math.Exp(-rate*(T-day)) - math.Exp(-rate*T)) * (fwd - 100)
	assert.InDelta(t, want, theta.Float(currency.USD), 1e-12)
	assert.Equal(t, []currency.Currency{currency.USD}, theta.Currencies())
}

func TestTheta_RollsValuationToBusinessDay(t *testing.T) {
	t.Parallel()

	c := forwardCalculator(t)
	b := flatBundle(t)
	// Saturday 2024-01-06 rolls to Monday 2024-01-08
	sat, err := c.Theta(forwardRequest{Definition: oneYearForward, ValuationDate: date(2024, 1, 6), MarketData: b, DaysForward: 1, Calendar: calendar.Weekends})
	require.NoError(t, err)
	mon, err := c.Theta(forwardRequest{Definition: oneYearForward, ValuationDate: date(2024, 1, 8), MarketData: b, DaysForward: 1, Calendar: calendar.Weekends})
	require.NoError(t, err)
	assert.Equal(t, mon.Float(currency.USD), sat.Float(currency.USD))
}

func TestTheta_BackwardStep(t *testing.T) {
	t.Parallel()

	theta, err := forwardCalculator(t).Theta(forwardRequest{
		Definition:    oneYearForward,
		ValuationDate: today,
		MarketData:    flatBundle(t),
		DaysForward:   -1,
		Calendar:      calendar.Weekends,
	})
	require.NoError(t, err)

	T := 366.0 / 365.0
	fwd := spot * math.Exp(rate*T)
	want := (math.Exp(-rate*(T+day)) - math.Exp(-rate*T)) * (fwd - 100)
	assert.InDelta(t, want, theta.Float(currency.USD), 1e-12)
}

func TestTheta_OptionMatchesBlackReprice(t *testing.T) {
	t.Parallel()

	def := instrument.EuropeanOptionDefinition{
		Currency:   currency.USD,
		Strike:     100,
		ExpiryDate: date(2025, 1, 2),
		SettleDate: date(2025, 1, 2),
		Call:       true,
		Notional:   1,
	}
	c, err := horizon.NewBundleCalculator[instrument.EuropeanOptionDefinition](black.Model())
	require.NoError(t, err)
	theta, err := c.Theta(optionRequest{Definition: def, ValuationDate: today, MarketData: flatBundle(t), DaysForward: 1, Calendar: calendar.Weekends})
	require.NoError(t, err)

	T := 366.0 / 365.0
	fwd := spot * math.Exp(rate*T)
	pvToday := math.Exp(-rate*T) * black.Price(fwd, 100, 0.2, T, true)
	pvTomorrow := math.Exp(-rate*(T-day)) * black.Price(fwd, 100, 0.2, T-day, true)
	assert.InDelta(t, pvTomorrow-pvToday, theta.Float(currency.USD), 1e-10)
	assert.Less(t, theta.Float(currency.USD), 0.0)
}

func TestTheta_ExpiringTomorrowIsWorthZero(t *testing.T) {
	t.Parallel()

	def := instrument.EuropeanOptionDefinition{
		Currency:   currency.USD,
		Strike:     90,
		ExpiryDate: today.AddDate(0, 0, 1),
		SettleDate: today.AddDate(0, 0, 1),
		Call:       true,
		Notional:   1,
	}
	c, err := horizon.NewBundleCalculator[instrument.EuropeanOptionDefinition](black.Model())
	require.NoError(t, err)
	b := flatBundle(t)
	theta, err := c.Theta(optionRequest{Definition: def, ValuationDate: today, MarketData: b, DaysForward: 1, Calendar: calendar.Weekends})
	require.NoError(t, err)

	d, err := def.ToDerivative(today)
	require.NoError(t, err)
	pv, err := black.Model().Price(d, b)
	require.NoError(t, err)
	assert.InDelta(t, -pv, theta.Float(currency.USD), 1e-12)
}

func TestFutureTheta(t *testing.T) {
	t.Parallel()

	def := instrument.IndexFutureDefinition{Currency: currency.USD, ExpiryDate: date(2024, 6, 13), SettleDate: date(2024, 6, 14), Notional: 1}
	prices, err := timeseries.New([]time.Time{date(2023, 12, 29), today}, []float64{99, 100.5})
	require.NoError(t, err)
	c, err := horizon.NewFutureCalculator(black.Model())
	require.NoError(t, err)
	b := flatBundle(t)

	theta, err := c.Theta(futureRequest{Definition: def, ValuationDate: today, MarketData: b, DaysForward: 1, Calendar: calendar.Weekends, Aux: prices})
	require.NoError(t, err)
	// the rolled forward and the carried margin price are both unchanged
	assert.InDelta(t, 0, theta.Float(currency.USD), 1e-9)

	_, err = c.Theta(futureRequest{Definition: def, ValuationDate: today, MarketData: b, DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInconsistentState)

	early, err := timeseries.New([]time.Time{date(2024, 2, 1)}, []float64{100})
	require.NoError(t, err)
	_, err = c.Theta(futureRequest{Definition: def, ValuationDate: today, MarketData: b, DaysForward: 1, Calendar: calendar.Weekends, Aux: early})
	assert.ErrorIs(t, err, errs.ErrInconsistentState)

	_, err = c.Theta(futureRequest{Definition: def, ValuationDate: today, MarketData: b, DaysForward: 3, Calendar: calendar.Weekends, Aux: prices})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func provider(t *testing.T) *market.MulticurveProvider {
	t.Helper()
	fx, err := currency.NewFXMatrix(currency.USD).WithRate(currency.EUR, 1.1)
	require.NoError(t, err)
	p, err := market.NewMulticurveProvider(map[currency.Currency]curve.DiscountCurve{
		currency.USD: curve.FlatYieldCurve("USD", rate),
		currency.EUR: curve.FlatYieldCurve("EUR", 0.03),
	}, nil, fx)
	require.NoError(t, err)
	return p
}

func TestCashFlowTheta_RealizesPayment(t *testing.T) {
	t.Parallel()

	tomorrow := today.AddDate(0, 0, 1)
	def := instrument.CashFlowDefinition{
		Currency: currency.USD,
		Payments: []instrument.Payment{
			{Date: tomorrow, Amount: 5},
			{Date: date(2025, 1, 2), Amount: 105},
		},
	}
	c, err := horizon.NewCashFlowCalculator(horizon.PaymentRequired)
	require.NoError(t, err)
	theta, err := c.Theta(flowRequest{Definition: def, ValuationDate: today, MarketData: provider(t), DaysForward: 1, Calendar: calendar.Weekends})
	require.NoError(t, err)

	T := 366.0 / 365.0
	want := 105*(math.Exp(-rate*(T-day))-math.Exp(-rate*T)) + 5*(1-math.Exp(-rate*day))
	assert.InDelta(t, want, theta.Float(currency.USD), 1e-12)
}

func TestCashFlowTheta_BackwardGivesPaymentBack(t *testing.T) {
	t.Parallel()

	def := instrument.CashFlowDefinition{
		Currency: currency.USD,
		Payments: []instrument.Payment{{Date: today, Amount: 5}},
	}
	c, err := horizon.NewCashFlowCalculator(horizon.PaymentOptional)
	require.NoError(t, err)
	theta, err := c.Theta(flowRequest{Definition: def, ValuationDate: today, MarketData: provider(t), DaysForward: -1, Calendar: calendar.Weekends})
	require.NoError(t, err)

	assert.InDelta(t, 5*math.Exp(-rate*day)-5, theta.Float(currency.USD), 1e-12)
}

func TestCashFlowTheta_PaymentPolicy(t *testing.T) {
	t.Parallel()

	p := provider(t)
	none := instrument.CashFlowDefinition{Currency: currency.USD, Payments: []instrument.Payment{{Date: date(2025, 1, 2), Amount: 100}}}

	required, err := horizon.NewCashFlowCalculator(horizon.PaymentRequired)
	require.NoError(t, err)
	_, err = required.Theta(flowRequest{Definition: none, ValuationDate: today, MarketData: p, DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInconsistentState)

	optional, err := horizon.NewCashFlowCalculator(horizon.PaymentOptional)
	require.NoError(t, err)
	_, err = optional.Theta(flowRequest{Definition: none, ValuationDate: today, MarketData: p, DaysForward: 1, Calendar: calendar.Weekends})
	require.NoError(t, err)

	tomorrow := today.AddDate(0, 0, 1)
	two := instrument.CashFlowDefinition{Currency: currency.USD, Payments: []instrument.Payment{{Date: tomorrow, Amount: 1}, {Date: tomorrow, Amount: 2}}}
	_, err = optional.Theta(flowRequest{Definition: two, ValuationDate: today, MarketData: p, DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInconsistentState)

	_, err = optional.Theta(flowRequest{Definition: none, ValuationDate: today, DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func issuerProvider(t *testing.T) *market.IssuerProvider {
	t.Helper()
	ip, err := market.NewIssuerProvider(provider(t), map[string]curve.DiscountCurve{"ACME": curve.FlatYieldCurve("ACME", 0.05)})
	require.NoError(t, err)
	return ip
}

func TestTotalReturnSwapTheta(t *testing.T) {
	t.Parallel()

	tomorrow := today.AddDate(0, 0, 1)
	def := instrument.BondTRSDefinition{
		Asset: instrument.CashFlowDefinition{
			Currency: currency.USD,
			Payments: []instrument.Payment{{Date: date(2025, 1, 2), Amount: 104}},
		},
		Issuer: "ACME",
		Funding: instrument.CashFlowDefinition{
			Currency: currency.EUR,
			Payments: []instrument.Payment{
				{Date: tomorrow, Amount: -1.5},
				{Date: date(2025, 1, 2), Amount: -91},
			},
		},
	}
	c, err := horizon.NewTotalReturnSwapCalculator()
	require.NoError(t, err)
	theta, err := c.Theta(trsRequest{Definition: def, ValuationDate: today, MarketData: issuerProvider(t), DaysForward: 1, Calendar: calendar.Weekends})
	require.NoError(t, err)

	T := 366.0 / 365.0
	asset := 104 * (math.Exp(-0.05*(T-day)) - math.Exp(-0.05*T))
	funding := -91*(math.Exp(-0.03*(T-day))-math.Exp(-0.03*T)) + 1.5*math.Exp(-0.03*day)
	assert.InDelta(t, asset+1.1*funding, theta.Float(currency.USD), 1e-12)
	// the realised funding coupon stays in its own currency
	assert.InDelta(t, -1.5, theta.Float(currency.EUR), 1e-15)

	_, err = c.Theta(trsRequest{Definition: def, ValuationDate: today, DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	def.Issuer = "UNKNOWN"
	_, err = c.Theta(trsRequest{Definition: def, ValuationDate: today, MarketData: issuerProvider(t), DaysForward: 1, Calendar: calendar.Weekends})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestBatch(t *testing.T) {
	t.Parallel()

	c := forwardCalculator(t)
	var calc horizon.Calculator[instrument.EquityForwardDefinition, *market.Bundle, horizon.None] = c
	b := flatBundle(t)
	reqs := []forwardRequest{
		{Definition: oneYearForward, ValuationDate: today, MarketData: b, DaysForward: 1, Calendar: calendar.Weekends},
		{Definition: oneYearForward, ValuationDate: today, MarketData: b, DaysForward: 2, Calendar: calendar.Weekends},
		{Definition: oneYearForward, ValuationDate: today, MarketData: b, DaysForward: -1, Calendar: calendar.Weekends},
	}

	out, err := horizon.Batch(context.Background(), calc, reqs, 2)
	require.Len(t, out, 3)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Len(t, multierr.Errors(err), 1)

	single, err := c.Theta(reqs[0])
	require.NoError(t, err)
	assert.Equal(t, single.Float(currency.USD), out[0].Float(currency.USD))
	assert.True(t, out[1].IsZero())
	assert.NotZero(t, out[2].Float(currency.USD))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = horizon.Batch(ctx, calc, reqs, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestThetaLogs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	c := forwardCalculator(t, horizon.WithLogger(zap.New(core)))
	_, err := c.Theta(forwardRequest{Definition: oneYearForward, ValuationDate: today, MarketData: flatBundle(t), DaysForward: 1, Calendar: calendar.Weekends})
	require.NoError(t, err)

	entries := logs.FilterMessage("bundle theta").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "horizon.bundle", entries[0].LoggerName)
}
