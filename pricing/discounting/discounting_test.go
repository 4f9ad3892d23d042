package discounting_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/market"
	"github.com/meenmo/mogreeks/pricing"
	"github.com/meenmo/mogreeks/pricing/discounting"
)

func TestPresentValue(t *testing.T) {
	t.Parallel()

	cf := discounting.CashFlows{Currency: currency.USD, Times: []float64{0.5, 1}, Amounts: []float64{2, 102}}
	pv, err := discounting.PresentValue(cf, curve.FlatYieldCurve("USD", 0.04))
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Exp(-0.02)+102*math.Exp(-0.04), pv, 1e-12)
	assert.Equal(t, 1.0, discounting.Settlement(cf))
	assert.Equal(t, pricing.KindCashFlows, cf.Kind())

	_, err = discounting.PresentValue(discounting.CashFlows{Times: []float64{1}}, curve.FlatYieldCurve("USD", 0.04))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = discounting.PresentValue(cf, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestPresentValueProviders(t *testing.T) {
	t.Parallel()

	mc, err := market.NewMulticurveProvider(
		map[currency.Currency]curve.DiscountCurve{currency.USD: curve.FlatYieldCurve("USD", 0.03)},
		nil, currency.NewFXMatrix(currency.USD))
	require.NoError(t, err)
	ip, err := market.NewIssuerProvider(mc, map[string]curve.DiscountCurve{"ACME": curve.FlatYieldCurve("ACME", 0.06)})
	require.NoError(t, err)

	cf := discounting.CashFlows{Currency: currency.USD, Times: []float64{2}, Amounts: []float64{100}}
	pv, err := discounting.PresentValueProvider(cf, mc)
	require.NoError(t, err)
	assert.InDelta(t, 100*math.Exp(-0.06), pv, 1e-12)

	pv, err = discounting.PresentValueIssuer(cf, "ACME", ip)
	require.NoError(t, err)
	assert.InDelta(t, 100*math.Exp(-0.12), pv, 1e-12)

	_, err = discounting.PresentValueProvider(discounting.CashFlows{Currency: currency.EUR}, mc)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = discounting.PresentValueIssuer(cf, "ACME", nil)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Equal(t, 0.0, discounting.Settlement(discounting.CashFlows{}))
}
