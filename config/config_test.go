package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mogreeks/config"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/utils"
)

func TestLoad_EmptyGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig, cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(strings.NewReader(`
volatility_shift: 0.001
strike_window: 2
horizon_day_count: ACT/360
`))
	require.NoError(t, err)
	assert.Equal(t, 0.001, cfg.VolatilityShift)
	assert.Equal(t, 2, cfg.StrikeWindow)
	assert.Equal(t, utils.Act360, cfg.HorizonDayCount)
	assert.Equal(t, config.DefaultConfig.ForwardRelativeShift, cfg.ForwardRelativeShift)
	assert.Equal(t, config.DefaultConfig.ExpiryWindow, cfg.ExpiryWindow)
}

func TestLoad_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"forward shift at one": "forward_relative_shift: 1",
		"zero vol shift":       "volatility_shift: 0",
		"negative window":      "expiry_window: -1",
		"no workers":           "workers: 0",
		"unknown day count":    "horizon_day_count: BUS/252",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(strings.NewReader(doc))
			assert.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}

	_, err := config.Load(strings.NewReader("workers: [1"))
	assert.Error(t, err)
}
