package config

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/utils"
)

// Config holds bump sizes, bucketing windows and pool sizing for the
// sensitivity and horizon calculators.
type Config struct {
	// ForwardRelativeShift is the fractional forward bump used by forward and
	// discount-rate sensitivities. Must lie in (0, 1).
	ForwardRelativeShift float64 `yaml:"forward_relative_shift"`

	// VolatilityShift is the absolute volatility bump for parallel, point and
	// bucketed vega.
	VolatilityShift float64 `yaml:"volatility_shift"`

	// ExpiryWindow and StrikeWindow bound the neighbourhood of slices and
	// strikes bumped around the option on moneyness-backed surfaces.
	ExpiryWindow int `yaml:"expiry_window"`
	StrikeWindow int `yaml:"strike_window"`

	// Workers bounds the number of concurrent repricings.
	Workers int `yaml:"workers"`

	// HorizonDayCount measures the elapsed time of a horizon step.
	HorizonDayCount string `yaml:"horizon_day_count"`
}

// DefaultConfig provides the standard bump sizes.
var DefaultConfig = Config{
	ForwardRelativeShift: 0.01,
	VolatilityShift:      0.0001,
	ExpiryWindow:         3,
	StrikeWindow:         6,
	Workers:              4,
	HorizonDayCount:      utils.Act365F,
}

// Validate rejects out-of-range settings.
func (c Config) Validate() error {
	switch {
	case !(c.ForwardRelativeShift > 0 && c.ForwardRelativeShift < 1):
		return errs.InvalidArgument("config: forward_relative_shift %g outside (0,1)", c.ForwardRelativeShift)
	case !(c.VolatilityShift > 0):
		return errs.InvalidArgument("config: volatility_shift %g must be positive", c.VolatilityShift)
	case c.ExpiryWindow < 0 || c.StrikeWindow < 0:
		return errs.InvalidArgument("config: negative window %d/%d", c.ExpiryWindow, c.StrikeWindow)
	case c.Workers < 1:
		return errs.InvalidArgument("config: workers %d must be at least 1", c.Workers)
	case !utils.KnownDayCount(c.HorizonDayCount):
		return errs.InvalidArgument("config: unknown horizon_day_count %q", c.HorizonDayCount)
	}
	return nil
}

// Load decodes YAML from r over DefaultConfig and validates the result. An
// empty document yields the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := DefaultConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
