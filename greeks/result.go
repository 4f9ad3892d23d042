package greeks

import (
	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
)

// CurveSensitivity is a sensitivity vector aligned with a curve's node times.
type CurveSensitivity struct {
	Curve  string
	Times  []float64
	Values []float64
}

// Sum returns the total across nodes.
func (s CurveSensitivity) Sum() float64 {
	total := 0.0
	for _, v := range s.Values {
		total += v
	}
	return total
}

// NodeSensitivity is the sensitivity to one (expiry, strike) volatility node.
type NodeSensitivity struct {
	Expiry float64
	Strike float64
	Value  float64
}

// SurfaceSensitivity is a set of node sensitivities of a volatility surface.
type SurfaceSensitivity struct {
	Nodes []NodeSensitivity
}

// Sum returns the total across nodes.
func (s SurfaceSensitivity) Sum() float64 {
	total := 0.0
	for _, n := range s.Nodes {
		total += n.Value
	}
	return total
}

// Lookup returns the sensitivity of the node at (expiry, strike).
func (s SurfaceSensitivity) Lookup(expiry, strike float64) (float64, bool) {
	for _, n := range s.Nodes {
		if n.Expiry == expiry && n.Strike == strike {
			return n.Value, true
		}
	}
	return 0, false
}

// NodeDistributor maps a sensitivity to the rate at time t onto the nodes of
// a yield curve. The result is aligned with the curve's node times.
type NodeDistributor interface {
	Distribute(yc *curve.YieldCurve, t, sensitivity float64) ([]float64, error)
}

// InterpolatorDistributor weights the sensitivity by the derivative of the
// interpolated rate at t with respect to each node rate.
type InterpolatorDistributor struct{}

func (InterpolatorDistributor) Distribute(yc *curve.YieldCurve, t, sensitivity float64) ([]float64, error) {
	ic, ok := yc.Rates().(*curve.Interpolated)
	if !ok {
		return nil, errs.UnsupportedType("node distribution: rate curve %T is not nodal", yc.Rates())
	}
	weights, err := ic.NodeSensitivities(t)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w * sensitivity
	}
	return out, nil
}
