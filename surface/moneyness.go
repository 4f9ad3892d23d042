package surface

import (
	"math"

	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/interpolate"
	"github.com/meenmo/mogreeks/utils"
)

// Smile is one expiry slice of a Moneyness surface: the sampled strikes and
// volatilities plus the smile function fitted over moneyness K/F(expiry).
type Smile struct {
	expiry  float64
	forward float64
	strikes []float64
	vols    []float64
	fit     *interpolate.Func
}

func newSmile(expiry, forward float64, strikes, vols []float64, method interpolate.Method) (*Smile, error) {
	if len(strikes) != len(vols) {
		return nil, errs.InvalidArgument("smile at %g: %d strikes for %d vols", expiry, len(strikes), len(vols))
	}
	if forward <= 0 {
		return nil, errs.InvalidArgument("smile at %g: non-positive forward %g", expiry, forward)
	}
	x := make([]float64, len(strikes))
	for i, k := range strikes {
		x[i] = k / forward
	}
	fit, err := interpolate.Fit(method, x, vols)
	if err != nil {
		return nil, err
	}
	return &Smile{
		expiry:  expiry,
		forward: forward,
		strikes: append([]float64(nil), strikes...),
		vols:    append([]float64(nil), vols...),
		fit:     fit,
	}, nil
}

// Expiry returns the slice expiry in years.
func (s *Smile) Expiry() float64 { return s.expiry }

// Strikes returns a copy of the sampled strikes.
func (s *Smile) Strikes() []float64 { return append([]float64(nil), s.strikes...) }

// Vols returns a copy of the sampled volatilities.
func (s *Smile) Vols() []float64 { return append([]float64(nil), s.vols...) }

// VolAtMoneyness evaluates the fitted smile at moneyness x = K/F.
func (s *Smile) VolAtMoneyness(x float64) float64 { return s.fit.At(x) }

// Moneyness is a surface assembled from independently fitted per-expiry
// smiles. Between expiries it interpolates total variance linearly; outside
// the expiry range it holds the nearest smile flat.
type Moneyness struct {
	forward *curve.ForwardCurve
	method  interpolate.Method
	smiles  []*Smile
	times   []float64
}

// NewMoneyness fits one smile per expiry. strikes[i] and vols[i] hold the
// samples of expiry i; expiries must be strictly increasing.
func NewMoneyness(forward *curve.ForwardCurve, expiries []float64, strikes, vols [][]float64, method interpolate.Method) (*Moneyness, error) {
	if forward == nil {
		return nil, errs.InvalidArgument("moneyness surface: nil forward curve")
	}
	if len(expiries) == 0 {
		return nil, errs.InvalidArgument("moneyness surface: no expiries")
	}
	if len(expiries) != len(strikes) || len(strikes) != len(vols) {
		return nil, errs.InvalidArgument("moneyness surface: %d expiries, %d strike rows, %d vol rows",
			len(expiries), len(strikes), len(vols))
	}
	if !utils.StrictlyIncreasing(expiries) {
		return nil, errs.InvalidArgument("moneyness surface: expiries not strictly increasing")
	}
	smiles := make([]*Smile, len(expiries))
	for i, t := range expiries {
		s, err := newSmile(t, forward.Forward(t), strikes[i], vols[i], method)
		if err != nil {
			return nil, err
		}
		smiles[i] = s
	}
	return &Moneyness{
		forward: forward,
		method:  method,
		smiles:  smiles,
		times:   append([]float64(nil), expiries...),
	}, nil
}

// Vol evaluates the surface at (t, k).
func (m *Moneyness) Vol(t, k float64) float64 {
	x := k / m.forward.Forward(t)
	n := len(m.smiles)
	if t <= m.times[0] || n == 1 {
		return m.smiles[0].VolAtMoneyness(x)
	}
	if t >= m.times[n-1] {
		return m.smiles[n-1].VolAtMoneyness(x)
	}
	i := utils.LowerBound(m.times, t)
	t1, t2 := m.times[i], m.times[i+1]
	v1 := m.smiles[i].VolAtMoneyness(x)
	v2 := m.smiles[i+1].VolAtMoneyness(x)
	w1, w2 := v1*v1*t1, v2*v2*t2
	w := w1 + (w2-w1)*(t-t1)/(t2-t1)
	return math.Sqrt(math.Max(w, 0) / t)
}

// Forward returns the forward curve used to convert strikes to moneyness.
func (m *Moneyness) Forward() *curve.ForwardCurve { return m.forward }

// Expiries returns a copy of the slice expiries.
func (m *Moneyness) Expiries() []float64 { return append([]float64(nil), m.times...) }

// Smile returns slice i.
func (m *Moneyness) Smile(i int) *Smile { return m.smiles[i] }

// NumSmiles returns the number of expiry slices.
func (m *Moneyness) NumSmiles() int { return len(m.smiles) }

// WithSliceNodeShift moves the volatility sample j of slice i by delta and
// refits that slice only; every other smile fit is shared with the receiver.
func (m *Moneyness) WithSliceNodeShift(i, j int, delta float64) (*Moneyness, error) {
	if i < 0 || i >= len(m.smiles) {
		return nil, errs.InvalidArgument("moneyness surface: slice %d out of range", i)
	}
	s := m.smiles[i]
	if j < 0 || j >= len(s.vols) {
		return nil, errs.InvalidArgument("moneyness surface: strike %d out of range in slice %d", j, i)
	}
	if delta == 0 {
		return m, nil
	}
	vols := s.Vols()
	vols[j] += delta
	refit, err := newSmile(s.expiry, s.forward, s.strikes, vols, m.method)
	if err != nil {
		return nil, err
	}
	smiles := make([]*Smile, len(m.smiles))
	copy(smiles, m.smiles)
	smiles[i] = refit
	return &Moneyness{forward: m.forward, method: m.method, smiles: smiles, times: m.times}, nil
}
