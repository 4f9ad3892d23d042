package surface

import (
	"math"
	"sort"

	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/interpolate"
	"github.com/meenmo/mogreeks/utils"
)

// NodeTolerance is the distance within which a requested (expiry, strike)
// is taken to coincide with an existing node.
const NodeTolerance = 1e-10

// Grid is a nodal volatility surface given as parallel arrays of expiries,
// strikes and volatilities. Nodes sharing an expiry form a smile slice that
// is interpolated in strike; the slice values are then interpolated in expiry.
type Grid struct {
	expiries []float64
	strikes  []float64
	vols     []float64

	strikeMethod interpolate.Method
	expiryMethod interpolate.Method

	sliceTimes []float64
	slices     []*interpolate.Func
}

// NewGrid builds a grid surface. The three arrays must have the same non-zero
// length and no (expiry, strike) pair may repeat.
func NewGrid(expiries, strikes, vols []float64, strikeMethod, expiryMethod interpolate.Method) (*Grid, error) {
	if len(expiries) != len(strikes) || len(strikes) != len(vols) {
		return nil, errs.InvalidArgument("grid surface: array lengths %d/%d/%d differ",
			len(expiries), len(strikes), len(vols))
	}
	if len(expiries) == 0 {
		return nil, errs.InvalidArgument("grid surface: no nodes")
	}
	g := &Grid{
		expiries:     append([]float64(nil), expiries...),
		strikes:      append([]float64(nil), strikes...),
		vols:         append([]float64(nil), vols...),
		strikeMethod: strikeMethod,
		expiryMethod: expiryMethod,
	}
	if err := g.fit(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) fit() error {
	bySlice := make(map[float64][]int)
	for i, t := range g.expiries {
		bySlice[t] = append(bySlice[t], i)
	}
	times := make([]float64, 0, len(bySlice))
	for t := range bySlice {
		times = append(times, t)
	}
	sort.Float64s(times)

	slices := make([]*interpolate.Func, len(times))
	for n, t := range times {
		idx := bySlice[t]
		sort.Slice(idx, func(a, b int) bool { return g.strikes[idx[a]] < g.strikes[idx[b]] })
		ks := make([]float64, len(idx))
		vs := make([]float64, len(idx))
		for j, i := range idx {
			ks[j] = g.strikes[i]
			vs[j] = g.vols[i]
		}
		fn, err := interpolate.Fit(g.strikeMethod, ks, vs)
		if err != nil {
			return err
		}
		slices[n] = fn
	}
	g.sliceTimes = times
	g.slices = slices
	return nil
}

// Vol interpolates the surface at (t, k).
func (g *Grid) Vol(t, k float64) float64 {
	if len(g.slices) == 1 {
		return g.slices[0].At(k)
	}
	values := make([]float64, len(g.slices))
	for i, s := range g.slices {
		values[i] = s.At(k)
	}
	fn, err := interpolate.Fit(g.expiryMethod, g.sliceTimes, values)
	if err != nil {
		// slice times are strictly increasing by construction
		return math.NaN()
	}
	return fn.At(t)
}

// Len returns the number of nodes.
func (g *Grid) Len() int { return len(g.vols) }

// Nodes returns copies of the parallel node arrays, in construction order.
func (g *Grid) Nodes() (expiries, strikes, vols []float64) {
	return append([]float64(nil), g.expiries...),
		append([]float64(nil), g.strikes...),
		append([]float64(nil), g.vols...)
}

// Methods returns the strike and expiry interpolation schemes.
func (g *Grid) Methods() (strike, expiry interpolate.Method) {
	return g.strikeMethod, g.expiryMethod
}

// NodeIndex returns the index of the node at (t, k), or -1.
func (g *Grid) NodeIndex(t, k float64) int {
	for i := range g.expiries {
		if math.Abs(g.expiries[i]-t) <= NodeTolerance && math.Abs(g.strikes[i]-k) <= NodeTolerance {
			return i
		}
	}
	return -1
}

// WithNodeShift returns a surface with the volatility at (t, k) moved by delta.
// If (t, k) is an existing node only that node changes. Otherwise a node is
// added at the interpolated base volatility plus delta; when t has no smile
// slice, the new slice is first filled with base volatilities at the strikes of
// the neighbouring slices so that only the shifted point moves. The
// interpolation schemes are kept and the receiver is unchanged. A zero delta
// returns g.
func (g *Grid) WithNodeShift(t, k, delta float64) (*Grid, error) {
	if delta == 0 {
		return g, nil
	}
	expiries, strikes, vols := g.Nodes()
	if i := g.NodeIndex(t, k); i >= 0 {
		vols[i] += delta
		return NewGrid(expiries, strikes, vols, g.strikeMethod, g.expiryMethod)
	}
	if at := g.sliceIndex(t); at >= 0 {
		// join the existing slice exactly so it is not split in two
		t = g.sliceTimes[at]
	} else {
		for _, ks := range g.neighbourStrikes(t) {
			if math.Abs(ks-k) <= NodeTolerance {
				continue
			}
			expiries = append(expiries, t)
			strikes = append(strikes, ks)
			vols = append(vols, g.Vol(t, ks))
		}
	}
	expiries = append(expiries, t)
	strikes = append(strikes, k)
	vols = append(vols, g.Vol(t, k)+delta)
	return NewGrid(expiries, strikes, vols, g.strikeMethod, g.expiryMethod)
}

// sliceIndex returns the index of the smile slice at expiry t, or -1.
func (g *Grid) sliceIndex(t float64) int {
	for i, st := range g.sliceTimes {
		if math.Abs(st-t) <= NodeTolerance {
			return i
		}
	}
	return -1
}

// neighbourStrikes returns the sorted union of the strikes of the slices
// bracketing t, or of the nearest slice when t is outside the slice range.
func (g *Grid) neighbourStrikes(t float64) []float64 {
	lo := utils.LowerBound(g.sliceTimes, t)
	hi := lo
	if t > g.sliceTimes[lo] && lo+1 < len(g.sliceTimes) {
		hi = lo + 1
	}
	seen := make(map[float64]struct{})
	var out []float64
	for _, i := range []int{lo, hi} {
		ks, _ := g.slices[i].Nodes()
		for _, k := range ks {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		}
	}
	sort.Float64s(out)
	return out
}
