// Package interpolate wraps gonum's one-dimensional interpolators with the
// node bookkeeping and extrapolation rules used by curves and smiles.
package interpolate

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/utils"
)

// Method selects the interpolation scheme between nodes.
type Method string

const (
	Linear         Method = "linear"
	Akima          Method = "akima"
	FritschButland Method = "fritsch-butland"
	NaturalCubic   Method = "natural-cubic"
	StepLeft       Method = "step"
)

// sensitivityBump is the node bump used to derive dAt/dy for non-linear schemes.
const sensitivityBump = 1e-6

// Func is a fitted one-dimensional interpolator. Values outside the node range
// are extrapolated flat. A Func is immutable once returned by Fit.
type Func struct {
	method Method
	xs     []float64
	ys     []float64
	pred   interp.Predictor
}

// Fit builds an interpolator over the nodes (xs, ys). xs must be strictly
// increasing and both slices must have the same non-zero length.
func Fit(method Method, xs, ys []float64) (*Func, error) {
	if len(xs) != len(ys) {
		return nil, errs.InvalidArgument("interpolate: %d abscissae for %d values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, errs.InvalidArgument("interpolate: no nodes")
	}
	if !utils.StrictlyIncreasing(xs) {
		return nil, errs.InvalidArgument("interpolate: abscissae not strictly increasing")
	}
	f := &Func{
		method: method,
		xs:     append([]float64(nil), xs...),
		ys:     append([]float64(nil), ys...),
	}
	if len(xs) == 1 {
		return f, nil
	}
	fp, err := newPredictor(method, len(xs))
	if err != nil {
		return nil, err
	}
	if err := fp.Fit(f.xs, f.ys); err != nil {
		return nil, fmt.Errorf("interpolate: fit %s: %w", method, err)
	}
	f.pred = fp
	return f, nil
}

func newPredictor(method Method, n int) (interp.FittablePredictor, error) {
	// Splines need at least three nodes to be meaningful.
	if n < 3 && method != StepLeft {
		return &interp.PiecewiseLinear{}, nil
	}
	switch method {
	case Linear, "":
		return &interp.PiecewiseLinear{}, nil
	case Akima:
		return &interp.AkimaSpline{}, nil
	case FritschButland:
		return &interp.FritschButland{}, nil
	case NaturalCubic:
		return &interp.NaturalCubic{}, nil
	case StepLeft:
		return &interp.PiecewiseConstant{}, nil
	default:
		return nil, errs.UnsupportedType("interpolate: method %q", method)
	}
}

// At evaluates the interpolator at x.
func (f *Func) At(x float64) float64 {
	n := len(f.xs)
	if n == 1 || x <= f.xs[0] {
		return f.ys[0]
	}
	if x >= f.xs[n-1] {
		return f.ys[n-1]
	}
	return f.pred.Predict(x)
}

// Method returns the interpolation scheme.
func (f *Func) Method() Method {
	return f.method
}

// Len returns the number of nodes.
func (f *Func) Len() int {
	return len(f.xs)
}

// Nodes returns copies of the node abscissae and values.
func (f *Func) Nodes() (xs, ys []float64) {
	return append([]float64(nil), f.xs...), append([]float64(nil), f.ys...)
}

// WithValue returns a new interpolator with node i set to y, refitted with the
// same method. The receiver is unchanged.
func (f *Func) WithValue(i int, y float64) (*Func, error) {
	if i < 0 || i >= len(f.ys) {
		return nil, errs.InvalidArgument("interpolate: node %d out of range [0,%d)", i, len(f.ys))
	}
	ys := append([]float64(nil), f.ys...)
	ys[i] = y
	return Fit(f.method, f.xs, ys)
}

// Sensitivities returns dAt(x)/dys[i] for every node.
func (f *Func) Sensitivities(x float64) ([]float64, error) {
	out := make([]float64, len(f.ys))
	base := f.At(x)
	for i := range f.ys {
		bumped, err := f.WithValue(i, f.ys[i]+sensitivityBump)
		if err != nil {
			return nil, err
		}
		out[i] = (bumped.At(x) - base) / sensitivityBump
	}
	return out, nil
}
