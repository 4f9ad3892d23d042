// Package surface holds Black volatility surfaces indexed by (expiry, strike).
package surface

// Surface returns the Black volatility for expiry t (years) and strike k.
type Surface interface {
	Vol(t, k float64) float64
}

// Constant is a flat volatility surface.
type Constant float64

func (c Constant) Vol(float64, float64) float64 { return float64(c) }

// ParallelShifted adds a constant to every volatility of its base surface.
type ParallelShifted struct {
	base  Surface
	shift float64
}

// ShiftParallel returns vol'(t,k) = vol(t,k) + shift. Nested shifts collapse
// and a zero shift returns s itself.
func ShiftParallel(s Surface, shift float64) Surface {
	if p, ok := s.(*ParallelShifted); ok {
		s, shift = p.base, p.shift+shift
	}
	if shift == 0 {
		return s
	}
	return &ParallelShifted{base: s, shift: shift}
}

func (p *ParallelShifted) Vol(t, k float64) float64 { return p.base.Vol(t, k) + p.shift }

// Base returns the unshifted surface.
func (p *ParallelShifted) Base() Surface { return p.base }

// TimeShifted evaluates its base surface dt years further along the expiry axis.
type TimeShifted struct {
	base Surface
	dt   float64
}

// TimeShift returns vol'(t,k) = vol(t+dt,k). Shifts that cancel return the base.
func TimeShift(s Surface, dt float64) Surface {
	if p, ok := s.(*TimeShifted); ok {
		s, dt = p.base, p.dt+dt
	}
	if dt == 0 {
		return s
	}
	return &TimeShifted{base: s, dt: dt}
}

func (p *TimeShifted) Vol(t, k float64) float64 { return p.base.Vol(t+p.dt, k) }

// Base returns the unshifted surface.
func (p *TimeShifted) Base() Surface { return p.base }
