// Package timeseries holds dated observations such as fixings and margin prices.
package timeseries

import (
	"sort"
	"time"

	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/utils"
)

// Series is an immutable, date-ordered sequence of observations.
type Series struct {
	dates  []time.Time
	values []float64
}

// New sorts the observations by date. Lengths must match and dates must be distinct.
func New(dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, errs.InvalidArgument("time series: %d dates for %d values", len(dates), len(values))
	}
	idx := make([]int, len(dates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return dates[idx[a]].Before(dates[idx[b]]) })
	s := &Series{dates: make([]time.Time, len(dates)), values: make([]float64, len(values))}
	for n, i := range idx {
		s.dates[n] = dates[i]
		s.values[n] = values[i]
		if n > 0 && utils.SameDay(s.dates[n-1], s.dates[n]) {
			return nil, errs.InvalidArgument("time series: duplicate date %s", dates[i].Format("2006-01-02"))
		}
	}
	return s, nil
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.dates) }

// Last returns the latest observation.
func (s *Series) Last() (time.Time, float64, bool) {
	if len(s.dates) == 0 {
		return time.Time{}, 0, false
	}
	n := len(s.dates) - 1
	return s.dates[n], s.values[n], true
}

// ValueAtOrBefore returns the latest observation dated on or before date.
func (s *Series) ValueAtOrBefore(date time.Time) (float64, bool) {
	idx := sort.Search(len(s.dates), func(i int) bool {
		return s.dates[i].After(date) && !utils.SameDay(s.dates[i], date)
	})
	if idx == 0 {
		return 0, false
	}
	return s.values[idx-1], true
}

// ExtendTo returns a series carrying the last observation forward to every
// calendar day up to and including date. If date is not after the last
// observation, or the series is empty, s is returned unchanged.
func (s *Series) ExtendTo(date time.Time) *Series {
	last, value, ok := s.Last()
	if !ok || !date.After(last) || utils.SameDay(date, last) {
		return s
	}
	next := &Series{
		dates:  append([]time.Time(nil), s.dates...),
		values: append([]float64(nil), s.values...),
	}
	for d := last.AddDate(0, 0, 1); !d.After(date) || utils.SameDay(d, date); d = d.AddDate(0, 0, 1) {
		next.dates = append(next.dates, d)
		next.values = append(next.values, value)
	}
	return next
}
