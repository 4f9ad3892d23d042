package calendar

import (
	"time"

	"github.com/meenmo/mogreeks/errs"
)

// Calendar answers whether a date is a trading day.
type Calendar interface {
	IsBusinessDay(t time.Time) bool
}

// HolidayCalendar treats weekends and a fixed set of holidays as non-trading days.
type HolidayCalendar struct {
	name     string
	holidays map[string]struct{}
}

// Weekends is a calendar with no holidays.
var Weekends = New("WEEKENDS")

// New returns a calendar with the given holidays.
func New(name string, holidays ...time.Time) *HolidayCalendar {
	c := &HolidayCalendar{name: name, holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[h.Format("2006-01-02")] = struct{}{}
	}
	return c
}

// Name returns the calendar name.
func (c *HolidayCalendar) Name() string { return c.name }

func (c *HolidayCalendar) isHoliday(t time.Time) bool {
	_, ok := c.holidays[t.Format("2006-01-02")]
	return ok
}

// IsBusinessDay checks weekends and the holiday set.
func (c *HolidayCalendar) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !c.isHoliday(t)
}

// MaxRollDays bounds the search for a business day.
const MaxRollDays = 366

// NextBusinessDay returns t if it is a business day, else the first business
// day after it. A calendar with no business day within MaxRollDays fails.
func NextBusinessDay(cal Calendar, t time.Time) (time.Time, error) {
	return roll(cal, t, 1)
}

// Adjust applies Modified Following.
func Adjust(cal Calendar, t time.Time) (time.Time, error) {
	adjusted, err := NextBusinessDay(cal, t)
	if err != nil {
		return time.Time{}, err
	}
	if adjusted.Month() == t.Month() {
		return adjusted, nil
	}
	return roll(cal, adjusted.AddDate(0, 0, -1), -1)
}

func roll(cal Calendar, t time.Time, dir int) (time.Time, error) {
	for range MaxRollDays {
		if cal.IsBusinessDay(t) {
			return t, nil
		}
		t = t.AddDate(0, 0, dir)
	}
	return time.Time{}, errs.InvalidArgument("calendar: no business day within %d days", MaxRollDays)
}
