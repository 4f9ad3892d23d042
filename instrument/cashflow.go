package instrument

import (
	"time"

	"github.com/meenmo/mogreeks/calendar"
	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/pricing/discounting"
	"github.com/meenmo/mogreeks/utils"
)

// Payment is a known amount due on Date.
type Payment struct {
	Date   time.Time
	Amount float64
}

// CashFlowDefinition is a stream of known payments in one currency.
type CashFlowDefinition struct {
	Currency currency.Currency
	Payments []Payment
	DayCount string
}

func (c CashFlowDefinition) PaymentCurrency() currency.Currency { return c.Currency }

// ToDerivative keeps the payments due strictly after date.
func (c CashFlowDefinition) ToDerivative(date time.Time) discounting.CashFlows {
	dc := dayCount(c.DayCount)
	cf := discounting.CashFlows{Currency: c.Currency}
	for _, p := range c.Payments {
		if p.Date.After(date) && !utils.SameDay(p.Date, date) {
			cf.Times = append(cf.Times, utils.YearFraction(date, p.Date, dc))
			cf.Amounts = append(cf.Amounts, p.Amount)
		}
	}
	return cf
}

// PaymentsBetween returns the payments that drop out of the stream when
// moving between a and b: those dated after the earlier date and on or
// before the later one.
func (c CashFlowDefinition) PaymentsBetween(a, b time.Time) []Payment {
	from, to := a, b
	if to.Before(from) {
		from, to = to, from
	}
	var out []Payment
	for _, p := range c.Payments {
		after := p.Date.After(from) && !utils.SameDay(p.Date, from)
		notAfter := !p.Date.After(to) || utils.SameDay(p.Date, to)
		if after && notAfter {
			out = append(out, p)
		}
	}
	return out
}

// FixedLegParams describes a fixed-rate coupon leg.
type FixedLegParams struct {
	Currency        currency.Currency
	Notional        float64
	Rate            float64
	EffectiveDate   time.Time
	MaturityDate    time.Time
	FrequencyMonths int
	Calendar        calendar.Calendar
	DayCount        string
	FinalPrincipal  bool
}

// FixedLeg builds the coupons of a fixed leg. Dates roll backward from
// maturity so coupons stay aligned to it; payment dates are Modified
// Following on the leg calendar.
func FixedLeg(p FixedLegParams) (CashFlowDefinition, error) {
	if p.FrequencyMonths <= 0 {
		return CashFlowDefinition{}, errs.InvalidArgument("fixed leg: frequency %d months", p.FrequencyMonths)
	}
	if !p.MaturityDate.After(p.EffectiveDate) {
		return CashFlowDefinition{}, errs.InvalidArgument("fixed leg: maturity not after effective date")
	}
	if p.Calendar == nil {
		return CashFlowDefinition{}, errs.InvalidArgument("fixed leg: nil calendar")
	}
	dc := dayCount(p.DayCount)

	var unadjusted []time.Time
	for current, n := p.MaturityDate, 0; current.After(p.EffectiveDate); n++ {
		unadjusted = append([]time.Time{current}, unadjusted...)
		current = utils.AddMonth(p.MaturityDate, -p.FrequencyMonths*(n+1))
	}
	unadjusted = append([]time.Time{p.EffectiveDate}, unadjusted...)

	leg := CashFlowDefinition{Currency: p.Currency, DayCount: dc}
	for i := 0; i < len(unadjusted)-1; i++ {
		start, err := calendar.Adjust(p.Calendar, unadjusted[i])
		if err != nil {
			return CashFlowDefinition{}, err
		}
		end, err := calendar.Adjust(p.Calendar, unadjusted[i+1])
		if err != nil {
			return CashFlowDefinition{}, err
		}
		alpha := utils.YearFraction(start, end, dc)
		leg.Payments = append(leg.Payments, Payment{Date: end, Amount: p.Notional * p.Rate * alpha})
	}
	if p.FinalPrincipal {
		last := &leg.Payments[len(leg.Payments)-1]
		last.Amount += p.Notional
	}
	return leg, nil
}

// BondTRSDefinition is a total return swap receiving a bond's flows (the
// asset leg, discounted on the issuer curve) against a funding leg.
type BondTRSDefinition struct {
	Asset   CashFlowDefinition
	Issuer  string
	Funding CashFlowDefinition
}
