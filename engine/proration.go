/*
proration.go - Tenure-adjusted yearly allotments

PURPOSE:
  Derives an employee's effective caps for a calendar year. An employee who
  joined partway through the year gets the yearly caps scaled by the whole
  months remaining from the join month (inclusive) through December. Monthly
  caps pass through unprorated: a new joiner still gets the full monthly cap
  from their first active month.

ROUNDING:
  Proration is whole-month granular and exact: cap * monthsRemaining / 12 as
  a decimal, no rounding applied. A June 10th join and a June 25th join both
  yield 7/12 of the yearly caps.

EXAMPLE:
  Join 2024-07-01, yearly PTO cap 24  =>  6 months remaining, 24 * 6/12 = 12.
*/
package engine

import "github.com/shopspring/decimal"

var twelve = decimal.NewFromInt(12)

// =============================================================================
// ALLOTMENT - Effective caps for one employee-year
// =============================================================================

// Allotment is the Proration Calculator's output: the caps that actually
// apply to one employee in one calendar year.
type Allotment struct {
	Year         int
	MonthsActive int

	LeaveYearly  decimal.Decimal
	WFHYearly    decimal.Decimal
	LeaveMonthly decimal.Decimal
	WFHMonthly   decimal.Decimal

	OptionalHolidayYearly decimal.Decimal
}

// Prorate computes the effective allotment for the target year.
//
//   - Join date before the year: full caps, 12 months active.
//   - Join date inside the year: yearly caps scaled by months remaining from
//     the join month (inclusive) to year-end; monthly caps untouched.
//   - Join date after the year: zero caps, employee not yet active.
func Prorate(joinDate Date, year int, policy PolicySnapshot) Allotment {
	yearSpan := YearPeriod(year)

	if joinDate.After(yearSpan.End) {
		return Allotment{Year: year}
	}

	months := 12
	if !joinDate.Before(yearSpan.Start) {
		months = 12 - int(joinDate.Month()) + 1
	}

	a := Allotment{
		Year:                  year,
		MonthsActive:          months,
		LeaveYearly:           policy.LeaveYearly,
		WFHYearly:             policy.WFHYearly,
		LeaveMonthly:          policy.LeaveMonthly,
		WFHMonthly:            policy.WFHMonthly,
		OptionalHolidayYearly: policy.OptionalHolidayYearly,
	}
	if months < 12 {
		// Multiply before dividing so whole-day caps stay exact
		// (24 * 7 / 12 = 14, not 24 * 0.58333...).
		m := decimal.NewFromInt(int64(months))
		a.LeaveYearly = policy.LeaveYearly.Mul(m).Div(twelve)
		a.WFHYearly = policy.WFHYearly.Mul(m).Div(twelve)
	}
	return a
}
