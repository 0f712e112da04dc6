package engine_test

import (
	"testing"
	"time"

	"github.com/lumenhr/leave-engine/engine"
	"github.com/shopspring/decimal"
)

func standardPolicy() engine.PolicySnapshot {
	// 24 leave/year, 2 leave/month, 12 wfh/year, 4 wfh/month, 2 optional
	return engine.NewPolicySnapshot(24, 2, 12, 4, 2)
}

func wantDecimal(t *testing.T, got decimal.Decimal, want int64, label string) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", label, got, want)
	}
}

// =============================================================================
// PRORATION
// =============================================================================

func TestProrate_MidYearJoinHalvesYearlyCaps(t *testing.T) {
	// GIVEN: join 2024-07-01, yearly PTO cap 24
	// THEN: 6 months remaining => 24 * 6/12 = 12
	a := engine.Prorate(date(2024, time.July, 1), 2024, standardPolicy())

	if a.MonthsActive != 6 {
		t.Fatalf("MonthsActive = %d, want 6", a.MonthsActive)
	}
	wantDecimal(t, a.LeaveYearly, 12, "LeaveYearly")
	wantDecimal(t, a.WFHYearly, 6, "WFHYearly")
	// Monthly caps pass through unprorated
	wantDecimal(t, a.LeaveMonthly, 2, "LeaveMonthly")
	wantDecimal(t, a.WFHMonthly, 4, "WFHMonthly")
}

func TestProrate_JanuaryFirstIsFullYear(t *testing.T) {
	a := engine.Prorate(date(2024, time.January, 1), 2024, standardPolicy())

	if a.MonthsActive != 12 {
		t.Fatalf("MonthsActive = %d, want 12", a.MonthsActive)
	}
	wantDecimal(t, a.LeaveYearly, 24, "LeaveYearly")
	wantDecimal(t, a.WFHYearly, 12, "WFHYearly")
}

func TestProrate_DecemberJoinGetsOneMonth(t *testing.T) {
	a := engine.Prorate(date(2024, time.December, 15), 2024, standardPolicy())

	if a.MonthsActive != 1 {
		t.Fatalf("MonthsActive = %d, want 1", a.MonthsActive)
	}
	wantDecimal(t, a.LeaveYearly, 2, "LeaveYearly") // 24 * 1/12
	wantDecimal(t, a.WFHYearly, 1, "WFHYearly")     // 12 * 1/12
}

func TestProrate_JoinInPriorYearNoProration(t *testing.T) {
	a := engine.Prorate(date(2019, time.September, 3), 2024, standardPolicy())

	wantDecimal(t, a.LeaveYearly, 24, "LeaveYearly")
	wantDecimal(t, a.WFHYearly, 12, "WFHYearly")
}

func TestProrate_JoinAfterYearGetsNothing(t *testing.T) {
	a := engine.Prorate(date(2025, time.February, 1), 2024, standardPolicy())

	if a.MonthsActive != 0 {
		t.Fatalf("MonthsActive = %d, want 0", a.MonthsActive)
	}
	if !a.LeaveYearly.IsZero() || !a.WFHYearly.IsZero() {
		t.Errorf("caps should be zero before activity, got leave=%s wfh=%s", a.LeaveYearly, a.WFHYearly)
	}
}

func TestProrate_MidMonthJoinCountsWholeJoinMonth(t *testing.T) {
	// Whole-month granularity: June 10th and June 25th joins are equal
	early := engine.Prorate(date(2024, time.June, 10), 2024, standardPolicy())
	late := engine.Prorate(date(2024, time.June, 25), 2024, standardPolicy())

	if !early.LeaveYearly.Equal(late.LeaveYearly) {
		t.Errorf("same-month joins must prorate equally: %s vs %s", early.LeaveYearly, late.LeaveYearly)
	}
	wantDecimal(t, early.LeaveYearly, 14, "LeaveYearly") // 24 * 7/12
}

func TestProrate_MonotonicNonIncreasing(t *testing.T) {
	// Later join dates within the year never get a larger allowance
	policy := standardPolicy()
	prev := engine.Prorate(date(2024, time.January, 1), 2024, policy).LeaveYearly

	for m := time.February; m <= time.December; m++ {
		cur := engine.Prorate(date(2024, m, 1), 2024, policy).LeaveYearly
		if cur.GreaterThan(prev) {
			t.Fatalf("proration increased from %s to %s at month %s", prev, cur, m)
		}
		prev = cur
	}
}
