package finance

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNormalizeInsightsFilterDefaultsToCurrentMonth(t *testing.T) {
	filter, err := normalizeInsightsFilter(InsightsFilter{})
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}

	now := time.Now().UTC()
	wantStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	wantEnd := wantStart.AddDate(0, 1, 0).Add(-time.Second)

	if !filter.StartDate.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, filter.StartDate)
	}
	if !filter.EndDate.Equal(wantEnd) {
		t.Errorf("Expected end %v, got %v", wantEnd, filter.EndDate)
	}
}

func TestNormalizeInsightsFilterRejectsHalfOpenRange(t *testing.T) {
	_, err := normalizeInsightsFilter(InsightsFilter{
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil || !strings.Contains(err.Error(), "Provide both start_date and end_date") {
		t.Errorf("Expected half-open range rejection, got: %v", err)
	}

	_, err = normalizeInsightsFilter(InsightsFilter{
		EndDate: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Error("Expected rejection when only end_date is set")
	}
}

func TestNormalizeInsightsFilterRejectsInvertedRange(t *testing.T) {
	_, err := normalizeInsightsFilter(InsightsFilter{
		StartDate: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil || !strings.Contains(err.Error(), "end_date cannot be before start_date") {
		t.Errorf("Expected inverted range rejection, got: %v", err)
	}
}

func TestNormalizeInsightsFilterValidatesType(t *testing.T) {
	_, err := normalizeInsightsFilter(InsightsFilter{Type: "SPENDING"})
	if err == nil || !strings.Contains(err.Error(), "Invalid record type") {
		t.Errorf("Expected invalid type rejection, got: %v", err)
	}

	if _, err := normalizeInsightsFilter(InsightsFilter{Type: RecordTypeExpense}); err != nil {
		t.Errorf("Expected valid type to pass, got: %v", err)
	}
}

func TestGetTotalSpendEchoesResolvedRange(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	total, err := tracker.GetTotalSpend(ctx, johnID, InsightsFilter{StartDate: start, EndDate: end})
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if total.TotalSpend != 142.50 {
		t.Errorf("Expected total 142.50, got %v", total.TotalSpend)
	}
	if !total.StartDate.Equal(start) || !total.EndDate.Equal(end) {
		t.Errorf("Expected the requested range to be echoed, got %v - %v", total.StartDate, total.EndDate)
	}
}

func TestGetSpendByCategoryComputesPercentages(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	rows, err := tracker.GetSpendByCategory(ctx, johnID, InsightsFilter{})
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	// 75 and 25 out of a 100 total.
	if rows[0].Percentage != 75 {
		t.Errorf("Expected 75%%, got %v", rows[0].Percentage)
	}
	if rows[1].Percentage != 25 {
		t.Errorf("Expected 25%%, got %v", rows[1].Percentage)
	}
}

func TestGetSpendTrendGranularity(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.GetSpendTrend(ctx, johnID, InsightsFilter{}, "weekly"); err == nil {
		t.Error("Expected unknown granularity to be rejected")
	}

	// Empty granularity falls back to daily.
	points, err := tracker.GetSpendTrend(ctx, johnID, InsightsFilter{}, "")
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if len(points) != 1 {
		t.Errorf("Expected 1 point, got %d", len(points))
	}

	if _, err := tracker.GetSpendTrend(ctx, johnID, InsightsFilter{}, GranularityMonthly); err != nil {
		t.Errorf("Expected monthly granularity to pass, got: %v", err)
	}
}

func TestGetTopExpensesClampsLimit(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	// Zero, negative and oversized limits are all normalized, the call
	// must not fail on any of them.
	for _, limit := range []int{0, -5, 1000} {
		if _, err := tracker.GetTopExpenses(ctx, johnID, InsightsFilter{}, limit, -1); err != nil {
			t.Errorf("Expected limit %d to be normalized, got: %v", limit, err)
		}
	}
}
