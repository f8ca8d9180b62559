package finance

import (
	"context"
	"fmt"
	"time"

	appErrors "github.com/aydinemil/finance-tracker/errors"
)

const (
	DEFAULT_TOP_EXPENSES_LIMIT = 10
	MAX_TOP_EXPENSES_LIMIT     = 100
)

// normalizeInsightsFilter fills the missing date range with the current
// calendar month and validates the optional type filter.
func normalizeInsightsFilter(filter InsightsFilter) (InsightsFilter, error) {
	if filter.Type != "" {
		if err := validateRecordType(filter.Type); err != nil {
			return InsightsFilter{}, err
		}
	}

	now := time.Now().UTC()
	if filter.StartDate.IsZero() && filter.EndDate.IsZero() {
		filter.StartDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		filter.EndDate = filter.StartDate.AddDate(0, 1, 0).Add(-time.Second)
	}
	if filter.StartDate.IsZero() || filter.EndDate.IsZero() {
		return InsightsFilter{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Provide both start_date and end_date, or neither.",
		}
	}
	if filter.EndDate.Before(filter.StartDate) {
		return InsightsFilter{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "end_date cannot be before start_date.",
		}
	}
	return filter, nil
}

func (t *Tracker) GetTotalSpend(ctx context.Context, callerID string, filter InsightsFilter) (TotalSpendResponse, error) {
	filter, err := normalizeInsightsFilter(filter)
	if err != nil {
		return TotalSpendResponse{}, err
	}

	total, err := t.storage.GetTotalSpend(ctx, callerID, filter)
	if err != nil {
		return TotalSpendResponse{}, fmt.Errorf("failed to get total spend: %w", err)
	}

	return TotalSpendResponse{
		TotalSpend: total,
		Type:       filter.Type,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
	}, nil
}

func (t *Tracker) GetSpendByCategory(ctx context.Context, callerID string, filter InsightsFilter) ([]CategorySpend, error) {
	filter, err := normalizeInsightsFilter(filter)
	if err != nil {
		return nil, err
	}

	rows, err := t.storage.GetSpendByCategory(ctx, callerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get spend by category: %w", err)
	}

	var total float64
	for _, row := range rows {
		total += row.Amount
	}

	for i := range rows {
		if total > 0 {
			rows[i].Percentage = (rows[i].Amount / total) * 100
		}
	}
	return rows, nil
}

func (t *Tracker) GetSpendTrend(ctx context.Context, callerID string, filter InsightsFilter, granularity string) ([]TrendPoint, error) {
	if granularity == "" {
		granularity = GranularityDaily
	}
	if granularity != GranularityDaily && granularity != GranularityMonthly {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid granularity: '%s', allowed values are: %s and %s", granularity, GranularityDaily, GranularityMonthly),
		}
	}

	filter, err := normalizeInsightsFilter(filter)
	if err != nil {
		return nil, err
	}

	points, err := t.storage.GetSpendTrend(ctx, callerID, filter, granularity)
	if err != nil {
		return nil, fmt.Errorf("failed to get spend trend: %w", err)
	}
	return points, nil
}

func (t *Tracker) GetTopExpenses(ctx context.Context, callerID string, filter InsightsFilter, limit int, offset int) ([]Expense, error) {
	if limit <= 0 {
		limit = DEFAULT_TOP_EXPENSES_LIMIT
	}
	if limit > MAX_TOP_EXPENSES_LIMIT {
		limit = MAX_TOP_EXPENSES_LIMIT
	}
	if offset < 0 {
		offset = 0
	}

	filter, err := normalizeInsightsFilter(filter)
	if err != nil {
		return nil, err
	}

	expenses, err := t.storage.GetTopExpenses(ctx, callerID, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get top expenses: %w", err)
	}
	return expenses, nil
}
