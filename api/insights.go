package api

import (
	"context"

	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/0xcafe-io/iz"
)

func (api *Api) GetTotalSpendHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	filter, err := parseInsightsFilter(r.URL.Query())
	if err != nil {
		return respondError(r, err)
	}

	total, err := api.Service.GetTotalSpend(ctx, caller.ID, filter)
	if err != nil {
		return respondError(r, err)
	}

	return iz.Respond().Status(200).JSON(TotalSpendItem{
		TotalSpend: total.TotalSpend,
		Type:       total.Type,
		StartDate:  formatTime(total.StartDate),
		EndDate:    formatTime(total.EndDate),
	})
}

func (api *Api) GetSpendByCategoryHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	filter, err := parseInsightsFilter(r.URL.Query())
	if err != nil {
		return respondError(r, err)
	}

	rows, err := api.Service.GetSpendByCategory(ctx, caller.ID, filter)
	if err != nil {
		return respondError(r, err)
	}

	result := make([]CategorySpendItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, CategorySpendItem{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Amount:       row.Amount,
			Percentage:   row.Percentage,
		})
	}
	return iz.Respond().Status(200).JSON(result)
}

func (api *Api) GetSpendTrendHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	params := r.URL.Query()

	filter, err := parseInsightsFilter(params)
	if err != nil {
		return respondError(r, err)
	}

	points, err := api.Service.GetSpendTrend(ctx, caller.ID, filter, params.Get("granularity"))
	if err != nil {
		return respondError(r, err)
	}

	result := make([]TrendPointItem, 0, len(points))
	for _, point := range points {
		result = append(result, TrendPointItem{
			Period: point.Period,
			Amount: point.Amount,
		})
	}
	return iz.Respond().Status(200).JSON(result)
}

func (api *Api) GetTopExpensesHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	params := r.URL.Query()

	filter, err := parseInsightsFilter(params)
	if err != nil {
		return respondError(r, err)
	}
	limit, err := parseIntParam(params, "limit")
	if err != nil {
		return respondError(r, err)
	}
	offset, err := parseIntParam(params, "offset")
	if err != nil {
		return respondError(r, err)
	}

	expenses, err := api.Service.GetTopExpenses(ctx, caller.ID, filter, limit, offset)
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(ExpensesToHttp(expenses))
}
