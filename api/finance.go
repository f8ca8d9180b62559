package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/finance"
	"github.com/0xcafe-io/iz"
)

// --- EXPENSE HANDLERS --- //

func (api *Api) SaveExpenseHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var expenseReq ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&expenseReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	date, err := parseDate(expenseReq.Date, "date")
	if err != nil {
		return respondError(r, err)
	}

	expense, err := api.Service.SaveExpense(ctx, caller.ID, finance.ExpenseRequest{
		Name:       expenseReq.Name,
		Amount:     expenseReq.Amount,
		Type:       expenseReq.Type,
		Date:       date,
		CategoryID: expenseReq.CategoryID,
		CurrencyID: expenseReq.CurrencyID,
		Note:       expenseReq.Note,
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(201).JSON(ExpenseToHttp(expense))
}

func (api *Api) GetFilteredExpensesHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	filters, err := parseExpenseFilters(r.URL.Query())
	if err != nil {
		return respondError(r, err)
	}

	expenses, err := api.Service.GetFilteredExpenses(ctx, caller.ID, filters)
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(ExpensesToHttp(expenses))
}

func (api *Api) GetExpenseByIdHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	expense, err := api.Service.GetExpenseById(ctx, caller.ID, r.PathValue("id"))
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(ExpenseToHttp(expense))
}

func (api *Api) UpdateExpenseHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var expenseReq ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&expenseReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	date, err := parseDate(expenseReq.Date, "date")
	if err != nil {
		return respondError(r, err)
	}

	expense, err := api.Service.UpdateExpense(ctx, caller.ID, finance.UpdateExpenseRequest{
		ID:            r.PathValue("id"),
		NewName:       expenseReq.Name,
		NewAmount:     expenseReq.Amount,
		NewType:       expenseReq.Type,
		NewDate:       date,
		NewCategoryID: expenseReq.CategoryID,
		NewCurrencyID: expenseReq.CurrencyID,
		NewNote:       expenseReq.Note,
		UpdateTime:    time.Now().UTC(),
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(ExpenseToHttp(expense))
}

func (api *Api) DeleteExpenseHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	if err := api.Service.DeleteExpense(ctx, caller.ID, r.PathValue("id")); err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Expense deleted."})
}

// --- BUDGET HANDLERS --- //

func (api *Api) SaveBudgetHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var budgetReq BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&budgetReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	startDate, err := parseDate(budgetReq.StartDate, "start_date")
	if err != nil {
		return respondError(r, err)
	}
	endDate, err := parseDate(budgetReq.EndDate, "end_date")
	if err != nil {
		return respondError(r, err)
	}

	budget, err := api.Service.SaveBudget(ctx, caller.ID, finance.BudgetRequest{
		Name:      budgetReq.Name,
		Amount:    budgetReq.Amount,
		StartDate: startDate,
		EndDate:   endDate,
		Note:      budgetReq.Note,
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(201).JSON(BudgetSummaryItem{
		ID:        budget.ID,
		Name:      budget.Name,
		Amount:    budget.Amount,
		StartDate: formatTime(budget.StartDate),
		EndDate:   formatTime(budget.EndDate),
		Note:      budget.Note,
		CreatedAt: formatTime(budget.CreatedAt),
		UpdatedAt: formatTime(budget.UpdatedAt),
	})
}

func (api *Api) GetBudgetsHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	budgets, err := api.Service.GetBudgets(ctx, caller.ID)
	if err != nil {
		return respondError(r, err)
	}

	result := make([]BudgetSummaryItem, 0, len(budgets))
	for _, budget := range budgets {
		result = append(result, BudgetToHttp(budget))
	}
	return iz.Respond().Status(200).JSON(result)
}

func (api *Api) GetBudgetByIdHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	budget, err := api.Service.GetBudgetById(ctx, caller.ID, r.PathValue("id"))
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(BudgetToHttp(budget))
}

func (api *Api) UpdateBudgetHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var budgetReq BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&budgetReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	startDate, err := parseDate(budgetReq.StartDate, "start_date")
	if err != nil {
		return respondError(r, err)
	}
	endDate, err := parseDate(budgetReq.EndDate, "end_date")
	if err != nil {
		return respondError(r, err)
	}

	budget, err := api.Service.UpdateBudget(ctx, caller.ID, finance.UpdateBudgetRequest{
		ID:           r.PathValue("id"),
		NewName:      budgetReq.Name,
		NewAmount:    budgetReq.Amount,
		NewStartDate: startDate,
		NewEndDate:   endDate,
		NewNote:      budgetReq.Note,
		UpdateTime:   time.Now().UTC(),
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(BudgetToHttp(budget))
}

func (api *Api) DeleteBudgetHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	if err := api.Service.DeleteBudget(ctx, caller.ID, r.PathValue("id")); err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Budget deleted."})
}

// --- BUDGET ITEM HANDLERS --- //

func (api *Api) SaveBudgetItemHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var itemReq BudgetItemRequest
	if err := json.NewDecoder(r.Body).Decode(&itemReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	item, err := api.Service.SaveBudgetItem(ctx, caller.ID, finance.BudgetItemRequest{
		BudgetID:   itemReq.BudgetID,
		CategoryID: itemReq.CategoryID,
		Name:       itemReq.Name,
		Amount:     itemReq.Amount,
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(201).JSON(BudgetLineToHttp(item))
}

func (api *Api) GetBudgetItemsHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	items, err := api.Service.GetBudgetItems(ctx, caller.ID, r.PathValue("budgetId"))
	if err != nil {
		return respondError(r, err)
	}

	result := make([]BudgetLineItem, 0, len(items))
	for _, item := range items {
		result = append(result, BudgetLineToHttp(item))
	}
	return iz.Respond().Status(200).JSON(result)
}

func (api *Api) UpdateBudgetItemHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var itemReq BudgetItemRequest
	if err := json.NewDecoder(r.Body).Decode(&itemReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	item, err := api.Service.UpdateBudgetItem(ctx, caller.ID, finance.UpdateBudgetItemRequest{
		ID:            r.PathValue("id"),
		NewName:       itemReq.Name,
		NewAmount:     itemReq.Amount,
		NewCategoryID: itemReq.CategoryID,
		UpdateTime:    time.Now().UTC(),
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(BudgetLineToHttp(item))
}

func (api *Api) DeleteBudgetItemHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	if err := api.Service.DeleteBudgetItem(ctx, caller.ID, r.PathValue("id")); err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Budget item deleted."})
}

// --- SAVINGS HANDLERS --- //

func (api *Api) SaveSavingsHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var savingsReq SavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&savingsReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	savings, err := api.Service.SaveSavings(ctx, caller.ID, finance.SavingsRequest{
		Name:         savingsReq.Name,
		TargetAmount: savingsReq.TargetAmount,
		Note:         savingsReq.Note,
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(201).JSON(SavingsItem{
		ID:           savings.ID,
		Name:         savings.Name,
		TargetAmount: savings.TargetAmount,
		Note:         savings.Note,
		CreatedAt:    formatTime(savings.CreatedAt),
		UpdatedAt:    formatTime(savings.UpdatedAt),
		Items:        []SavingsLineItem{},
	})
}

func (api *Api) GetSavingsListHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	savingsList, err := api.Service.GetSavingsList(ctx, caller.ID)
	if err != nil {
		return respondError(r, err)
	}

	result := make([]SavingsItem, 0, len(savingsList))
	for _, savings := range savingsList {
		result = append(result, SavingsToHttp(savings))
	}
	return iz.Respond().Status(200).JSON(result)
}

func (api *Api) GetSavingsByIdHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	savings, err := api.Service.GetSavingsById(ctx, caller.ID, r.PathValue("id"))
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(SavingsToHttp(savings))
}

func (api *Api) UpdateSavingsHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var savingsReq SavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&savingsReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	savings, err := api.Service.UpdateSavings(ctx, caller.ID, finance.UpdateSavingsRequest{
		ID:              r.PathValue("id"),
		NewName:         savingsReq.Name,
		NewTargetAmount: savingsReq.TargetAmount,
		NewNote:         savingsReq.Note,
		UpdateTime:      time.Now().UTC(),
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(SavingsToHttp(savings))
}

func (api *Api) DeleteSavingsHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	if err := api.Service.DeleteSavings(ctx, caller.ID, r.PathValue("id")); err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Savings record deleted."})
}

func (api *Api) SaveSavingsItemHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var itemReq SavingsItemRequest
	if err := json.NewDecoder(r.Body).Decode(&itemReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	date, err := parseDate(itemReq.Date, "date")
	if err != nil {
		return respondError(r, err)
	}

	item, err := api.Service.SaveSavingsItem(ctx, caller.ID, finance.SavingsItemRequest{
		SavingsID: r.PathValue("id"),
		Amount:    itemReq.Amount,
		Date:      date,
		Note:      itemReq.Note,
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(201).JSON(SavingsLineToHttp(item))
}

func (api *Api) DeleteSavingsItemHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	if err := api.Service.DeleteSavingsItem(ctx, caller.ID, r.PathValue("itemId")); err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Savings item deleted."})
}

// --- CATEGORY HANDLERS --- //

func (api *Api) SaveCategoryHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var categoryReq CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	category, err := api.Service.SaveCategory(ctx, caller.ID, finance.CategoryRequest{
		Name: categoryReq.Name,
		Note: categoryReq.Note,
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(201).JSON(CategoryToHttp(category))
}

func (api *Api) GetCategoriesHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	categories, err := api.Service.GetCategories(ctx, caller.ID)
	if err != nil {
		return respondError(r, err)
	}

	result := make([]CategoryItem, 0, len(categories))
	for _, category := range categories {
		result = append(result, CategoryToHttp(category))
	}
	return iz.Respond().Status(200).JSON(result)
}

func (api *Api) UpdateCategoryHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	var categoryReq CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	category, err := api.Service.UpdateCategory(ctx, caller.ID, finance.UpdateCategoryRequest{
		ID:         r.PathValue("id"),
		NewName:    categoryReq.Name,
		NewNote:    categoryReq.Note,
		UpdateTime: time.Now().UTC(),
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(CategoryToHttp(category))
}

func (api *Api) DeleteCategoryHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	if err := api.Service.DeleteCategory(ctx, caller.ID, r.PathValue("id")); err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Category deleted."})
}

// --- CURRENCY HANDLERS --- //

func (api *Api) GetCurrenciesHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	currencies, err := api.Service.GetCurrencies(ctx)
	if err != nil {
		return respondError(r, err)
	}

	result := make([]CurrencyItem, 0, len(currencies))
	for _, currency := range currencies {
		result = append(result, CurrencyItem{
			ID:     currency.ID,
			Code:   currency.Code,
			Name:   currency.Name,
			Symbol: currency.Symbol,
		})
	}
	return iz.Respond().Status(200).JSON(result)
}
