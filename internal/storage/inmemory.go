package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	appErrors "github.com/aydinemil/finance-tracker/errors"
	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/finance"
)

// InMemoryStorage keeps everything in maps behind one mutex. Used for
// local development and tests, never in production.
type InMemoryStorage struct {
	mu sync.RWMutex

	users       map[string]auth.User // keyed by id
	resetTokens map[string]auth.ResetToken
	expenses    map[string]finance.Expense
	budgets     map[string]finance.Budget
	budgetItems map[string]finance.BudgetItem
	savings     map[string]finance.Savings
	savingsItem map[string]finance.SavingsItem
	categories  map[string]finance.Category
	currencies  []finance.Currency
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		users:       make(map[string]auth.User),
		resetTokens: make(map[string]auth.ResetToken),
		expenses:    make(map[string]finance.Expense),
		budgets:     make(map[string]finance.Budget),
		budgetItems: make(map[string]finance.BudgetItem),
		savings:     make(map[string]finance.Savings),
		savingsItem: make(map[string]finance.SavingsItem),
		categories:  make(map[string]finance.Category),
		currencies: []finance.Currency{
			{ID: "cur-azn", Code: "AZN", Name: "Azerbaijani Manat", Symbol: "₼"},
			{ID: "cur-eur", Code: "EUR", Name: "Euro", Symbol: "€"},
			{ID: "cur-gbp", Code: "GBP", Name: "Pound Sterling", Symbol: "£"},
			{ID: "cur-try", Code: "TRY", Name: "Turkish Lira", Symbol: "₺"},
			{ID: "cur-usd", Code: "USD", Name: "US Dollar", Symbol: "$"},
		},
	}
}

func (memory *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func notFound(message string) appErrors.ErrorResponse {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: message,
	}
}

// --- USERS --- //

func (memory *InMemoryStorage) SaveUser(ctx context.Context, user auth.User) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, existing := range memory.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "This email address already taken.",
			}
		}
	}
	memory.users[user.ID] = user
	return nil
}

func (memory *InMemoryStorage) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	for _, user := range memory.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return auth.User{}, notFound("User not found.")
}

func (memory *InMemoryStorage) GetUserById(ctx context.Context, id string) (auth.User, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	user, ok := memory.users[id]
	if !ok {
		return auth.User{}, notFound("User not found.")
	}
	return user, nil
}

func (memory *InMemoryStorage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	for _, user := range memory.users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (memory *InMemoryStorage) UpdateUser(ctx context.Context, user auth.User) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	existing, ok := memory.users[user.ID]
	if !ok {
		return notFound("User not found.")
	}
	for id, other := range memory.users {
		if id != user.ID && strings.EqualFold(other.Email, user.Email) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "This email address already taken.",
			}
		}
	}
	existing.FullName = user.FullName
	existing.Email = user.Email
	existing.UpdatedAt = user.UpdatedAt
	memory.users[user.ID] = existing
	return nil
}

func (memory *InMemoryStorage) UpdateUserPassword(ctx context.Context, email string, hashedPassword string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for id, user := range memory.users {
		if strings.EqualFold(user.Email, email) {
			user.PasswordHashed = hashedPassword
			user.UpdatedAt = time.Now().UTC()
			memory.users[id] = user
			return nil
		}
	}
	return notFound("User not found.")
}

// --- RESET TOKENS --- //

func (memory *InMemoryStorage) SaveResetToken(ctx context.Context, token auth.ResetToken) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.resetTokens[token.Token] = token
	return nil
}

func (memory *InMemoryStorage) GetResetToken(ctx context.Context, token string) (auth.ResetToken, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	resetToken, ok := memory.resetTokens[token]
	if !ok {
		return auth.ResetToken{}, notFound("Reset token not found.")
	}
	return resetToken, nil
}

func (memory *InMemoryStorage) ConsumeResetToken(ctx context.Context, token string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	resetToken, ok := memory.resetTokens[token]
	now := time.Now().UTC()
	if !ok || resetToken.UsedAt != nil || !resetToken.ExpiresAt.After(now) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Reset token expired or already used, request a new one.",
		}
	}
	resetToken.UsedAt = &now
	memory.resetTokens[token] = resetToken
	return nil
}

// --- EXPENSES --- //

func (memory *InMemoryStorage) SaveExpense(ctx context.Context, expense finance.Expense) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.expenses[expense.ID] = expense
	return nil
}

func matchesFilters(expense finance.Expense, filters *finance.ExpenseList) bool {
	if filters.IsAllNil {
		return true
	}
	if len(filters.CategoryIDs) > 0 {
		found := false
		for _, categoryID := range filters.CategoryIDs {
			if expense.CategoryID == categoryID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.Type != "" && expense.Type != filters.Type {
		return false
	}
	if !filters.StartDate.IsZero() && expense.Date.Before(filters.StartDate) {
		return false
	}
	if !filters.EndDate.IsZero() && expense.Date.After(filters.EndDate) {
		return false
	}
	if filters.MinAmount > 0 && expense.Amount < filters.MinAmount {
		return false
	}
	if filters.MaxAmount > 0 && expense.Amount > filters.MaxAmount {
		return false
	}
	return true
}

func (memory *InMemoryStorage) GetFilteredExpenses(ctx context.Context, userID string, filters *finance.ExpenseList) ([]finance.Expense, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	var result []finance.Expense
	for _, expense := range memory.expenses {
		if expense.CreatedBy != userID {
			continue
		}
		if matchesFilters(expense, filters) {
			result = append(result, expense)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})

	if filters.Limit > 0 {
		start := filters.Offset
		if start > len(result) {
			start = len(result)
		}
		end := start + filters.Limit
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, nil
}

func (memory *InMemoryStorage) GetExpenseById(ctx context.Context, expenseID string) (finance.Expense, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	expense, ok := memory.expenses[expenseID]
	if !ok {
		return finance.Expense{}, notFound("Expense not found.")
	}
	return expense, nil
}

func (memory *InMemoryStorage) UpdateExpense(ctx context.Context, expense finance.Expense) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.expenses[expense.ID]; !ok {
		return notFound("Expense not found.")
	}
	memory.expenses[expense.ID] = expense
	return nil
}

func (memory *InMemoryStorage) DeleteExpense(ctx context.Context, expenseID string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.expenses[expenseID]; !ok {
		return notFound("Expense not found.")
	}
	delete(memory.expenses, expenseID)
	return nil
}

// --- BUDGETS --- //

func (memory *InMemoryStorage) SaveBudget(ctx context.Context, budget finance.Budget) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.budgets[budget.ID] = budget
	return nil
}

func (memory *InMemoryStorage) GetBudgets(ctx context.Context, userID string) ([]finance.Budget, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	var result []finance.Budget
	for _, budget := range memory.budgets {
		if budget.CreatedBy == userID {
			result = append(result, budget)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (memory *InMemoryStorage) GetBudgetById(ctx context.Context, budgetID string) (finance.Budget, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	budget, ok := memory.budgets[budgetID]
	if !ok {
		return finance.Budget{}, notFound("Budget not found.")
	}
	return budget, nil
}

func (memory *InMemoryStorage) UpdateBudget(ctx context.Context, budget finance.Budget) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.budgets[budget.ID]; !ok {
		return notFound("Budget not found.")
	}
	memory.budgets[budget.ID] = budget
	return nil
}

func (memory *InMemoryStorage) DeleteBudget(ctx context.Context, budgetID string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.budgets[budgetID]; !ok {
		return notFound("Budget not found.")
	}
	delete(memory.budgets, budgetID)
	for id, item := range memory.budgetItems {
		if item.BudgetID == budgetID {
			delete(memory.budgetItems, id)
		}
	}
	return nil
}

// --- BUDGET ITEMS --- //

func (memory *InMemoryStorage) SaveBudgetItem(ctx context.Context, item finance.BudgetItem) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.budgetItems[item.ID] = item
	return nil
}

func (memory *InMemoryStorage) GetBudgetItems(ctx context.Context, budgetID string) ([]finance.BudgetItem, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	var result []finance.BudgetItem
	for _, item := range memory.budgetItems {
		if item.BudgetID == budgetID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (memory *InMemoryStorage) GetBudgetItemById(ctx context.Context, itemID string) (finance.BudgetItem, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	item, ok := memory.budgetItems[itemID]
	if !ok {
		return finance.BudgetItem{}, notFound("Budget item not found.")
	}
	return item, nil
}

func (memory *InMemoryStorage) UpdateBudgetItem(ctx context.Context, item finance.BudgetItem) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.budgetItems[item.ID]; !ok {
		return notFound("Budget item not found.")
	}
	memory.budgetItems[item.ID] = item
	return nil
}

func (memory *InMemoryStorage) DeleteBudgetItem(ctx context.Context, itemID string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.budgetItems[itemID]; !ok {
		return notFound("Budget item not found.")
	}
	delete(memory.budgetItems, itemID)
	return nil
}

// --- SAVINGS --- //

func (memory *InMemoryStorage) SaveSavings(ctx context.Context, savings finance.Savings) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.savings[savings.ID] = savings
	return nil
}

func (memory *InMemoryStorage) GetSavingsList(ctx context.Context, userID string) ([]finance.Savings, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	var result []finance.Savings
	for _, savings := range memory.savings {
		if savings.CreatedBy == userID {
			result = append(result, savings)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (memory *InMemoryStorage) GetSavingsById(ctx context.Context, savingsID string) (finance.Savings, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	savings, ok := memory.savings[savingsID]
	if !ok {
		return finance.Savings{}, notFound("Savings record not found.")
	}
	return savings, nil
}

func (memory *InMemoryStorage) UpdateSavings(ctx context.Context, savings finance.Savings) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.savings[savings.ID]; !ok {
		return notFound("Savings record not found.")
	}
	memory.savings[savings.ID] = savings
	return nil
}

func (memory *InMemoryStorage) DeleteSavings(ctx context.Context, savingsID string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.savings[savingsID]; !ok {
		return notFound("Savings record not found.")
	}
	delete(memory.savings, savingsID)
	for id, item := range memory.savingsItem {
		if item.SavingsID == savingsID {
			delete(memory.savingsItem, id)
		}
	}
	return nil
}

// --- SAVINGS ITEMS --- //

func (memory *InMemoryStorage) SaveSavingsItem(ctx context.Context, item finance.SavingsItem) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.savingsItem[item.ID] = item
	return nil
}

func (memory *InMemoryStorage) GetSavingsItems(ctx context.Context, savingsID string) ([]finance.SavingsItem, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	var result []finance.SavingsItem
	for _, item := range memory.savingsItem {
		if item.SavingsID == savingsID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

func (memory *InMemoryStorage) GetSavingsItemById(ctx context.Context, itemID string) (finance.SavingsItem, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	item, ok := memory.savingsItem[itemID]
	if !ok {
		return finance.SavingsItem{}, notFound("Savings item not found.")
	}
	return item, nil
}

func (memory *InMemoryStorage) DeleteSavingsItem(ctx context.Context, itemID string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.savingsItem[itemID]; !ok {
		return notFound("Savings item not found.")
	}
	delete(memory.savingsItem, itemID)
	return nil
}

// --- CATEGORIES --- //

func (memory *InMemoryStorage) SaveCategory(ctx context.Context, category finance.Category) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, existing := range memory.categories {
		if existing.CreatedBy == category.CreatedBy && strings.EqualFold(existing.Name, category.Name) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
	}
	memory.categories[category.ID] = category
	return nil
}

func (memory *InMemoryStorage) GetCategories(ctx context.Context, userID string) ([]finance.Category, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	var result []finance.Category
	for _, category := range memory.categories {
		if category.CreatedBy == userID {
			result = append(result, category)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (memory *InMemoryStorage) GetCategoryById(ctx context.Context, categoryID string) (finance.Category, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	category, ok := memory.categories[categoryID]
	if !ok {
		return finance.Category{}, notFound("Category not found.")
	}
	return category, nil
}

func (memory *InMemoryStorage) UpdateCategory(ctx context.Context, category finance.Category) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	existing, ok := memory.categories[category.ID]
	if !ok {
		return notFound("Category not found.")
	}
	for id, other := range memory.categories {
		if id != category.ID && other.CreatedBy == existing.CreatedBy && strings.EqualFold(other.Name, category.Name) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
	}
	memory.categories[category.ID] = category
	return nil
}

func (memory *InMemoryStorage) DeleteCategory(ctx context.Context, categoryID string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.categories[categoryID]; !ok {
		return notFound("Category not found.")
	}
	delete(memory.categories, categoryID)
	return nil
}

// --- CURRENCIES --- //

func (memory *InMemoryStorage) GetCurrencies(ctx context.Context) ([]finance.Currency, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	result := make([]finance.Currency, len(memory.currencies))
	copy(result, memory.currencies)
	return result, nil
}

// --- INSIGHTS --- //

func inRange(expense finance.Expense, userID string, filter finance.InsightsFilter) bool {
	if expense.CreatedBy != userID {
		return false
	}
	if expense.Date.Before(filter.StartDate) || expense.Date.After(filter.EndDate) {
		return false
	}
	if filter.Type != "" && expense.Type != filter.Type {
		return false
	}
	if filter.CategoryID != "" && expense.CategoryID != filter.CategoryID {
		return false
	}
	return true
}

func (memory *InMemoryStorage) GetTotalSpend(ctx context.Context, userID string, filter finance.InsightsFilter) (float64, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	var total float64
	for _, expense := range memory.expenses {
		if inRange(expense, userID, filter) {
			total += expense.Amount
		}
	}
	return total, nil
}

func (memory *InMemoryStorage) GetSpendByCategory(ctx context.Context, userID string, filter finance.InsightsFilter) ([]finance.CategorySpend, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	totals := make(map[string]float64)
	for _, expense := range memory.expenses {
		if inRange(expense, userID, filter) {
			totals[expense.CategoryID] += expense.Amount
		}
	}

	var result []finance.CategorySpend
	for categoryID, amount := range totals {
		row := finance.CategorySpend{
			CategoryID:   categoryID,
			CategoryName: "Uncategorized",
			Amount:       amount,
		}
		if category, ok := memory.categories[categoryID]; ok {
			row.CategoryName = category.Name
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Amount > result[j].Amount
	})
	return result, nil
}

func (memory *InMemoryStorage) GetSpendTrend(ctx context.Context, userID string, filter finance.InsightsFilter, granularity string) ([]finance.TrendPoint, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	layout := "2006-01-02"
	if granularity == finance.GranularityMonthly {
		layout = "2006-01"
	}

	totals := make(map[string]float64)
	for _, expense := range memory.expenses {
		if inRange(expense, userID, filter) {
			totals[expense.Date.Format(layout)] += expense.Amount
		}
	}

	var points []finance.TrendPoint
	for period, amount := range totals {
		points = append(points, finance.TrendPoint{Period: period, Amount: amount})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Period < points[j].Period
	})
	return points, nil
}

func (memory *InMemoryStorage) GetTopExpenses(ctx context.Context, userID string, filter finance.InsightsFilter, limit int, offset int) ([]finance.Expense, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	var result []finance.Expense
	for _, expense := range memory.expenses {
		if inRange(expense, userID, filter) {
			result = append(result, expense)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Amount > result[j].Amount
	})

	if offset > len(result) {
		offset = len(result)
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}
