package finance

import (
	"time"
)

const (
	RecordTypeExpense = "EXPENSE"
	RecordTypeIncome  = "INCOME"

	GranularityDaily   = "daily"
	GranularityMonthly = "monthly"
)

// REQUESTS START:

type ExpenseRequest struct {
	Name       string
	Amount     float64
	Type       string
	Date       time.Time
	CategoryID string
	CurrencyID string
	Note       string
}

type UpdateExpenseRequest struct {
	ID            string
	NewName       string
	NewAmount     float64
	NewType       string
	NewDate       time.Time
	NewCategoryID string
	NewCurrencyID string
	NewNote       string
	UpdateTime    time.Time
}

type BudgetRequest struct {
	Name      string
	Amount    float64
	StartDate time.Time
	EndDate   time.Time
	Note      string
}

type UpdateBudgetRequest struct {
	ID           string
	NewName      string
	NewAmount    float64
	NewStartDate time.Time
	NewEndDate   time.Time
	NewNote      string
	UpdateTime   time.Time
}

type BudgetItemRequest struct {
	BudgetID   string
	CategoryID string
	Name       string
	Amount     float64
}

type UpdateBudgetItemRequest struct {
	ID            string
	NewName       string
	NewAmount     float64
	NewCategoryID string
	UpdateTime    time.Time
}

type SavingsRequest struct {
	Name         string
	TargetAmount float64
	Note         string
}

type UpdateSavingsRequest struct {
	ID              string
	NewName         string
	NewTargetAmount float64
	NewNote         string
	UpdateTime      time.Time
}

type SavingsItemRequest struct {
	SavingsID string
	Amount    float64
	Date      time.Time
	Note      string
}

type CategoryRequest struct {
	Name string
	Note string
}

type UpdateCategoryRequest struct {
	ID         string
	NewName    string
	NewNote    string
	UpdateTime time.Time
}

type ResetPasswordRequest struct {
	Token       string
	OTP         int
	NewPassword string
}

// REQUESTS END:

// MODELS:

type Expense struct {
	ID         string
	Name       string
	Amount     float64
	Type       string
	Date       time.Time
	CategoryID string
	CurrencyID string
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CreatedBy  string
}

type Budget struct {
	ID        string
	Name      string
	Amount    float64
	StartDate time.Time
	EndDate   time.Time
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

type BudgetItem struct {
	ID         string
	BudgetID   string
	CategoryID string
	Name       string
	Amount     float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Savings struct {
	ID           string
	Name         string
	TargetAmount float64
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}

type SavingsItem struct {
	ID        string
	SavingsID string
	Amount    float64
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

type Category struct {
	ID        string
	Name      string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

type Currency struct {
	ID     string
	Code   string
	Name   string
	Symbol string
}

// RESPONSES:

type BudgetResponse struct {
	ID              string
	Name            string
	Amount          float64
	AllocatedAmount float64
	UsagePercent    int
	StartDate       time.Time
	EndDate         time.Time
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
}

type SavingsResponse struct {
	ID           string
	Name         string
	Amount       float64
	TargetAmount float64
	UsagePercent int
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
	Items        []SavingsItem
}

type CategorySpend struct {
	CategoryID   string
	CategoryName string
	Amount       float64
	Percentage   float64
}

type TrendPoint struct {
	Period string
	Amount float64
}

type TotalSpendResponse struct {
	TotalSpend float64
	Type       string
	StartDate  time.Time
	EndDate    time.Time
}

// FILTERS:

type ExpenseList struct {
	CategoryIDs []string
	Type        string
	StartDate   time.Time
	EndDate     time.Time
	MinAmount   float64
	MaxAmount   float64
	Limit       int
	Offset      int
	IsAllNil    bool
}

// InsightsFilter scopes the aggregation queries. A zero StartDate/EndDate
// pair means the current calendar month.
type InsightsFilter struct {
	StartDate  time.Time
	EndDate    time.Time
	CategoryID string
	Type       string
}
