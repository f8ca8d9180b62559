package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/aydinemil/finance-tracker/errors"
	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/finance"
	"github.com/0xcafe-io/iz"
)

// REQUESTS START:

type RegisterRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	OTP         int    `json:"otp"`
	NewPassword string `json:"new_password"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

type ExpenseRequest struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"`
	Date       string  `json:"date"`
	CategoryID string  `json:"category_id"`
	CurrencyID string  `json:"currency_id"`
	Note       string  `json:"note"`
}

type BudgetRequest struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Note      string  `json:"note"`
}

type BudgetItemRequest struct {
	BudgetID   string  `json:"budget_id"`
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
}

type SavingsRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	Note         string  `json:"note"`
}

type SavingsItemRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
}

type CategoryRequest struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

// REQUESTS END:

// RESPONSES:

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

type ExpenseItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"`
	Date       string  `json:"date"`
	CategoryID string  `json:"category_id,omitempty"`
	CurrencyID string  `json:"currency_id,omitempty"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type BudgetSummaryItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	AllocatedAmount float64 `json:"allocated_amount"`
	UsagePercent    int     `json:"usage_percent"`
	StartDate       string  `json:"start_date,omitempty"`
	EndDate         string  `json:"end_date,omitempty"`
	Note            string  `json:"note,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type BudgetLineItem struct {
	ID         string  `json:"id"`
	BudgetID   string  `json:"budget_id"`
	CategoryID string  `json:"category_id,omitempty"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type SavingsItem struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Amount       float64           `json:"amount"`
	TargetAmount float64           `json:"target_amount"`
	UsagePercent int               `json:"usage_percent"`
	Note         string            `json:"note,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
	Items        []SavingsLineItem `json:"items"`
}

type SavingsLineItem struct {
	ID        string  `json:"id"`
	SavingsID string  `json:"savings_id"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Note      string  `json:"note,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type CategoryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CurrencyItem struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type TotalSpendItem struct {
	TotalSpend float64 `json:"total_spend"`
	Type       string  `json:"type,omitempty"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
}

type CategorySpendItem struct {
	CategoryID   string  `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name"`
	Amount       float64 `json:"amount"`
	Percentage   float64 `json:"percentage"`
}

type TrendPointItem struct {
	Period string  `json:"period"`
	Amount float64 `json:"amount"`
}

// ErrorEnvelope is the uniform error body for every failed request.
type ErrorEnvelope struct {
	ApiPath   string `json:"api_path"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func httpStatusFromError(err error) int {
	switch appErrors.CodeOf(err) {
	case appErrors.ErrNotFound:
		return 404 // not found
	case appErrors.ErrInvalidInput:
		return 400 // bad request
	case appErrors.ErrAuth:
		return 401 // unauthorized
	case appErrors.ErrAccessDenied:
		return 403 // access denied
	case appErrors.ErrConflict:
		return 409 // conflict
	default:
		return 500 // internal error
	}
}

func respondError(r *iz.Request, err error) iz.Responder {
	status := httpStatusFromError(err)
	return iz.Respond().Status(status).JSON(ErrorEnvelope{
		ApiPath:   r.URL.Path,
		Code:      status,
		Message:   messageOf(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondStatusError(r *iz.Request, status int, message string) iz.Responder {
	return iz.Respond().Status(status).JSON(ErrorEnvelope{
		ApiPath:   r.URL.Path,
		Code:      status,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func messageOf(err error) string {
	var appErr appErrors.ErrorResponse
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func invalidInput(message string) appErrors.ErrorResponse {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrInvalidInput,
		Message: message,
	}
}

const timeDisplayFormat = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeDisplayFormat)
}

// parseDate accepts a plain date or a full RFC3339 timestamp.
func parseDate(raw string, fieldName string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, invalidInput(fmt.Sprintf("Invalid %s format: '%s', use YYYY-MM-DD.", fieldName, raw))
}

func parseFloatParam(params url.Values, name string) (float64, error) {
	raw := params.Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, invalidInput(fmt.Sprintf("Invalid %s value: '%s'.", name, raw))
	}
	return value, nil
}

func parseIntParam(params url.Values, name string) (int, error) {
	raw := params.Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidInput(fmt.Sprintf("Invalid %s value: '%s'.", name, raw))
	}
	return value, nil
}

func parseExpenseFilters(params url.Values) (*finance.ExpenseList, error) {
	filters := &finance.ExpenseList{}

	if raw := params.Get("category_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				filters.CategoryIDs = append(filters.CategoryIDs, trimmed)
			}
		}
	}
	filters.Type = params.Get("type")

	startDate, err := parseDate(params.Get("start_date"), "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(params.Get("end_date"), "end_date")
	if err != nil {
		return nil, err
	}
	filters.StartDate = startDate
	filters.EndDate = endDate

	if filters.MinAmount, err = parseFloatParam(params, "min_amount"); err != nil {
		return nil, err
	}
	if filters.MaxAmount, err = parseFloatParam(params, "max_amount"); err != nil {
		return nil, err
	}
	if filters.Limit, err = parseIntParam(params, "limit"); err != nil {
		return nil, err
	}
	if filters.Offset, err = parseIntParam(params, "offset"); err != nil {
		return nil, err
	}

	filters.IsAllNil = len(filters.CategoryIDs) == 0 &&
		filters.Type == "" &&
		filters.StartDate.IsZero() &&
		filters.EndDate.IsZero() &&
		filters.MinAmount == 0 &&
		filters.MaxAmount == 0

	return filters, nil
}

func parseInsightsFilter(params url.Values) (finance.InsightsFilter, error) {
	startDate, err := parseDate(params.Get("start_date"), "start_date")
	if err != nil {
		return finance.InsightsFilter{}, err
	}
	endDate, err := parseDate(params.Get("end_date"), "end_date")
	if err != nil {
		return finance.InsightsFilter{}, err
	}
	return finance.InsightsFilter{
		StartDate:  startDate,
		EndDate:    endDate,
		CategoryID: params.Get("category_id"),
		Type:       params.Get("type"),
	}, nil
}

// MAPPERS:

func UserToHttp(user auth.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}
}

func ExpenseToHttp(expense finance.Expense) ExpenseItem {
	return ExpenseItem{
		ID:         expense.ID,
		Name:       expense.Name,
		Amount:     expense.Amount,
		Type:       expense.Type,
		Date:       formatTime(expense.Date),
		CategoryID: expense.CategoryID,
		CurrencyID: expense.CurrencyID,
		Note:       expense.Note,
		CreatedAt:  formatTime(expense.CreatedAt),
		UpdatedAt:  formatTime(expense.UpdatedAt),
	}
}

func ExpensesToHttp(expenses []finance.Expense) []ExpenseItem {
	result := make([]ExpenseItem, 0, len(expenses))
	for _, expense := range expenses {
		result = append(result, ExpenseToHttp(expense))
	}
	return result
}

func BudgetToHttp(budget finance.BudgetResponse) BudgetSummaryItem {
	return BudgetSummaryItem{
		ID:              budget.ID,
		Name:            budget.Name,
		Amount:          budget.Amount,
		AllocatedAmount: budget.AllocatedAmount,
		UsagePercent:    budget.UsagePercent,
		StartDate:       formatTime(budget.StartDate),
		EndDate:         formatTime(budget.EndDate),
		Note:            budget.Note,
		CreatedAt:       formatTime(budget.CreatedAt),
		UpdatedAt:       formatTime(budget.UpdatedAt),
	}
}

func BudgetLineToHttp(item finance.BudgetItem) BudgetLineItem {
	return BudgetLineItem{
		ID:         item.ID,
		BudgetID:   item.BudgetID,
		CategoryID: item.CategoryID,
		Name:       item.Name,
		Amount:     item.Amount,
		CreatedAt:  formatTime(item.CreatedAt),
		UpdatedAt:  formatTime(item.UpdatedAt),
	}
}

func SavingsToHttp(savings finance.SavingsResponse) SavingsItem {
	items := make([]SavingsLineItem, 0, len(savings.Items))
	for _, item := range savings.Items {
		items = append(items, SavingsLineToHttp(item))
	}
	return SavingsItem{
		ID:           savings.ID,
		Name:         savings.Name,
		Amount:       savings.Amount,
		TargetAmount: savings.TargetAmount,
		UsagePercent: savings.UsagePercent,
		Note:         savings.Note,
		CreatedAt:    formatTime(savings.CreatedAt),
		UpdatedAt:    formatTime(savings.UpdatedAt),
		Items:        items,
	}
}

func SavingsLineToHttp(item finance.SavingsItem) SavingsLineItem {
	return SavingsLineItem{
		ID:        item.ID,
		SavingsID: item.SavingsID,
		Amount:    item.Amount,
		Date:      formatTime(item.Date),
		Note:      item.Note,
		CreatedAt: formatTime(item.CreatedAt),
	}
}

func CategoryToHttp(category finance.Category) CategoryItem {
	return CategoryItem{
		ID:        category.ID,
		Name:      category.Name,
		Note:      category.Note,
		CreatedAt: formatTime(category.CreatedAt),
		UpdatedAt: formatTime(category.UpdatedAt),
	}
}
