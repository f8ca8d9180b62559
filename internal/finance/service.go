package finance

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"
	"unicode"

	appErrors "github.com/aydinemil/finance-tracker/errors"
	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/logging"
	"github.com/google/uuid"
)

const (
	MAX_AMOUNT_LIMIT    = 999999999999999999.99
	MAX_NAME_LENGTH     = 255
	MAX_NOTE_LENGTH     = 1000
	RESET_TOKEN_TTL     = 3 * time.Hour
	Epsilon             = 1e-9 // For IsFloatZero() func.
	genericLoginMessage = "Email or password is wrong."
)

func IsFloatZero(f float64) bool {
	return f >= 0 && f < Epsilon
}

// Tracker is the application service: authentication flows, user-owned
// financial records and the insights aggregations all go through it.
type Tracker struct {
	storage     Storage
	tokens      *auth.TokenManager
	mailer      Mailer
	StorageType string
}

func NewTracker(s Storage, tokens *auth.TokenManager, mailer Mailer) Tracker {
	return Tracker{
		storage:     s,
		tokens:      tokens,
		mailer:      mailer,
		StorageType: s.GetStorageType(),
	}
}

// Mailer delivers password-reset credentials to the user out of band.
type Mailer interface {
	SendPasswordReset(toEmail string, token string, otp int) error
}

type Storage interface {
	// Users
	SaveUser(ctx context.Context, user auth.User) error
	GetUserByEmail(ctx context.Context, email string) (auth.User, error)
	GetUserById(ctx context.Context, id string) (auth.User, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, user auth.User) error
	UpdateUserPassword(ctx context.Context, email string, hashedPassword string) error

	// Reset tokens
	SaveResetToken(ctx context.Context, token auth.ResetToken) error
	GetResetToken(ctx context.Context, token string) (auth.ResetToken, error)
	ConsumeResetToken(ctx context.Context, token string) error

	// Expenses
	SaveExpense(ctx context.Context, expense Expense) error
	GetFilteredExpenses(ctx context.Context, userID string, filters *ExpenseList) ([]Expense, error)
	GetExpenseById(ctx context.Context, expenseID string) (Expense, error)
	UpdateExpense(ctx context.Context, expense Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// Budgets
	SaveBudget(ctx context.Context, budget Budget) error
	GetBudgets(ctx context.Context, userID string) ([]Budget, error)
	GetBudgetById(ctx context.Context, budgetID string) (Budget, error)
	UpdateBudget(ctx context.Context, budget Budget) error
	DeleteBudget(ctx context.Context, budgetID string) error

	// Budget items
	SaveBudgetItem(ctx context.Context, item BudgetItem) error
	GetBudgetItems(ctx context.Context, budgetID string) ([]BudgetItem, error)
	GetBudgetItemById(ctx context.Context, itemID string) (BudgetItem, error)
	UpdateBudgetItem(ctx context.Context, item BudgetItem) error
	DeleteBudgetItem(ctx context.Context, itemID string) error

	// Savings
	SaveSavings(ctx context.Context, savings Savings) error
	GetSavingsList(ctx context.Context, userID string) ([]Savings, error)
	GetSavingsById(ctx context.Context, savingsID string) (Savings, error)
	UpdateSavings(ctx context.Context, savings Savings) error
	DeleteSavings(ctx context.Context, savingsID string) error

	// Savings items
	SaveSavingsItem(ctx context.Context, item SavingsItem) error
	GetSavingsItems(ctx context.Context, savingsID string) ([]SavingsItem, error)
	GetSavingsItemById(ctx context.Context, itemID string) (SavingsItem, error)
	DeleteSavingsItem(ctx context.Context, itemID string) error

	// Categories
	SaveCategory(ctx context.Context, category Category) error
	GetCategories(ctx context.Context, userID string) ([]Category, error)
	GetCategoryById(ctx context.Context, categoryID string) (Category, error)
	UpdateCategory(ctx context.Context, category Category) error
	DeleteCategory(ctx context.Context, categoryID string) error

	// Currencies
	GetCurrencies(ctx context.Context) ([]Currency, error)

	// Insights
	GetTotalSpend(ctx context.Context, userID string, filter InsightsFilter) (float64, error)
	GetSpendByCategory(ctx context.Context, userID string, filter InsightsFilter) ([]CategorySpend, error)
	GetSpendTrend(ctx context.Context, userID string, filter InsightsFilter, granularity string) ([]TrendPoint, error)
	GetTopExpenses(ctx context.Context, userID string, filter InsightsFilter, limit int, offset int) ([]Expense, error)

	GetStorageType() string
}

// assertOwner is the single ownership checkpoint: every read, update or
// delete of a user-owned record passes through it.
func assertOwner(resourceOwnerID string, callerID string) error {
	if resourceOwnerID != callerID {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrAccessDenied,
			Message: "You are not allowed to access this record.",
		}
	}
	return nil
}

// --- AUTHENTICATION --- //

func (t *Tracker) Register(ctx context.Context, newUser auth.NewUser) (auth.TokenPair, error) {
	if err := newUser.ValidateUserFields(); err != nil {
		return auth.TokenPair{}, err
	}

	email := strings.ToLower(newUser.Email)
	isEmailTaken, err := t.storage.IsEmailTaken(ctx, email)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to check email availability: %w", err)
	}
	if isEmailTaken {
		return auth.TokenPair{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrConflict,
			Message: fmt.Sprintf("This '%s' email address already taken, try to login instead.", email),
		}
	}

	hashedPassword, err := auth.HashPassword(newUser.PasswordPlain)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := auth.User{
		ID:             uuid.New().String(),
		FullName:       CapitalizeFullName(newUser.FullName),
		Email:          email,
		PasswordHashed: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := t.storage.SaveUser(ctx, user); err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to registration: %w", err)
	}

	pair, err := t.issueTokenPair(user.Email)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("registration completed but failed to issue tokens: %w | try login", err)
	}
	return pair, nil
}

func (t *Tracker) Login(ctx context.Context, credentials auth.Credentials) (auth.TokenPair, error) {
	if credentials.Email == "" || credentials.PasswordPlain == "" {
		return auth.TokenPair{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Email and password are required.",
		}
	}

	// Unknown email and wrong password produce the same message, a
	// distinct response would let callers enumerate registered emails.
	user, err := t.storage.GetUserByEmail(ctx, strings.ToLower(credentials.Email))
	if err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return auth.TokenPair{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: genericLoginMessage,
			}
		}
		return auth.TokenPair{}, fmt.Errorf("failed to validate user: %w", err)
	}

	if !auth.ComparePasswords(user.PasswordHashed, credentials.PasswordPlain) {
		return auth.TokenPair{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: genericLoginMessage,
		}
	}

	return t.issueTokenPair(user.Email)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is echoed back unchanged, it stays valid until its
// natural expiry.
func (t *Tracker) Refresh(ctx context.Context, rawRefreshToken string) (auth.TokenPair, error) {
	claims, err := t.tokens.ParseRefreshToken(rawRefreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}

	user, err := t.storage.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return auth.TokenPair{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Account no longer exists.",
			}
		}
		return auth.TokenPair{}, fmt.Errorf("failed to resolve user by refresh token: %w", err)
	}

	accessToken, err := t.tokens.IssueAccessToken(user.Email)
	if err != nil {
		return auth.TokenPair{}, err
	}

	return auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rawRefreshToken,
	}, nil
}

// ResolveIdentity turns a raw access token into the caller identity used
// by the authorization checks downstream.
func (t *Tracker) ResolveIdentity(ctx context.Context, rawAccessToken string) (auth.Identity, error) {
	claims, err := t.tokens.ParseAccessToken(rawAccessToken)
	if err != nil {
		return auth.Identity{}, err
	}

	user, err := t.storage.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			return auth.Identity{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Account no longer exists, please register again.",
			}
		}
		return auth.Identity{}, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return auth.Identity{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	}, nil
}

func (t *Tracker) issueTokenPair(email string) (auth.TokenPair, error) {
	accessToken, err := t.tokens.IssueAccessToken(email)
	if err != nil {
		return auth.TokenPair{}, err
	}
	refreshToken, err := t.tokens.IssueRefreshToken(email)
	if err != nil {
		return auth.TokenPair{}, err
	}
	return auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (t *Tracker) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	genericMessage := "If this email is registered, reset instructions were sent to it."

	if err := auth.ValidateEmail(email); err != nil {
		return "", err
	}

	email = strings.ToLower(email)
	user, err := t.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if appErrors.CodeOf(err) == appErrors.ErrNotFound {
			// Same response as the success path, so the endpoint
			// cannot be used to probe registered emails.
			return genericMessage, nil
		}
		return "", fmt.Errorf("failed to look up account for reset: %w", err)
	}

	tokenByte := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, tokenByte); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(tokenByte)

	otp, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset OTP: %w", err)
	}

	now := time.Now().UTC()
	resetToken := auth.ResetToken{
		Token:     token,
		Email:     user.Email,
		OTP:       otp,
		ExpiresAt: now.Add(RESET_TOKEN_TTL),
		CreatedAt: now,
	}

	if err := t.storage.SaveResetToken(ctx, resetToken); err != nil {
		return "", fmt.Errorf("failed to save reset token: %w", err)
	}

	if err := t.mailer.SendPasswordReset(user.Email, token, otp); err != nil {
		logging.Logger.Errorf("failed to send password reset email to %s: %v", user.Email, err)
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to send reset email, try again later.",
		}
	}

	return genericMessage, nil
}

func (t *Tracker) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	if req.Token == "" {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Reset token is required.",
		}
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return "", err
	}

	resetToken, err := t.storage.GetResetToken(ctx, req.Token)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if resetToken.UsedAt != nil || now.After(resetToken.ExpiresAt) {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Reset token expired or already used, request a new one.",
		}
	}
	if resetToken.OTP != req.OTP {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Wrong OTP code.",
		}
	}

	// Consume before updating the password: the conditional update makes
	// concurrent resets with the same token race on a single row change.
	if err := t.storage.ConsumeResetToken(ctx, req.Token); err != nil {
		return "", err
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := t.storage.UpdateUserPassword(ctx, resetToken.Email, hashedPassword); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	return "Password updated, you can login with the new password now.", nil
}

func generateOTP() (int, error) {
	// 6 digits, never starting with zero.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}

func CapitalizeFullName(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		if len(word) == 0 {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// --- USERS --- //

func (t *Tracker) GetUserProfile(ctx context.Context, callerID string, userID string) (auth.User, error) {
	if err := assertOwner(userID, callerID); err != nil {
		return auth.User{}, err
	}
	user, err := t.storage.GetUserById(ctx, userID)
	if err != nil {
		return auth.User{}, fmt.Errorf("failed to get user profile: %w", err)
	}
	return user, nil
}

func (t *Tracker) UpdateUserProfile(ctx context.Context, callerID string, userID string, fields auth.UpdateProfile) (auth.User, error) {
	if err := assertOwner(userID, callerID); err != nil {
		return auth.User{}, err
	}
	if fields.FullName == "" {
		return auth.User{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Full name cannot be empty!",
		}
	}
	if len(fields.FullName) > auth.MAX_LENGTH_FULLNAME {
		return auth.User{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Full name so long, maximum length is %d", auth.MAX_LENGTH_FULLNAME),
		}
	}
	if err := auth.ValidateEmail(fields.Email); err != nil {
		return auth.User{}, err
	}

	user, err := t.storage.GetUserById(ctx, userID)
	if err != nil {
		return auth.User{}, fmt.Errorf("failed to get user for update: %w", err)
	}

	newEmail := strings.ToLower(fields.Email)
	if newEmail != user.Email {
		taken, err := t.storage.IsEmailTaken(ctx, newEmail)
		if err != nil {
			return auth.User{}, fmt.Errorf("failed to check email availability: %w", err)
		}
		if taken {
			return auth.User{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: fmt.Sprintf("This '%s' email address already taken.", newEmail),
			}
		}
	}

	user.FullName = CapitalizeFullName(fields.FullName)
	user.Email = newEmail
	user.UpdatedAt = time.Now().UTC()

	if err := t.storage.UpdateUser(ctx, user); err != nil {
		return auth.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}
	return user, nil
}

// --- EXPENSES --- //

func validateAmount(amount float64) error {
	if IsFloatZero(amount) || amount < 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Amount must be greater than zero.",
		}
	}
	if amount > MAX_AMOUNT_LIMIT {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Amount is too large, the limit is: %.2f", MAX_AMOUNT_LIMIT),
		}
	}
	return nil
}

func validateNameAndNote(name string, note string) error {
	if name == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Name cannot be empty!",
		}
	}
	if len(name) > MAX_NAME_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Name so long, maximum allowed length is: %d", MAX_NAME_LENGTH),
		}
	}
	if len(note) > MAX_NOTE_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Note so long, maximum allowed length is: %d", MAX_NOTE_LENGTH),
		}
	}
	return nil
}

func validateBudgetDates(startDate time.Time, endDate time.Time) error {
	if !startDate.IsZero() && !endDate.IsZero() && endDate.Before(startDate) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Budget end date cannot be before the start date.",
		}
	}
	return nil
}

func validateRecordType(recordType string) error {
	if recordType != RecordTypeExpense && recordType != RecordTypeIncome {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid record type: '%s', allowed types are: %s and %s", recordType, RecordTypeExpense, RecordTypeIncome),
		}
	}
	return nil
}

func (t *Tracker) SaveExpense(ctx context.Context, callerID string, req ExpenseRequest) (Expense, error) {
	if err := validateNameAndNote(req.Name, req.Note); err != nil {
		return Expense{}, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return Expense{}, err
	}
	if err := validateRecordType(req.Type); err != nil {
		return Expense{}, err
	}
	if req.CategoryID != "" {
		category, err := t.storage.GetCategoryById(ctx, req.CategoryID)
		if err != nil {
			return Expense{}, fmt.Errorf("failed to check expense category: %w", err)
		}
		if err := assertOwner(category.CreatedBy, callerID); err != nil {
			return Expense{}, err
		}
	}

	now := time.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	expense := Expense{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Amount:     req.Amount,
		Type:       req.Type,
		Date:       date,
		CategoryID: req.CategoryID,
		CurrencyID: req.CurrencyID,
		Note:       req.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
		CreatedBy:  callerID,
	}

	if err := t.storage.SaveExpense(ctx, expense); err != nil {
		return Expense{}, fmt.Errorf("failed to save expense to db: %w", err)
	}
	return expense, nil
}

func (t *Tracker) GetFilteredExpenses(ctx context.Context, callerID string, filters *ExpenseList) ([]Expense, error) {
	if filters.Type != "" {
		if err := validateRecordType(filters.Type); err != nil {
			return nil, err
		}
	}
	expenses, err := t.storage.GetFilteredExpenses(ctx, callerID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	return expenses, nil
}

func (t *Tracker) GetExpenseById(ctx context.Context, callerID string, expenseID string) (Expense, error) {
	expense, err := t.storage.GetExpenseById(ctx, expenseID)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get expense by id: %w", err)
	}
	if err := assertOwner(expense.CreatedBy, callerID); err != nil {
		return Expense{}, err
	}
	return expense, nil
}

func (t *Tracker) UpdateExpense(ctx context.Context, callerID string, fields UpdateExpenseRequest) (Expense, error) {
	if err := validateNameAndNote(fields.NewName, fields.NewNote); err != nil {
		return Expense{}, err
	}
	if err := validateAmount(fields.NewAmount); err != nil {
		return Expense{}, err
	}
	if err := validateRecordType(fields.NewType); err != nil {
		return Expense{}, err
	}

	expense, err := t.storage.GetExpenseById(ctx, fields.ID)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get expense for update: %w", err)
	}
	if err := assertOwner(expense.CreatedBy, callerID); err != nil {
		return Expense{}, err
	}

	expense.Name = fields.NewName
	expense.Amount = fields.NewAmount
	expense.Type = fields.NewType
	if !fields.NewDate.IsZero() {
		expense.Date = fields.NewDate
	}
	expense.CategoryID = fields.NewCategoryID
	expense.CurrencyID = fields.NewCurrencyID
	expense.Note = fields.NewNote
	expense.UpdatedAt = fields.UpdateTime

	if err := t.storage.UpdateExpense(ctx, expense); err != nil {
		return Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return expense, nil
}

func (t *Tracker) DeleteExpense(ctx context.Context, callerID string, expenseID string) error {
	expense, err := t.storage.GetExpenseById(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("failed to get expense for delete: %w", err)
	}
	if err := assertOwner(expense.CreatedBy, callerID); err != nil {
		return err
	}
	if err := t.storage.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// --- BUDGETS --- //

func (t *Tracker) SaveBudget(ctx context.Context, callerID string, req BudgetRequest) (Budget, error) {
	if err := validateNameAndNote(req.Name, req.Note); err != nil {
		return Budget{}, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return Budget{}, err
	}
	if err := validateBudgetDates(req.StartDate, req.EndDate); err != nil {
		return Budget{}, err
	}

	now := time.Now().UTC()
	budget := Budget{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Amount:    req.Amount,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: callerID,
	}

	if err := t.storage.SaveBudget(ctx, budget); err != nil {
		return Budget{}, fmt.Errorf("failed to save budget to db: %w", err)
	}
	return budget, nil
}

func (t *Tracker) GetBudgets(ctx context.Context, callerID string) ([]BudgetResponse, error) {
	budgetsRaw, err := t.storage.GetBudgets(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}

	var budgets []BudgetResponse
	for _, budget := range budgetsRaw {
		response, err := t.budgetToResponse(ctx, budget)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, response)
	}
	return budgets, nil
}

func (t *Tracker) budgetToResponse(ctx context.Context, budget Budget) (BudgetResponse, error) {
	items, err := t.storage.GetBudgetItems(ctx, budget.ID)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to get budget items: %w", err)
	}

	var allocated float64
	for _, item := range items {
		allocated += item.Amount
	}

	var usagePercent int
	if budget.Amount > 0 {
		usagePercent = int((allocated / budget.Amount) * 100)
	}

	return BudgetResponse{
		ID:              budget.ID,
		Name:            budget.Name,
		Amount:          budget.Amount,
		AllocatedAmount: allocated,
		UsagePercent:    usagePercent,
		StartDate:       budget.StartDate,
		EndDate:         budget.EndDate,
		Note:            budget.Note,
		CreatedAt:       budget.CreatedAt,
		UpdatedAt:       budget.UpdatedAt,
		CreatedBy:       budget.CreatedBy,
	}, nil
}

func (t *Tracker) GetBudgetById(ctx context.Context, callerID string, budgetID string) (BudgetResponse, error) {
	budget, err := t.storage.GetBudgetById(ctx, budgetID)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to get budget by id: %w", err)
	}
	if err := assertOwner(budget.CreatedBy, callerID); err != nil {
		return BudgetResponse{}, err
	}
	return t.budgetToResponse(ctx, budget)
}

func (t *Tracker) UpdateBudget(ctx context.Context, callerID string, fields UpdateBudgetRequest) (BudgetResponse, error) {
	if err := validateNameAndNote(fields.NewName, fields.NewNote); err != nil {
		return BudgetResponse{}, err
	}
	if err := validateAmount(fields.NewAmount); err != nil {
		return BudgetResponse{}, err
	}
	if err := validateBudgetDates(fields.NewStartDate, fields.NewEndDate); err != nil {
		return BudgetResponse{}, err
	}

	budget, err := t.storage.GetBudgetById(ctx, fields.ID)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to get budget for update: %w", err)
	}
	if err := assertOwner(budget.CreatedBy, callerID); err != nil {
		return BudgetResponse{}, err
	}

	budget.Name = fields.NewName
	budget.Amount = fields.NewAmount
	budget.StartDate = fields.NewStartDate
	budget.EndDate = fields.NewEndDate
	budget.Note = fields.NewNote
	budget.UpdatedAt = fields.UpdateTime

	if err := t.storage.UpdateBudget(ctx, budget); err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to update budget: %w", err)
	}
	return t.budgetToResponse(ctx, budget)
}

func (t *Tracker) DeleteBudget(ctx context.Context, callerID string, budgetID string) error {
	budget, err := t.storage.GetBudgetById(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("failed to get budget for delete: %w", err)
	}
	if err := assertOwner(budget.CreatedBy, callerID); err != nil {
		return err
	}
	if err := t.storage.DeleteBudget(ctx, budgetID); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// --- BUDGET ITEMS --- //

// budget items belong to the user through their budget, so the guard runs
// against the parent budget's owner.
func (t *Tracker) assertBudgetOwner(ctx context.Context, callerID string, budgetID string) (Budget, error) {
	budget, err := t.storage.GetBudgetById(ctx, budgetID)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get parent budget: %w", err)
	}
	if err := assertOwner(budget.CreatedBy, callerID); err != nil {
		return Budget{}, err
	}
	return budget, nil
}

func (t *Tracker) SaveBudgetItem(ctx context.Context, callerID string, req BudgetItemRequest) (BudgetItem, error) {
	if err := validateNameAndNote(req.Name, ""); err != nil {
		return BudgetItem{}, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return BudgetItem{}, err
	}
	if _, err := t.assertBudgetOwner(ctx, callerID, req.BudgetID); err != nil {
		return BudgetItem{}, err
	}

	now := time.Now().UTC()
	item := BudgetItem{
		ID:         uuid.New().String(),
		BudgetID:   req.BudgetID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Amount:     req.Amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := t.storage.SaveBudgetItem(ctx, item); err != nil {
		return BudgetItem{}, fmt.Errorf("failed to save budget item to db: %w", err)
	}
	return item, nil
}

func (t *Tracker) GetBudgetItems(ctx context.Context, callerID string, budgetID string) ([]BudgetItem, error) {
	if _, err := t.assertBudgetOwner(ctx, callerID, budgetID); err != nil {
		return nil, err
	}
	items, err := t.storage.GetBudgetItems(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget items: %w", err)
	}
	return items, nil
}

func (t *Tracker) UpdateBudgetItem(ctx context.Context, callerID string, fields UpdateBudgetItemRequest) (BudgetItem, error) {
	if err := validateNameAndNote(fields.NewName, ""); err != nil {
		return BudgetItem{}, err
	}
	if err := validateAmount(fields.NewAmount); err != nil {
		return BudgetItem{}, err
	}

	item, err := t.storage.GetBudgetItemById(ctx, fields.ID)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("failed to get budget item for update: %w", err)
	}
	if _, err := t.assertBudgetOwner(ctx, callerID, item.BudgetID); err != nil {
		return BudgetItem{}, err
	}

	item.Name = fields.NewName
	item.Amount = fields.NewAmount
	item.CategoryID = fields.NewCategoryID
	item.UpdatedAt = fields.UpdateTime

	if err := t.storage.UpdateBudgetItem(ctx, item); err != nil {
		return BudgetItem{}, fmt.Errorf("failed to update budget item: %w", err)
	}
	return item, nil
}

func (t *Tracker) DeleteBudgetItem(ctx context.Context, callerID string, itemID string) error {
	item, err := t.storage.GetBudgetItemById(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get budget item for delete: %w", err)
	}
	if _, err := t.assertBudgetOwner(ctx, callerID, item.BudgetID); err != nil {
		return err
	}
	if err := t.storage.DeleteBudgetItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete budget item: %w", err)
	}
	return nil
}

// --- SAVINGS --- //

func (t *Tracker) SaveSavings(ctx context.Context, callerID string, req SavingsRequest) (Savings, error) {
	if err := validateNameAndNote(req.Name, req.Note); err != nil {
		return Savings{}, err
	}
	if err := validateAmount(req.TargetAmount); err != nil {
		return Savings{}, err
	}

	now := time.Now().UTC()
	savings := Savings{
		ID:           uuid.New().String(),
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Note:         req.Note,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    callerID,
	}

	if err := t.storage.SaveSavings(ctx, savings); err != nil {
		return Savings{}, fmt.Errorf("failed to save savings record to db: %w", err)
	}
	return savings, nil
}

func (t *Tracker) savingsToResponse(ctx context.Context, savings Savings) (SavingsResponse, error) {
	items, err := t.storage.GetSavingsItems(ctx, savings.ID)
	if err != nil {
		return SavingsResponse{}, fmt.Errorf("failed to get savings items: %w", err)
	}

	var saved float64
	for _, item := range items {
		saved += item.Amount
	}

	var usagePercent int
	if savings.TargetAmount > 0 {
		usagePercent = int((saved / savings.TargetAmount) * 100)
	}

	return SavingsResponse{
		ID:           savings.ID,
		Name:         savings.Name,
		Amount:       saved,
		TargetAmount: savings.TargetAmount,
		UsagePercent: usagePercent,
		Note:         savings.Note,
		CreatedAt:    savings.CreatedAt,
		UpdatedAt:    savings.UpdatedAt,
		CreatedBy:    savings.CreatedBy,
		Items:        items,
	}, nil
}

func (t *Tracker) GetSavingsList(ctx context.Context, callerID string) ([]SavingsResponse, error) {
	savingsRaw, err := t.storage.GetSavingsList(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get savings records: %w", err)
	}

	var result []SavingsResponse
	for _, savings := range savingsRaw {
		response, err := t.savingsToResponse(ctx, savings)
		if err != nil {
			return nil, err
		}
		result = append(result, response)
	}
	return result, nil
}

func (t *Tracker) GetSavingsById(ctx context.Context, callerID string, savingsID string) (SavingsResponse, error) {
	savings, err := t.storage.GetSavingsById(ctx, savingsID)
	if err != nil {
		return SavingsResponse{}, fmt.Errorf("failed to get savings by id: %w", err)
	}
	if err := assertOwner(savings.CreatedBy, callerID); err != nil {
		return SavingsResponse{}, err
	}
	return t.savingsToResponse(ctx, savings)
}

func (t *Tracker) UpdateSavings(ctx context.Context, callerID string, fields UpdateSavingsRequest) (SavingsResponse, error) {
	if err := validateNameAndNote(fields.NewName, fields.NewNote); err != nil {
		return SavingsResponse{}, err
	}
	if err := validateAmount(fields.NewTargetAmount); err != nil {
		return SavingsResponse{}, err
	}

	savings, err := t.storage.GetSavingsById(ctx, fields.ID)
	if err != nil {
		return SavingsResponse{}, fmt.Errorf("failed to get savings for update: %w", err)
	}
	if err := assertOwner(savings.CreatedBy, callerID); err != nil {
		return SavingsResponse{}, err
	}

	savings.Name = fields.NewName
	savings.TargetAmount = fields.NewTargetAmount
	savings.Note = fields.NewNote
	savings.UpdatedAt = fields.UpdateTime

	if err := t.storage.UpdateSavings(ctx, savings); err != nil {
		return SavingsResponse{}, fmt.Errorf("failed to update savings: %w", err)
	}
	return t.savingsToResponse(ctx, savings)
}

func (t *Tracker) DeleteSavings(ctx context.Context, callerID string, savingsID string) error {
	savings, err := t.storage.GetSavingsById(ctx, savingsID)
	if err != nil {
		return fmt.Errorf("failed to get savings for delete: %w", err)
	}
	if err := assertOwner(savings.CreatedBy, callerID); err != nil {
		return err
	}
	if err := t.storage.DeleteSavings(ctx, savingsID); err != nil {
		return fmt.Errorf("failed to delete savings: %w", err)
	}
	return nil
}

func (t *Tracker) SaveSavingsItem(ctx context.Context, callerID string, req SavingsItemRequest) (SavingsItem, error) {
	if err := validateAmount(req.Amount); err != nil {
		return SavingsItem{}, err
	}
	if len(req.Note) > MAX_NOTE_LENGTH {
		return SavingsItem{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Note so long, maximum allowed length is: %d", MAX_NOTE_LENGTH),
		}
	}

	savings, err := t.storage.GetSavingsById(ctx, req.SavingsID)
	if err != nil {
		return SavingsItem{}, fmt.Errorf("failed to get parent savings: %w", err)
	}
	if err := assertOwner(savings.CreatedBy, callerID); err != nil {
		return SavingsItem{}, err
	}

	now := time.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	item := SavingsItem{
		ID:        uuid.New().String(),
		SavingsID: req.SavingsID,
		Amount:    req.Amount,
		Date:      date,
		Note:      req.Note,
		CreatedAt: now,
	}

	if err := t.storage.SaveSavingsItem(ctx, item); err != nil {
		return SavingsItem{}, fmt.Errorf("failed to save savings item to db: %w", err)
	}
	return item, nil
}

func (t *Tracker) DeleteSavingsItem(ctx context.Context, callerID string, itemID string) error {
	item, err := t.storage.GetSavingsItemById(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get savings item for delete: %w", err)
	}
	savings, err := t.storage.GetSavingsById(ctx, item.SavingsID)
	if err != nil {
		return fmt.Errorf("failed to get parent savings: %w", err)
	}
	if err := assertOwner(savings.CreatedBy, callerID); err != nil {
		return err
	}
	if err := t.storage.DeleteSavingsItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete savings item: %w", err)
	}
	return nil
}

// --- CATEGORIES --- //

func (t *Tracker) SaveCategory(ctx context.Context, callerID string, req CategoryRequest) (Category, error) {
	if err := validateNameAndNote(req.Name, req.Note); err != nil {
		return Category{}, err
	}

	now := time.Now().UTC()
	category := Category{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: callerID,
	}

	if err := t.storage.SaveCategory(ctx, category); err != nil {
		return Category{}, err
	}
	return category, nil
}

func (t *Tracker) GetCategories(ctx context.Context, callerID string) ([]Category, error) {
	categories, err := t.storage.GetCategories(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (t *Tracker) UpdateCategory(ctx context.Context, callerID string, fields UpdateCategoryRequest) (Category, error) {
	if err := validateNameAndNote(fields.NewName, fields.NewNote); err != nil {
		return Category{}, err
	}

	category, err := t.storage.GetCategoryById(ctx, fields.ID)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get category for update: %w", err)
	}
	if err := assertOwner(category.CreatedBy, callerID); err != nil {
		return Category{}, err
	}

	category.Name = fields.NewName
	category.Note = fields.NewNote
	category.UpdatedAt = fields.UpdateTime

	if err := t.storage.UpdateCategory(ctx, category); err != nil {
		return Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (t *Tracker) DeleteCategory(ctx context.Context, callerID string, categoryID string) error {
	category, err := t.storage.GetCategoryById(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to get category for delete: %w", err)
	}
	if err := assertOwner(category.CreatedBy, callerID); err != nil {
		return err
	}
	if err := t.storage.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// --- CURRENCIES --- //

func (t *Tracker) GetCurrencies(ctx context.Context) ([]Currency, error) {
	currencies, err := t.storage.GetCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get currencies: %w", err)
	}
	return currencies, nil
}
