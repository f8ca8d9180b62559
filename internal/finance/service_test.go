package finance

import (
	"context"
	"strings"
	"testing"
	"time"

	appErrors "github.com/aydinemil/finance-tracker/errors"
	"github.com/aydinemil/finance-tracker/internal/auth"
)

// Mocks

type MockMailer struct {
	sentTo    []string
	failSends bool
}

func (m *MockMailer) SendPasswordReset(toEmail string, token string, otp int) error {
	if m.failSends {
		return appErrors.ErrorResponse{Code: appErrors.ErrInternal, Message: "smtp down"}
	}
	m.sentTo = append(m.sentTo, toEmail)
	return nil
}

type MockStorage struct {
	johnPasswordHash string
	savedUsers       []auth.User
	savedResetTokens []auth.ResetToken
	consumedTokens   []string
}

const (
	johnID     = "john-1234"
	strangerID = "mallory-999"
)

func (m *MockStorage) GetStorageType() string { return "mock" }

func (m *MockStorage) SaveUser(ctx context.Context, user auth.User) error {
	m.savedUsers = append(m.savedUsers, user)
	return nil
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	if email == "john@example.com" {
		return auth.User{
			ID:             johnID,
			FullName:       "John Doe",
			Email:          "john@example.com",
			PasswordHashed: m.johnPasswordHash,
		}, nil
	}
	return auth.User{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "User not found."}
}

func (m *MockStorage) GetUserById(ctx context.Context, id string) (auth.User, error) {
	if id == johnID {
		return auth.User{ID: johnID, FullName: "John Doe", Email: "john@example.com"}, nil
	}
	return auth.User{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "User not found."}
}

func (m *MockStorage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return email == "taken@example.com" || email == "john@example.com", nil
}

func (m *MockStorage) UpdateUser(ctx context.Context, user auth.User) error { return nil }

func (m *MockStorage) UpdateUserPassword(ctx context.Context, email string, hashedPassword string) error {
	return nil
}

func (m *MockStorage) SaveResetToken(ctx context.Context, token auth.ResetToken) error {
	m.savedResetTokens = append(m.savedResetTokens, token)
	return nil
}

func (m *MockStorage) GetResetToken(ctx context.Context, token string) (auth.ResetToken, error) {
	now := time.Now().UTC()
	switch token {
	case "tok-valid":
		return auth.ResetToken{
			Token:     "tok-valid",
			Email:     "john@example.com",
			OTP:       123456,
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now.Add(-time.Minute),
		}, nil
	case "tok-used":
		usedAt := now.Add(-10 * time.Minute)
		return auth.ResetToken{
			Token:     "tok-used",
			Email:     "john@example.com",
			OTP:       123456,
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now.Add(-time.Hour),
			UsedAt:    &usedAt,
		}, nil
	case "tok-expired":
		return auth.ResetToken{
			Token:     "tok-expired",
			Email:     "john@example.com",
			OTP:       123456,
			ExpiresAt: now.Add(-time.Minute),
			CreatedAt: now.Add(-4 * time.Hour),
		}, nil
	}
	return auth.ResetToken{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "Reset token not found."}
}

func (m *MockStorage) ConsumeResetToken(ctx context.Context, token string) error {
	m.consumedTokens = append(m.consumedTokens, token)
	return nil
}

func (m *MockStorage) SaveExpense(ctx context.Context, expense Expense) error { return nil }

func (m *MockStorage) GetFilteredExpenses(ctx context.Context, userID string, filters *ExpenseList) ([]Expense, error) {
	return []Expense{
		{ID: "exp-1", Name: "groceries", Amount: 42.50, Type: RecordTypeExpense, CreatedBy: userID},
	}, nil
}

func (m *MockStorage) GetExpenseById(ctx context.Context, expenseID string) (Expense, error) {
	switch expenseID {
	case "exp-1":
		return Expense{ID: "exp-1", Name: "groceries", Amount: 42.50, Type: RecordTypeExpense, CreatedBy: johnID}, nil
	case "exp-foreign":
		return Expense{ID: "exp-foreign", Name: "rent", Amount: 900, Type: RecordTypeExpense, CreatedBy: strangerID}, nil
	}
	return Expense{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "Expense not found."}
}

func (m *MockStorage) UpdateExpense(ctx context.Context, expense Expense) error { return nil }
func (m *MockStorage) DeleteExpense(ctx context.Context, expenseID string) error { return nil }

func (m *MockStorage) SaveBudget(ctx context.Context, budget Budget) error { return nil }

func (m *MockStorage) GetBudgets(ctx context.Context, userID string) ([]Budget, error) {
	return []Budget{{ID: "bud-1", Name: "monthly", Amount: 1000, CreatedBy: userID}}, nil
}

func (m *MockStorage) GetBudgetById(ctx context.Context, budgetID string) (Budget, error) {
	switch budgetID {
	case "bud-1":
		return Budget{ID: "bud-1", Name: "monthly", Amount: 1000, CreatedBy: johnID}, nil
	case "bud-foreign":
		return Budget{ID: "bud-foreign", Name: "other", Amount: 500, CreatedBy: strangerID}, nil
	}
	return Budget{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "Budget not found."}
}

func (m *MockStorage) UpdateBudget(ctx context.Context, budget Budget) error  { return nil }
func (m *MockStorage) DeleteBudget(ctx context.Context, budgetID string) error { return nil }

func (m *MockStorage) SaveBudgetItem(ctx context.Context, item BudgetItem) error { return nil }

func (m *MockStorage) GetBudgetItems(ctx context.Context, budgetID string) ([]BudgetItem, error) {
	if budgetID == "bud-1" {
		return []BudgetItem{
			{ID: "item-1", BudgetID: "bud-1", Name: "food", Amount: 300},
			{ID: "item-2", BudgetID: "bud-1", Name: "transport", Amount: 200},
		}, nil
	}
	return nil, nil
}

func (m *MockStorage) GetBudgetItemById(ctx context.Context, itemID string) (BudgetItem, error) {
	switch itemID {
	case "item-1":
		return BudgetItem{ID: "item-1", BudgetID: "bud-1", Name: "food", Amount: 300}, nil
	case "item-foreign":
		return BudgetItem{ID: "item-foreign", BudgetID: "bud-foreign", Name: "other", Amount: 100}, nil
	}
	return BudgetItem{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "Budget item not found."}
}

func (m *MockStorage) UpdateBudgetItem(ctx context.Context, item BudgetItem) error { return nil }
func (m *MockStorage) DeleteBudgetItem(ctx context.Context, itemID string) error   { return nil }

func (m *MockStorage) SaveSavings(ctx context.Context, savings Savings) error { return nil }

func (m *MockStorage) GetSavingsList(ctx context.Context, userID string) ([]Savings, error) {
	return []Savings{{ID: "sav-1", Name: "vacation", TargetAmount: 2000, CreatedBy: userID}}, nil
}

func (m *MockStorage) GetSavingsById(ctx context.Context, savingsID string) (Savings, error) {
	switch savingsID {
	case "sav-1":
		return Savings{ID: "sav-1", Name: "vacation", TargetAmount: 2000, CreatedBy: johnID}, nil
	case "sav-foreign":
		return Savings{ID: "sav-foreign", Name: "other", TargetAmount: 500, CreatedBy: strangerID}, nil
	}
	return Savings{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "Savings record not found."}
}

func (m *MockStorage) UpdateSavings(ctx context.Context, savings Savings) error  { return nil }
func (m *MockStorage) DeleteSavings(ctx context.Context, savingsID string) error { return nil }

func (m *MockStorage) SaveSavingsItem(ctx context.Context, item SavingsItem) error { return nil }

func (m *MockStorage) GetSavingsItems(ctx context.Context, savingsID string) ([]SavingsItem, error) {
	if savingsID == "sav-1" {
		return []SavingsItem{
			{ID: "sitem-1", SavingsID: "sav-1", Amount: 500},
			{ID: "sitem-2", SavingsID: "sav-1", Amount: 300},
		}, nil
	}
	return nil, nil
}

func (m *MockStorage) GetSavingsItemById(ctx context.Context, itemID string) (SavingsItem, error) {
	switch itemID {
	case "sitem-1":
		return SavingsItem{ID: "sitem-1", SavingsID: "sav-1", Amount: 500}, nil
	case "sitem-foreign":
		return SavingsItem{ID: "sitem-foreign", SavingsID: "sav-foreign", Amount: 100}, nil
	}
	return SavingsItem{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "Savings item not found."}
}

func (m *MockStorage) DeleteSavingsItem(ctx context.Context, itemID string) error { return nil }

func (m *MockStorage) SaveCategory(ctx context.Context, category Category) error { return nil }

func (m *MockStorage) GetCategories(ctx context.Context, userID string) ([]Category, error) {
	return []Category{{ID: "cat-1", Name: "food", CreatedBy: userID}}, nil
}

func (m *MockStorage) GetCategoryById(ctx context.Context, categoryID string) (Category, error) {
	switch categoryID {
	case "cat-1":
		return Category{ID: "cat-1", Name: "food", CreatedBy: johnID}, nil
	case "cat-foreign":
		return Category{ID: "cat-foreign", Name: "other", CreatedBy: strangerID}, nil
	}
	return Category{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "Category not found."}
}

func (m *MockStorage) UpdateCategory(ctx context.Context, category Category) error { return nil }
func (m *MockStorage) DeleteCategory(ctx context.Context, categoryID string) error { return nil }

func (m *MockStorage) GetCurrencies(ctx context.Context) ([]Currency, error) {
	return []Currency{{ID: "cur-usd", Code: "USD", Name: "US Dollar", Symbol: "$"}}, nil
}

func (m *MockStorage) GetTotalSpend(ctx context.Context, userID string, filter InsightsFilter) (float64, error) {
	return 142.50, nil
}

func (m *MockStorage) GetSpendByCategory(ctx context.Context, userID string, filter InsightsFilter) ([]CategorySpend, error) {
	return []CategorySpend{
		{CategoryID: "cat-1", CategoryName: "food", Amount: 75},
		{CategoryID: "", CategoryName: "Uncategorized", Amount: 25},
	}, nil
}

func (m *MockStorage) GetSpendTrend(ctx context.Context, userID string, filter InsightsFilter, granularity string) ([]TrendPoint, error) {
	return []TrendPoint{{Period: "2026-08-01", Amount: 42.50}}, nil
}

func (m *MockStorage) GetTopExpenses(ctx context.Context, userID string, filter InsightsFilter, limit int, offset int) ([]Expense, error) {
	return []Expense{{ID: "exp-1", Amount: 42.50, CreatedBy: userID}}, nil
}

func newTestTracker(t *testing.T) (*Tracker, *MockStorage, *MockMailer) {
	t.Helper()

	hash, err := auth.HashPassword("secure123")
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	mockStore := &MockStorage{johnPasswordHash: hash}
	mockMailer := &MockMailer{}
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret:     "unit-test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Issuer:     "finance-tracker",
	})

	tracker := &Tracker{storage: mockStore, tokens: tokens, mailer: mockMailer}
	return tracker, mockStore, mockMailer
}

func expectMessage(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q, got nil", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("Got error %q, want message containing %q", err.Error(), want)
	}
}

// Tests

func TestRegister(t *testing.T) {
	tracker, mockStore, _ := newTestTracker(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       auth.NewUser
		wantTokens  bool
		expectedMsg string
	}{
		{
			name:        "Fail - Empty full name",
			input:       auth.NewUser{FullName: "", Email: "new@example.com", PasswordPlain: "secure123"},
			expectedMsg: "Full name cannot be empty!",
		},
		{
			name:        "Fail - Taken email",
			input:       auth.NewUser{FullName: "Jane Doe", Email: "taken@example.com", PasswordPlain: "secure123"},
			expectedMsg: "already taken",
		},
		{
			name:       "Success - Valid registration",
			input:      auth.NewUser{FullName: "jane doe", Email: "new@example.com", PasswordPlain: "secure123"},
			wantTokens: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := tracker.Register(ctx, tt.input)

			if tt.wantTokens {
				if err != nil {
					t.Fatalf("Expected success, got: %v", err)
				}
				if pair.AccessToken == "" || pair.RefreshToken == "" {
					t.Errorf("Expected a token pair, got: %+v", pair)
				}
				return
			}
			expectMessage(t, err, tt.expectedMsg)
		})
	}

	if len(mockStore.savedUsers) != 1 {
		t.Fatalf("Expected 1 saved user, got %d", len(mockStore.savedUsers))
	}
	saved := mockStore.savedUsers[0]
	if saved.FullName != "Jane Doe" {
		t.Errorf("Expected capitalized full name, got %q", saved.FullName)
	}
	if saved.Email != "new@example.com" {
		t.Errorf("Expected lowercased email, got %q", saved.Email)
	}
}

func TestLogin(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       auth.Credentials
		wantTokens  bool
		expectedMsg string
	}{
		{
			name:        "Fail - Missing fields",
			input:       auth.Credentials{Email: "", PasswordPlain: ""},
			expectedMsg: "Email and password are required.",
		},
		{
			name:        "Fail - Unknown email",
			input:       auth.Credentials{Email: "nobody@example.com", PasswordPlain: "secure123"},
			expectedMsg: "Email or password is wrong.",
		},
		{
			name:        "Fail - Wrong password",
			input:       auth.Credentials{Email: "john@example.com", PasswordPlain: "wrong-password"},
			expectedMsg: "Email or password is wrong.",
		},
		{
			name:       "Success - Valid credentials",
			input:      auth.Credentials{Email: "John@Example.com", PasswordPlain: "secure123"},
			wantTokens: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := tracker.Login(ctx, tt.input)

			if tt.wantTokens {
				if err != nil {
					t.Fatalf("Expected success, got: %v", err)
				}
				if pair.AccessToken == "" || pair.RefreshToken == "" {
					t.Errorf("Expected a token pair, got: %+v", pair)
				}
				return
			}
			expectMessage(t, err, tt.expectedMsg)
		})
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	_, errUnknown := tracker.Login(ctx, auth.Credentials{Email: "nobody@example.com", PasswordPlain: "secure123"})
	_, errWrongPass := tracker.Login(ctx, auth.Credentials{Email: "john@example.com", PasswordPlain: "bad-password"})

	if errUnknown == nil || errWrongPass == nil {
		t.Fatal("Expected both logins to fail")
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Errorf("Responses differ: %q vs %q", errUnknown.Error(), errWrongPass.Error())
	}
}

func TestRefresh(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	refreshToken, err := tracker.tokens.IssueRefreshToken("john@example.com")
	if err != nil {
		t.Fatalf("failed to issue refresh token: %v", err)
	}

	pair, err := tracker.Refresh(ctx, refreshToken)
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if pair.AccessToken == "" {
		t.Error("Expected a new access token")
	}
	if pair.RefreshToken != refreshToken {
		t.Error("Expected the refresh token to be echoed back unchanged")
	}

	// An access token is not a refresh token.
	accessToken, err := tracker.tokens.IssueAccessToken("john@example.com")
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}
	if _, err := tracker.Refresh(ctx, accessToken); err == nil {
		t.Error("Expected refresh with an access token to fail")
	}

	if _, err := tracker.Refresh(ctx, "garbage"); err == nil {
		t.Error("Expected refresh with garbage to fail")
	}
}

func TestResolveIdentity(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	accessToken, err := tracker.tokens.IssueAccessToken("john@example.com")
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}

	identity, err := tracker.ResolveIdentity(ctx, accessToken)
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if identity.ID != johnID {
		t.Errorf("Expected caller ID %q, got %q", johnID, identity.ID)
	}

	refreshToken, err := tracker.tokens.IssueRefreshToken("john@example.com")
	if err != nil {
		t.Fatalf("failed to issue refresh token: %v", err)
	}
	if _, err := tracker.ResolveIdentity(ctx, refreshToken); err == nil {
		t.Error("Expected a refresh token to be rejected as an access token")
	}
}

func TestRequestPasswordReset(t *testing.T) {
	tracker, mockStore, mockMailer := newTestTracker(t)
	ctx := context.Background()

	// Unknown email still answers with the generic message and sends nothing.
	msg, err := tracker.RequestPasswordReset(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("Expected generic response for unknown email, got: %v", err)
	}
	if !strings.Contains(msg, "If this email is registered") {
		t.Errorf("Expected generic message, got %q", msg)
	}
	if len(mockMailer.sentTo) != 0 {
		t.Errorf("Expected no mail for unknown email, sent to: %v", mockMailer.sentTo)
	}

	// Known email stores a token and mails it.
	if _, err := tracker.RequestPasswordReset(ctx, "john@example.com"); err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if len(mockStore.savedResetTokens) != 1 {
		t.Fatalf("Expected 1 saved reset token, got %d", len(mockStore.savedResetTokens))
	}
	token := mockStore.savedResetTokens[0]
	if token.OTP < 100000 || token.OTP > 999999 {
		t.Errorf("Expected a 6-digit OTP, got %d", token.OTP)
	}
	ttl := token.ExpiresAt.Sub(token.CreatedAt)
	if ttl != RESET_TOKEN_TTL {
		t.Errorf("Expected token TTL %v, got %v", RESET_TOKEN_TTL, ttl)
	}
	if len(mockMailer.sentTo) != 1 || mockMailer.sentTo[0] != "john@example.com" {
		t.Errorf("Expected mail to john@example.com, sent to: %v", mockMailer.sentTo)
	}

	// Invalid email shape is rejected before any lookup.
	if _, err := tracker.RequestPasswordReset(ctx, "not-an-email"); err == nil {
		t.Error("Expected invalid email to be rejected")
	}
}

func TestResetPassword(t *testing.T) {
	tracker, mockStore, _ := newTestTracker(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       ResetPasswordRequest
		wantSuccess bool
		expectedMsg string
	}{
		{
			name:        "Fail - Missing token",
			input:       ResetPasswordRequest{Token: "", OTP: 123456, NewPassword: "newsecure123"},
			expectedMsg: "Reset token is required.",
		},
		{
			name:        "Fail - Short password",
			input:       ResetPasswordRequest{Token: "tok-valid", OTP: 123456, NewPassword: "short"},
			expectedMsg: "Password so short",
		},
		{
			name:        "Fail - Unknown token",
			input:       ResetPasswordRequest{Token: "tok-missing", OTP: 123456, NewPassword: "newsecure123"},
			expectedMsg: "Reset token not found.",
		},
		{
			name:        "Fail - Already used token",
			input:       ResetPasswordRequest{Token: "tok-used", OTP: 123456, NewPassword: "newsecure123"},
			expectedMsg: "expired or already used",
		},
		{
			name:        "Fail - Expired token",
			input:       ResetPasswordRequest{Token: "tok-expired", OTP: 123456, NewPassword: "newsecure123"},
			expectedMsg: "expired or already used",
		},
		{
			name:        "Fail - Wrong OTP",
			input:       ResetPasswordRequest{Token: "tok-valid", OTP: 999999, NewPassword: "newsecure123"},
			expectedMsg: "Wrong OTP code.",
		},
		{
			name:        "Success - Valid token and OTP",
			input:       ResetPasswordRequest{Token: "tok-valid", OTP: 123456, NewPassword: "newsecure123"},
			wantSuccess: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := tracker.ResetPassword(ctx, tt.input)

			if tt.wantSuccess {
				if err != nil {
					t.Fatalf("Expected success, got: %v", err)
				}
				if !strings.Contains(msg, "Password updated") {
					t.Errorf("Unexpected success message: %q", msg)
				}
				return
			}
			expectMessage(t, err, tt.expectedMsg)
		})
	}

	// Only the successful run may consume the token.
	if len(mockStore.consumedTokens) != 1 || mockStore.consumedTokens[0] != "tok-valid" {
		t.Errorf("Expected exactly tok-valid to be consumed, got: %v", mockStore.consumedTokens)
	}
}

func TestSaveExpense(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		callerID    string
		input       ExpenseRequest
		wantSuccess bool
		expectedMsg string
	}{
		{
			name:        "Fail - Empty name",
			callerID:    johnID,
			input:       ExpenseRequest{Name: "", Amount: 10, Type: RecordTypeExpense},
			expectedMsg: "Name cannot be empty!",
		},
		{
			name:        "Fail - Zero amount",
			callerID:    johnID,
			input:       ExpenseRequest{Name: "coffee", Amount: 0, Type: RecordTypeExpense},
			expectedMsg: "Amount must be greater than zero.",
		},
		{
			name:        "Fail - Negative amount",
			callerID:    johnID,
			input:       ExpenseRequest{Name: "coffee", Amount: -5, Type: RecordTypeExpense},
			expectedMsg: "Amount must be greater than zero.",
		},
		{
			name:        "Fail - Bad record type",
			callerID:    johnID,
			input:       ExpenseRequest{Name: "coffee", Amount: 3.5, Type: "SPENDING"},
			expectedMsg: "Invalid record type",
		},
		{
			name:        "Fail - Foreign category",
			callerID:    johnID,
			input:       ExpenseRequest{Name: "coffee", Amount: 3.5, Type: RecordTypeExpense, CategoryID: "cat-foreign"},
			expectedMsg: "You are not allowed to access this record.",
		},
		{
			name:        "Success - Own category",
			callerID:    johnID,
			input:       ExpenseRequest{Name: "coffee", Amount: 3.5, Type: RecordTypeExpense, CategoryID: "cat-1"},
			wantSuccess: true,
		},
		{
			name:        "Success - No category",
			callerID:    johnID,
			input:       ExpenseRequest{Name: "coffee", Amount: 3.5, Type: RecordTypeExpense},
			wantSuccess: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expense, err := tracker.SaveExpense(ctx, tt.callerID, tt.input)

			if tt.wantSuccess {
				if err != nil {
					t.Fatalf("Expected success, got: %v", err)
				}
				if expense.ID == "" {
					t.Error("Expected a generated expense ID")
				}
				if expense.CreatedBy != tt.callerID {
					t.Errorf("Expected creator %q, got %q", tt.callerID, expense.CreatedBy)
				}
				if expense.Date.IsZero() {
					t.Error("Expected empty date to default to now")
				}
				return
			}
			expectMessage(t, err, tt.expectedMsg)
		})
	}
}

func TestExpenseOwnershipGuard(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	deniedMsg := "You are not allowed to access this record."

	if _, err := tracker.GetExpenseById(ctx, johnID, "exp-foreign"); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied reading a foreign expense, got: %v", err)
	}
	if err := tracker.DeleteExpense(ctx, johnID, "exp-foreign"); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied deleting a foreign expense, got: %v", err)
	}
	update := UpdateExpenseRequest{ID: "exp-foreign", NewName: "hijack", NewAmount: 1, NewType: RecordTypeExpense, UpdateTime: time.Now()}
	if _, err := tracker.UpdateExpense(ctx, johnID, update); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied updating a foreign expense, got: %v", err)
	}

	// The owner passes all three.
	if _, err := tracker.GetExpenseById(ctx, johnID, "exp-1"); err != nil {
		t.Errorf("Expected owner read to pass, got: %v", err)
	}
	if err := tracker.DeleteExpense(ctx, johnID, "exp-1"); err != nil {
		t.Errorf("Expected owner delete to pass, got: %v", err)
	}
}

func TestBudgetItemGuardRunsAgainstParentBudget(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	deniedMsg := "You are not allowed to access this record."

	if _, err := tracker.SaveBudgetItem(ctx, johnID, BudgetItemRequest{BudgetID: "bud-foreign", Name: "sneaky", Amount: 10}); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied adding item to a foreign budget, got: %v", err)
	}
	if _, err := tracker.GetBudgetItems(ctx, johnID, "bud-foreign"); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied listing foreign budget items, got: %v", err)
	}
	if err := tracker.DeleteBudgetItem(ctx, johnID, "item-foreign"); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied deleting a foreign budget item, got: %v", err)
	}

	item, err := tracker.SaveBudgetItem(ctx, johnID, BudgetItemRequest{BudgetID: "bud-1", Name: "food", Amount: 100})
	if err != nil {
		t.Fatalf("Expected owner to add an item, got: %v", err)
	}
	if item.BudgetID != "bud-1" {
		t.Errorf("Expected item bound to bud-1, got %q", item.BudgetID)
	}
}

func TestBudgetUsagePercent(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	budget, err := tracker.GetBudgetById(ctx, johnID, "bud-1")
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}

	// Items total 500 against a 1000 budget.
	if budget.AllocatedAmount != 500 {
		t.Errorf("Expected allocated amount 500, got %v", budget.AllocatedAmount)
	}
	if budget.UsagePercent != 50 {
		t.Errorf("Expected usage 50%%, got %d", budget.UsagePercent)
	}
}

func TestBudgetDateValidation(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -7)

	_, err := tracker.SaveBudget(ctx, johnID, BudgetRequest{
		Name:      "August",
		Amount:    1000,
		StartDate: start,
		EndDate:   end,
	})
	expectMessage(t, err, "Budget end date cannot be before the start date.")

	// Updates go through the same check, an update cannot invert the range
	// creation rejects.
	_, err = tracker.UpdateBudget(ctx, johnID, UpdateBudgetRequest{
		ID:           "bud-1",
		NewName:      "August",
		NewAmount:    1000,
		NewStartDate: start,
		NewEndDate:   end,
		UpdateTime:   time.Now().UTC(),
	})
	expectMessage(t, err, "Budget end date cannot be before the start date.")

	// A zero date on either side skips the comparison.
	_, err = tracker.UpdateBudget(ctx, johnID, UpdateBudgetRequest{
		ID:         "bud-1",
		NewName:    "August",
		NewAmount:  1000,
		NewEndDate: end,
		UpdateTime: time.Now().UTC(),
	})
	if err != nil {
		t.Errorf("Expected success with a zero start date, got: %v", err)
	}
}

func TestSavingsResponseAggregation(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	savings, err := tracker.GetSavingsById(ctx, johnID, "sav-1")
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}

	// Contributions total 800 against a 2000 target.
	if savings.Amount != 800 {
		t.Errorf("Expected saved amount 800, got %v", savings.Amount)
	}
	if savings.UsagePercent != 40 {
		t.Errorf("Expected usage 40%%, got %d", savings.UsagePercent)
	}
	if len(savings.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(savings.Items))
	}
}

func TestSavingsItemGuard(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	deniedMsg := "You are not allowed to access this record."

	if _, err := tracker.SaveSavingsItem(ctx, johnID, SavingsItemRequest{SavingsID: "sav-foreign", Amount: 50}); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied contributing to foreign savings, got: %v", err)
	}
	if err := tracker.DeleteSavingsItem(ctx, johnID, "sitem-foreign"); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied deleting a foreign savings item, got: %v", err)
	}

	item, err := tracker.SaveSavingsItem(ctx, johnID, SavingsItemRequest{SavingsID: "sav-1", Amount: 50})
	if err != nil {
		t.Fatalf("Expected owner contribution to pass, got: %v", err)
	}
	if item.Date.IsZero() {
		t.Error("Expected empty contribution date to default to now")
	}
}

func TestCategoryOwnershipGuard(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	deniedMsg := "You are not allowed to access this record."

	update := UpdateCategoryRequest{ID: "cat-foreign", NewName: "hijack", UpdateTime: time.Now()}
	if _, err := tracker.UpdateCategory(ctx, johnID, update); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied updating a foreign category, got: %v", err)
	}
	if err := tracker.DeleteCategory(ctx, johnID, "cat-foreign"); err == nil || !strings.Contains(err.Error(), deniedMsg) {
		t.Errorf("Expected access denied deleting a foreign category, got: %v", err)
	}
}

func TestUserProfileSelfOnly(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.GetUserProfile(ctx, johnID, strangerID); err == nil {
		t.Error("Expected access denied reading another user's profile")
	}

	user, err := tracker.GetUserProfile(ctx, johnID, johnID)
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if user.ID != johnID {
		t.Errorf("Expected user %q, got %q", johnID, user.ID)
	}

	if _, err := tracker.UpdateUserProfile(ctx, johnID, strangerID, auth.UpdateProfile{FullName: "X", Email: "x@example.com"}); err == nil {
		t.Error("Expected access denied updating another user's profile")
	}

	if _, err := tracker.UpdateUserProfile(ctx, johnID, johnID, auth.UpdateProfile{FullName: "john doe", Email: "taken@example.com"}); err == nil {
		t.Error("Expected conflict on taken email")
	}

	updated, err := tracker.UpdateUserProfile(ctx, johnID, johnID, auth.UpdateProfile{FullName: "john smith", Email: "john@example.com"})
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if updated.FullName != "John Smith" {
		t.Errorf("Expected capitalized name, got %q", updated.FullName)
	}
}

func TestCapitalizeFullName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"john doe", "John Doe"},
		{"  jane   mary doe ", "Jane Mary Doe"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CapitalizeFullName(tt.input); got != tt.expected {
			t.Errorf("CapitalizeFullName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
