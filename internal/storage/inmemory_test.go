package storage

import (
	"context"
	"testing"
	"time"

	appErrors "github.com/aydinemil/finance-tracker/errors"
	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/finance"
)

func TestConsumeResetTokenIsSingleUse(t *testing.T) {
	memory := NewInMemoryStorage()
	ctx := context.Background()

	now := time.Now().UTC()
	token := auth.ResetToken{
		Token:     "tok-1",
		Email:     "john@example.com",
		OTP:       123456,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	if err := memory.SaveResetToken(ctx, token); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}

	if err := memory.ConsumeResetToken(ctx, "tok-1"); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}

	err := memory.ConsumeResetToken(ctx, "tok-1")
	if err == nil {
		t.Fatal("second consume must fail")
	}
	if appErrors.CodeOf(err) != appErrors.ErrAuth {
		t.Errorf("Expected %s code, got %s", appErrors.ErrAuth, appErrors.CodeOf(err))
	}

	stored, err := memory.GetResetToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("failed to re-read token: %v", err)
	}
	if stored.UsedAt == nil {
		t.Error("Expected UsedAt to be set after consumption")
	}
}

func TestConsumeResetTokenRejectsExpired(t *testing.T) {
	memory := NewInMemoryStorage()
	ctx := context.Background()

	now := time.Now().UTC()
	token := auth.ResetToken{
		Token:     "tok-old",
		Email:     "john@example.com",
		OTP:       123456,
		ExpiresAt: now.Add(-time.Minute),
		CreatedAt: now.Add(-4 * time.Hour),
	}
	if err := memory.SaveResetToken(ctx, token); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}

	if err := memory.ConsumeResetToken(ctx, "tok-old"); err == nil {
		t.Error("Expected expired token consumption to fail")
	}
}

func TestSaveUserRejectsDuplicateEmail(t *testing.T) {
	memory := NewInMemoryStorage()
	ctx := context.Background()

	first := auth.User{ID: "u-1", FullName: "John Doe", Email: "john@example.com"}
	if err := memory.SaveUser(ctx, first); err != nil {
		t.Fatalf("failed to save first user: %v", err)
	}

	second := auth.User{ID: "u-2", FullName: "Jane Doe", Email: "John@Example.com"}
	err := memory.SaveUser(ctx, second)
	if err == nil {
		t.Fatal("Expected duplicate email to be rejected")
	}
	if appErrors.CodeOf(err) != appErrors.ErrConflict {
		t.Errorf("Expected %s code, got %s", appErrors.ErrConflict, appErrors.CodeOf(err))
	}
}

func TestGetFilteredExpenses(t *testing.T) {
	memory := NewInMemoryStorage()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	expenses := []finance.Expense{
		{ID: "e-1", Name: "groceries", Amount: 50, Type: finance.RecordTypeExpense, Date: base, CategoryID: "cat-food", CreatedBy: "u-1"},
		{ID: "e-2", Name: "rent", Amount: 900, Type: finance.RecordTypeExpense, Date: base.AddDate(0, 0, 2), CreatedBy: "u-1"},
		{ID: "e-3", Name: "salary", Amount: 3000, Type: finance.RecordTypeIncome, Date: base.AddDate(0, 0, 4), CreatedBy: "u-1"},
		{ID: "e-4", Name: "coffee", Amount: 4, Type: finance.RecordTypeExpense, Date: base, CreatedBy: "u-2"},
	}
	for _, expense := range expenses {
		if err := memory.SaveExpense(ctx, expense); err != nil {
			t.Fatalf("failed to save expense: %v", err)
		}
	}

	tests := []struct {
		name     string
		filters  *finance.ExpenseList
		expected []string
	}{
		{
			name:     "All records of the owner",
			filters:  &finance.ExpenseList{IsAllNil: true},
			expected: []string{"e-3", "e-2", "e-1"},
		},
		{
			name:     "Only expenses",
			filters:  &finance.ExpenseList{Type: finance.RecordTypeExpense},
			expected: []string{"e-2", "e-1"},
		},
		{
			name:     "By category",
			filters:  &finance.ExpenseList{CategoryIDs: []string{"cat-food"}},
			expected: []string{"e-1"},
		},
		{
			name:     "By amount range",
			filters:  &finance.ExpenseList{MinAmount: 100, MaxAmount: 1000},
			expected: []string{"e-2"},
		},
		{
			name: "By date range",
			filters: &finance.ExpenseList{
				StartDate: base.AddDate(0, 0, 1),
				EndDate:   base.AddDate(0, 0, 3),
			},
			expected: []string{"e-2"},
		},
		{
			name:     "With limit and offset",
			filters:  &finance.ExpenseList{IsAllNil: true, Limit: 1, Offset: 1},
			expected: []string{"e-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := memory.GetFilteredExpenses(ctx, "u-1", tt.filters)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("Expected %d expenses, got %d", len(tt.expected), len(result))
			}
			for i, id := range tt.expected {
				if result[i].ID != id {
					t.Errorf("Position %d: expected %q, got %q", i, id, result[i].ID)
				}
			}
		})
	}
}

func TestInsightsAggregations(t *testing.T) {
	memory := NewInMemoryStorage()
	ctx := context.Background()

	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	filter := finance.InsightsFilter{
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC),
	}

	category := finance.Category{ID: "cat-food", Name: "Food", CreatedBy: "u-1"}
	if err := memory.SaveCategory(ctx, category); err != nil {
		t.Fatalf("failed to save category: %v", err)
	}

	expenses := []finance.Expense{
		{ID: "e-1", Name: "groceries", Amount: 60, Type: finance.RecordTypeExpense, Date: base, CategoryID: "cat-food", CreatedBy: "u-1"},
		{ID: "e-2", Name: "dinner", Amount: 40, Type: finance.RecordTypeExpense, Date: base.AddDate(0, 0, 1), CategoryID: "cat-food", CreatedBy: "u-1"},
		{ID: "e-3", Name: "cinema", Amount: 20, Type: finance.RecordTypeExpense, Date: base, CreatedBy: "u-1"},
		{ID: "e-4", Name: "foreign", Amount: 999, Type: finance.RecordTypeExpense, Date: base, CreatedBy: "u-2"},
	}
	for _, expense := range expenses {
		if err := memory.SaveExpense(ctx, expense); err != nil {
			t.Fatalf("failed to save expense: %v", err)
		}
	}

	total, err := memory.GetTotalSpend(ctx, "u-1", filter)
	if err != nil {
		t.Fatalf("GetTotalSpend failed: %v", err)
	}
	if total != 120 {
		t.Errorf("Expected total 120, got %v", total)
	}

	byCategory, err := memory.GetSpendByCategory(ctx, "u-1", filter)
	if err != nil {
		t.Fatalf("GetSpendByCategory failed: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("Expected 2 category rows, got %d", len(byCategory))
	}
	if byCategory[0].CategoryName != "Food" || byCategory[0].Amount != 100 {
		t.Errorf("Expected Food=100 first, got %+v", byCategory[0])
	}
	if byCategory[1].CategoryName != "Uncategorized" || byCategory[1].Amount != 20 {
		t.Errorf("Expected Uncategorized=20 second, got %+v", byCategory[1])
	}

	daily, err := memory.GetSpendTrend(ctx, "u-1", filter, finance.GranularityDaily)
	if err != nil {
		t.Fatalf("GetSpendTrend failed: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("Expected 2 daily points, got %d", len(daily))
	}
	if daily[0].Period != "2026-08-10" || daily[0].Amount != 80 {
		t.Errorf("Unexpected first daily point: %+v", daily[0])
	}

	monthly, err := memory.GetSpendTrend(ctx, "u-1", filter, finance.GranularityMonthly)
	if err != nil {
		t.Fatalf("GetSpendTrend failed: %v", err)
	}
	if len(monthly) != 1 || monthly[0].Period != "2026-08" || monthly[0].Amount != 120 {
		t.Errorf("Unexpected monthly points: %+v", monthly)
	}

	top, err := memory.GetTopExpenses(ctx, "u-1", filter, 2, 0)
	if err != nil {
		t.Fatalf("GetTopExpenses failed: %v", err)
	}
	if len(top) != 2 || top[0].ID != "e-1" || top[1].ID != "e-2" {
		t.Errorf("Unexpected top expenses: %+v", top)
	}
}
