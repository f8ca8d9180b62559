package storage

import "database/sql"

type dbExpense struct {
	ID         string
	Name       string
	Amount     float64
	Type       string
	Date       sql.NullTime
	CategoryID sql.NullString
	CurrencyID sql.NullString
	Note       string
	CreatedAt  sql.NullTime
	UpdatedAt  sql.NullTime
	CreatedBy  string
}

type dbBudget struct {
	ID        string
	Name      string
	Amount    float64
	StartDate sql.NullTime
	EndDate   sql.NullTime
	Note      string
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
	CreatedBy string
}

type dbResetToken struct {
	Token     string
	Email     string
	OTP       int
	ExpiresAt sql.NullTime
	CreatedAt sql.NullTime
	UsedAt    sql.NullTime
}

type dbCategorySpend struct {
	CategoryID   sql.NullString
	CategoryName sql.NullString
	Amount       float64
}
