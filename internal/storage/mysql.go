package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appErrors "github.com/aydinemil/finance-tracker/errors"
	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/contextutil"
	"github.com/aydinemil/finance-tracker/internal/finance"
	"github.com/aydinemil/finance-tracker/logging"
	"github.com/go-sql-driver/mysql"
)

// --- INIT START --- //

func Init() (*sql.DB, error) {
	var db *sql.DB
	var err error
	var dbname string

	username := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbname = os.Getenv("DB_NAME")
	fullDsn := os.Getenv("FULL_DSN")

	if dbname == "" {
		dbname = "finance_tracker"
	}

	var adminDsn string
	if fullDsn != "" {
		parts := strings.Split(fullDsn, "/")
		adminDsn = strings.Join(parts[:len(parts)-1], "/") + "/"
	} else {
		if username == "" || password == "" || host == "" || port == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		adminDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", username, password, host, port)
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %v", err)
	}
	connected := false
	for i := 0; i < 15; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/15)", i+1)
		time.Sleep(3 * time.Second)
	}
	if !connected {
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRow(checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			adminDb.Close()
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	} else if err != nil {
		adminDb.Close()
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	adminDb.Close()

	var finalDsn string
	if fullDsn != "" {
		finalDsn = fullDsn
	} else {
		finalDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", username, password, host, port, dbname)
	}

	logging.Logger.Info("Connecting to database...")
	db, err = sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %v", err)
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrationFiles, err := getMigrationFiles("db/migrations")
	if err != nil {
		return fmt.Errorf("failed to get migration files: %v", err)
	}

	lastAppliedMigration, err := getLastAppliedMigration(db)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration name: %v", err)
	}

	newMigrations := filterNewMigrations(migrationFiles, lastAppliedMigration)

	if len(newMigrations) == 0 {
		logging.Logger.Info("no new migration")
		return nil
	}

	for _, migrationFile := range newMigrations {
		logging.Logger.Info("applying migration: ", migrationFile)
		migrationContent, err := os.ReadFile(filepath.Join("db/migrations/", migrationFile))
		if err != nil {
			return fmt.Errorf("failed to read this '%s' migration file, error: %v", migrationFile, err)
		}

		err = applyMigration(db, migrationFile, string(migrationContent))
		if err != nil {
			return fmt.Errorf("failed to apply this '%s' migration file, error: %v", migrationFile, err)
		}
	}

	logging.Logger.Info("all migrations applied successfully")
	return nil
}

func getMigrationFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)
	return migrationFiles, nil
}

func getLastAppliedMigration(db *sql.DB) (string, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS migration (
        id INT AUTO_INCREMENT PRIMARY KEY,
        migration_name VARCHAR(255) NOT NULL UNIQUE,
        applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`)

	if err != nil {
		return "", err
	}

	var lastMigration string
	err = db.QueryRow("SELECT migration_name FROM migration ORDER BY migration_name DESC LIMIT 1").Scan(&lastMigration)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return lastMigration, err
}

func filterNewMigrations(all []string, lastApplied string) []string {
	if lastApplied == "" {
		return all
	}

	var result []string
	for _, migration := range all {
		if migration > lastApplied {
			result = append(result, migration)
		}
	}
	return result
}

func applyMigration(db *sql.DB, name, sqlContent string) error {
	txn, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	statements := strings.Split(sqlContent, ";")

	for _, statement := range statements {
		trimmedStmt := strings.TrimSpace(statement)
		if trimmedStmt == "" {
			continue
		}

		if _, err := txn.Exec(trimmedStmt); err != nil {
			txn.Rollback()
			return fmt.Errorf("migration statement failed: %w\nStatement: %s", err, trimmedStmt)
		}
	}

	if _, err := txn.Exec("INSERT INTO migration (migration_name) VALUES (?)", name); err != nil {
		txn.Rollback()
		return fmt.Errorf("failed to record migration name: %w", err)
	}

	return txn.Commit()
}

// --- INIT END --- //

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (mySql *MySQLStorage) GetStorageType() string {
	return "mysql"
}

func isDuplicateEntry(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	return false
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{Valid: true, String: v}
}

func nullTime(v time.Time) sql.NullTime {
	if v.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Valid: true, Time: v}
}

func internalError(message string) appErrors.ErrorResponse {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: message,
	}
}

// --- USERS --- //

func (mySql *MySQLStorage) SaveUser(ctx context.Context, user auth.User) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO users (id, fullname, email, hashed_password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, user.ID, user.FullName, user.Email, user.PasswordHashed, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "This email address already taken.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save user in Storage.SaveUser() function | Error: %v", traceID, err)
		return internalError("Registration failed, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, fullname, email, hashed_password, created_at, updated_at FROM users WHERE email = ?;"

	var user auth.User
	var createdAt, updatedAt sql.NullTime
	err := mySql.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHashed, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "User not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get user by email in Storage.GetUserByEmail() function | Error: %v", traceID, err)
		return auth.User{}, internalError("Failed to get user, try again later.")
	}
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time
	return user, nil
}

func (mySql *MySQLStorage) GetUserById(ctx context.Context, id string) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, fullname, email, hashed_password, created_at, updated_at FROM users WHERE id = ?;"

	var user auth.User
	var createdAt, updatedAt sql.NullTime
	err := mySql.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHashed, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "User not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get user by id in Storage.GetUserById() function | Error: %v", traceID, err)
		return auth.User{}, internalError("Failed to get user, try again later.")
	}
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time
	return user, nil
}

func (mySql *MySQLStorage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var id string
	err := mySql.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?;", email).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to check email existence in Storage.IsEmailTaken() function | Error: %v", traceID, err)
		return false, internalError("Failed to check email availability, try again later.")
	}
	return true, nil
}

func (mySql *MySQLStorage) UpdateUser(ctx context.Context, user auth.User) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE users SET fullname = ?, email = ?, updated_at = ? WHERE id = ?;"
	res, err := mySql.db.ExecContext(ctx, query, user.FullName, user.Email, user.UpdatedAt, user.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "This email address already taken.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to update user in Storage.UpdateUser() function | Error: %v", traceID, err)
		return internalError("Failed to update profile, try again later.")
	}
	return checkAffected(res, "User not found.")
}

func (mySql *MySQLStorage) UpdateUserPassword(ctx context.Context, email string, hashedPassword string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE users SET hashed_password = ?, updated_at = ? WHERE email = ?;"
	res, err := mySql.db.ExecContext(ctx, query, hashedPassword, time.Now().UTC(), email)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update password in Storage.UpdateUserPassword() function | Error: %v", traceID, err)
		return internalError("Failed to update password, try again later.")
	}
	return checkAffected(res, "User not found.")
}

func checkAffected(res sql.Result, notFoundMessage string) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return internalError("Failed to check affected rows, try again later.")
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: notFoundMessage,
		}
	}
	return nil
}

// --- RESET TOKENS --- //

func (mySql *MySQLStorage) SaveResetToken(ctx context.Context, token auth.ResetToken) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO reset_tokens (token, email, otp, expires_at, created_at) VALUES (?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, token.Token, token.Email, token.OTP, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save reset token in Storage.SaveResetToken() function | Error: %v", traceID, err)
		return internalError("Failed to create reset token, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetResetToken(ctx context.Context, token string) (auth.ResetToken, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT token, email, otp, expires_at, created_at, used_at FROM reset_tokens WHERE token = ?;"

	var dbToken dbResetToken
	err := mySql.db.QueryRowContext(ctx, query, token).Scan(&dbToken.Token, &dbToken.Email, &dbToken.OTP, &dbToken.ExpiresAt, &dbToken.CreatedAt, &dbToken.UsedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.ResetToken{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Reset token not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get reset token in Storage.GetResetToken() function | Error: %v", traceID, err)
		return auth.ResetToken{}, internalError("Failed to check reset token, try again later.")
	}

	result := auth.ResetToken{
		Token:     dbToken.Token,
		Email:     dbToken.Email,
		OTP:       dbToken.OTP,
		ExpiresAt: dbToken.ExpiresAt.Time,
		CreatedAt: dbToken.CreatedAt.Time,
	}
	if dbToken.UsedAt.Valid {
		usedAt := dbToken.UsedAt.Time
		result.UsedAt = &usedAt
	}
	return result, nil
}

// ConsumeResetToken marks the token used with a conditional update, so
// concurrent resets with the same token cannot both pass: only one of
// them changes the row.
func (mySql *MySQLStorage) ConsumeResetToken(ctx context.Context, token string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE reset_tokens SET used_at = ? WHERE token = ? AND used_at IS NULL AND expires_at > ?;"
	now := time.Now().UTC()
	res, err := mySql.db.ExecContext(ctx, query, now, token, now)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to consume reset token in Storage.ConsumeResetToken() function | Error: %v", traceID, err)
		return internalError("Failed to consume reset token, try again later.")
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return internalError("Failed to consume reset token, try again later.")
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Reset token expired or already used, request a new one.",
		}
	}
	return nil
}

// --- EXPENSES --- //

func (mySql *MySQLStorage) SaveExpense(ctx context.Context, expense finance.Expense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO expenses (id, name, amount, expense_type, spent_at, category_id, currency_id, note, created_at, updated_at, created_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, expense.ID, expense.Name, expense.Amount, expense.Type, expense.Date, nullString(expense.CategoryID), nullString(expense.CurrencyID), expense.Note, expense.CreatedAt, expense.UpdatedAt, expense.CreatedBy)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save expense in Storage.SaveExpense() function | Error: %v", traceID, err)
		return internalError("Failed to save expense, try again later.")
	}
	return nil
}

func expenseFromDb(dbE dbExpense) finance.Expense {
	return finance.Expense{
		ID:         dbE.ID,
		Name:       dbE.Name,
		Amount:     dbE.Amount,
		Type:       dbE.Type,
		Date:       dbE.Date.Time,
		CategoryID: dbE.CategoryID.String,
		CurrencyID: dbE.CurrencyID.String,
		Note:       dbE.Note,
		CreatedAt:  dbE.CreatedAt.Time,
		UpdatedAt:  dbE.UpdatedAt.Time,
		CreatedBy:  dbE.CreatedBy,
	}
}

func (mySql *MySQLStorage) processExpenseRows(ctx context.Context, rows *sql.Rows) ([]finance.Expense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	defer rows.Close()

	var expenses []finance.Expense

	for rows.Next() {
		var dbE dbExpense
		err := rows.Scan(&dbE.ID, &dbE.Name, &dbE.Amount, &dbE.Type, &dbE.Date, &dbE.CategoryID, &dbE.CurrencyID, &dbE.Note, &dbE.CreatedAt, &dbE.UpdatedAt, &dbE.CreatedBy)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.processExpenseRows() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get expenses, try again later.")
		}
		expenses = append(expenses, expenseFromDb(dbE))
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.processExpenseRows() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get expenses, try again later.")
	}

	return expenses, nil
}

const expenseColumns = "id, name, amount, expense_type, spent_at, category_id, currency_id, note, created_at, updated_at, created_by"

func (mySql *MySQLStorage) GetFilteredExpenses(ctx context.Context, userID string, filters *finance.ExpenseList) ([]finance.Expense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + expenseColumns + " FROM expenses WHERE created_by = ?"
	args := []interface{}{userID}

	if !filters.IsAllNil {
		if len(filters.CategoryIDs) > 0 {
			query += " AND category_id IN (?" + strings.Repeat(",?", len(filters.CategoryIDs)-1) + ")"
			for _, categoryID := range filters.CategoryIDs {
				args = append(args, categoryID)
			}
		}
		if filters.Type != "" {
			query += " AND expense_type = ?"
			args = append(args, filters.Type)
		}
		if !filters.StartDate.IsZero() {
			query += " AND spent_at >= ?"
			args = append(args, filters.StartDate)
		}
		if !filters.EndDate.IsZero() {
			query += " AND spent_at <= ?"
			args = append(args, filters.EndDate)
		}
		if filters.MinAmount > 0 {
			query += " AND amount >= ?"
			args = append(args, filters.MinAmount)
		}
		if filters.MaxAmount > 0 {
			query += " AND amount <= ?"
			args = append(args, filters.MaxAmount)
		}
	}

	query += " ORDER BY spent_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}
	query += ";"

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get filtered expenses in Storage.GetFilteredExpenses() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get expenses, try again later.")
	}
	return mySql.processExpenseRows(ctx, rows)
}

func (mySql *MySQLStorage) GetExpenseById(ctx context.Context, expenseID string) (finance.Expense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + expenseColumns + " FROM expenses WHERE id = ?;"

	var dbE dbExpense
	err := mySql.db.QueryRowContext(ctx, query, expenseID).Scan(&dbE.ID, &dbE.Name, &dbE.Amount, &dbE.Type, &dbE.Date, &dbE.CategoryID, &dbE.CurrencyID, &dbE.Note, &dbE.CreatedAt, &dbE.UpdatedAt, &dbE.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.Expense{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Expense not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get expense by id in Storage.GetExpenseById() function | Error: %v", traceID, err)
		return finance.Expense{}, internalError("Failed to get expense, try again later.")
	}
	return expenseFromDb(dbE), nil
}

func (mySql *MySQLStorage) UpdateExpense(ctx context.Context, expense finance.Expense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE expenses SET name = ?, amount = ?, expense_type = ?, spent_at = ?, category_id = ?, currency_id = ?, note = ?, updated_at = ? WHERE id = ?;"
	res, err := mySql.db.ExecContext(ctx, query, expense.Name, expense.Amount, expense.Type, expense.Date, nullString(expense.CategoryID), nullString(expense.CurrencyID), expense.Note, expense.UpdatedAt, expense.ID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update expense in Storage.UpdateExpense() function | Error: %v", traceID, err)
		return internalError("Failed to update expense, try again later.")
	}
	return checkAffected(res, "Expense not found.")
}

func (mySql *MySQLStorage) DeleteExpense(ctx context.Context, expenseID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?;", expenseID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete expense in Storage.DeleteExpense() function | Error: %v", traceID, err)
		return internalError("Failed to delete expense, try again later.")
	}
	return checkAffected(res, "Expense not found.")
}

// --- BUDGETS --- //

func (mySql *MySQLStorage) SaveBudget(ctx context.Context, budget finance.Budget) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO budget (id, name, amount, start_date, end_date, note, created_at, updated_at, created_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, budget.ID, budget.Name, budget.Amount, nullTime(budget.StartDate), nullTime(budget.EndDate), budget.Note, budget.CreatedAt, budget.UpdatedAt, budget.CreatedBy)
	if err != nil {
		if isDuplicateEntry(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The budget already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save budget in Storage.SaveBudget() function | Error: %v", traceID, err)
		return internalError("Failed to save budget, try again later.")
	}
	return nil
}

func budgetFromDb(dbB dbBudget) finance.Budget {
	return finance.Budget{
		ID:        dbB.ID,
		Name:      dbB.Name,
		Amount:    dbB.Amount,
		StartDate: dbB.StartDate.Time,
		EndDate:   dbB.EndDate.Time,
		Note:      dbB.Note,
		CreatedAt: dbB.CreatedAt.Time,
		UpdatedAt: dbB.UpdatedAt.Time,
		CreatedBy: dbB.CreatedBy,
	}
}

const budgetColumns = "id, name, amount, start_date, end_date, note, created_at, updated_at, created_by"

func (mySql *MySQLStorage) GetBudgets(ctx context.Context, userID string) ([]finance.Budget, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + budgetColumns + " FROM budget WHERE created_by = ? ORDER BY created_at DESC;"
	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get budgets in Storage.GetBudgets() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get budgets, try again later.")
	}
	defer rows.Close()

	var budgets []finance.Budget
	for rows.Next() {
		var dbB dbBudget
		err := rows.Scan(&dbB.ID, &dbB.Name, &dbB.Amount, &dbB.StartDate, &dbB.EndDate, &dbB.Note, &dbB.CreatedAt, &dbB.UpdatedAt, &dbB.CreatedBy)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetBudgets() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get budgets, try again later.")
		}
		budgets = append(budgets, budgetFromDb(dbB))
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetBudgets() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get budgets, try again later.")
	}
	return budgets, nil
}

func (mySql *MySQLStorage) GetBudgetById(ctx context.Context, budgetID string) (finance.Budget, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + budgetColumns + " FROM budget WHERE id = ?;"

	var dbB dbBudget
	err := mySql.db.QueryRowContext(ctx, query, budgetID).Scan(&dbB.ID, &dbB.Name, &dbB.Amount, &dbB.StartDate, &dbB.EndDate, &dbB.Note, &dbB.CreatedAt, &dbB.UpdatedAt, &dbB.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.Budget{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Budget not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get budget by id in Storage.GetBudgetById() function | Error: %v", traceID, err)
		return finance.Budget{}, internalError("Failed to get budget, try again later.")
	}
	return budgetFromDb(dbB), nil
}

func (mySql *MySQLStorage) UpdateBudget(ctx context.Context, budget finance.Budget) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE budget SET name = ?, amount = ?, start_date = ?, end_date = ?, note = ?, updated_at = ? WHERE id = ?;"
	res, err := mySql.db.ExecContext(ctx, query, budget.Name, budget.Amount, nullTime(budget.StartDate), nullTime(budget.EndDate), budget.Note, budget.UpdatedAt, budget.ID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update budget in Storage.UpdateBudget() function | Error: %v", traceID, err)
		return internalError("Failed to update budget, try again later.")
	}
	return checkAffected(res, "Budget not found.")
}

func (mySql *MySQLStorage) DeleteBudget(ctx context.Context, budgetID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM budget WHERE id = ?;", budgetID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete budget in Storage.DeleteBudget() function | Error: %v", traceID, err)
		return internalError("Failed to delete budget, try again later.")
	}
	return checkAffected(res, "Budget not found.")
}

// --- BUDGET ITEMS --- //

func (mySql *MySQLStorage) SaveBudgetItem(ctx context.Context, item finance.BudgetItem) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO budget_item (id, budget_id, category_id, name, amount, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, item.ID, item.BudgetID, nullString(item.CategoryID), item.Name, item.Amount, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save budget item in Storage.SaveBudgetItem() function | Error: %v", traceID, err)
		return internalError("Failed to save budget item, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetBudgetItems(ctx context.Context, budgetID string) ([]finance.BudgetItem, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, budget_id, category_id, name, amount, created_at, updated_at FROM budget_item WHERE budget_id = ? ORDER BY created_at DESC;"
	rows, err := mySql.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get budget items in Storage.GetBudgetItems() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get budget items, try again later.")
	}
	defer rows.Close()

	var items []finance.BudgetItem
	for rows.Next() {
		var item finance.BudgetItem
		var categoryID sql.NullString
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(&item.ID, &item.BudgetID, &categoryID, &item.Name, &item.Amount, &createdAt, &updatedAt)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetBudgetItems() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get budget items, try again later.")
		}
		item.CategoryID = categoryID.String
		item.CreatedAt = createdAt.Time
		item.UpdatedAt = updatedAt.Time
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetBudgetItems() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get budget items, try again later.")
	}
	return items, nil
}

func (mySql *MySQLStorage) GetBudgetItemById(ctx context.Context, itemID string) (finance.BudgetItem, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, budget_id, category_id, name, amount, created_at, updated_at FROM budget_item WHERE id = ?;"

	var item finance.BudgetItem
	var categoryID sql.NullString
	var createdAt, updatedAt sql.NullTime
	err := mySql.db.QueryRowContext(ctx, query, itemID).Scan(&item.ID, &item.BudgetID, &categoryID, &item.Name, &item.Amount, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.BudgetItem{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Budget item not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get budget item by id in Storage.GetBudgetItemById() function | Error: %v", traceID, err)
		return finance.BudgetItem{}, internalError("Failed to get budget item, try again later.")
	}
	item.CategoryID = categoryID.String
	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time
	return item, nil
}

func (mySql *MySQLStorage) UpdateBudgetItem(ctx context.Context, item finance.BudgetItem) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE budget_item SET name = ?, amount = ?, category_id = ?, updated_at = ? WHERE id = ?;"
	res, err := mySql.db.ExecContext(ctx, query, item.Name, item.Amount, nullString(item.CategoryID), item.UpdatedAt, item.ID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update budget item in Storage.UpdateBudgetItem() function | Error: %v", traceID, err)
		return internalError("Failed to update budget item, try again later.")
	}
	return checkAffected(res, "Budget item not found.")
}

func (mySql *MySQLStorage) DeleteBudgetItem(ctx context.Context, itemID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM budget_item WHERE id = ?;", itemID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete budget item in Storage.DeleteBudgetItem() function | Error: %v", traceID, err)
		return internalError("Failed to delete budget item, try again later.")
	}
	return checkAffected(res, "Budget item not found.")
}

// --- SAVINGS --- //

func (mySql *MySQLStorage) SaveSavings(ctx context.Context, savings finance.Savings) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO savings (id, name, target_amount, note, created_at, updated_at, created_by) VALUES (?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, savings.ID, savings.Name, savings.TargetAmount, savings.Note, savings.CreatedAt, savings.UpdatedAt, savings.CreatedBy)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save savings in Storage.SaveSavings() function | Error: %v", traceID, err)
		return internalError("Failed to save savings record, try again later.")
	}
	return nil
}

const savingsColumns = "id, name, target_amount, note, created_at, updated_at, created_by"

func (mySql *MySQLStorage) GetSavingsList(ctx context.Context, userID string) ([]finance.Savings, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + savingsColumns + " FROM savings WHERE created_by = ? ORDER BY created_at DESC;"
	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get savings list in Storage.GetSavingsList() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get savings records, try again later.")
	}
	defer rows.Close()

	var result []finance.Savings
	for rows.Next() {
		var savings finance.Savings
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(&savings.ID, &savings.Name, &savings.TargetAmount, &savings.Note, &createdAt, &updatedAt, &savings.CreatedBy)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetSavingsList() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get savings records, try again later.")
		}
		savings.CreatedAt = createdAt.Time
		savings.UpdatedAt = updatedAt.Time
		result = append(result, savings)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetSavingsList() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get savings records, try again later.")
	}
	return result, nil
}

func (mySql *MySQLStorage) GetSavingsById(ctx context.Context, savingsID string) (finance.Savings, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + savingsColumns + " FROM savings WHERE id = ?;"

	var savings finance.Savings
	var createdAt, updatedAt sql.NullTime
	err := mySql.db.QueryRowContext(ctx, query, savingsID).Scan(&savings.ID, &savings.Name, &savings.TargetAmount, &savings.Note, &createdAt, &updatedAt, &savings.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.Savings{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Savings record not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get savings by id in Storage.GetSavingsById() function | Error: %v", traceID, err)
		return finance.Savings{}, internalError("Failed to get savings record, try again later.")
	}
	savings.CreatedAt = createdAt.Time
	savings.UpdatedAt = updatedAt.Time
	return savings, nil
}

func (mySql *MySQLStorage) UpdateSavings(ctx context.Context, savings finance.Savings) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE savings SET name = ?, target_amount = ?, note = ?, updated_at = ? WHERE id = ?;"
	res, err := mySql.db.ExecContext(ctx, query, savings.Name, savings.TargetAmount, savings.Note, savings.UpdatedAt, savings.ID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update savings in Storage.UpdateSavings() function | Error: %v", traceID, err)
		return internalError("Failed to update savings record, try again later.")
	}
	return checkAffected(res, "Savings record not found.")
}

func (mySql *MySQLStorage) DeleteSavings(ctx context.Context, savingsID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM savings WHERE id = ?;", savingsID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete savings in Storage.DeleteSavings() function | Error: %v", traceID, err)
		return internalError("Failed to delete savings record, try again later.")
	}
	return checkAffected(res, "Savings record not found.")
}

// --- SAVINGS ITEMS --- //

func (mySql *MySQLStorage) SaveSavingsItem(ctx context.Context, item finance.SavingsItem) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO savings_items (id, savings_id, amount, saved_at, note, created_at) VALUES (?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, item.ID, item.SavingsID, item.Amount, item.Date, item.Note, item.CreatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save savings item in Storage.SaveSavingsItem() function | Error: %v", traceID, err)
		return internalError("Failed to save savings item, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetSavingsItems(ctx context.Context, savingsID string) ([]finance.SavingsItem, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, savings_id, amount, saved_at, note, created_at FROM savings_items WHERE savings_id = ? ORDER BY saved_at DESC;"
	rows, err := mySql.db.QueryContext(ctx, query, savingsID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get savings items in Storage.GetSavingsItems() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get savings items, try again later.")
	}
	defer rows.Close()

	var items []finance.SavingsItem
	for rows.Next() {
		var item finance.SavingsItem
		var savedAt, createdAt sql.NullTime
		err := rows.Scan(&item.ID, &item.SavingsID, &item.Amount, &savedAt, &item.Note, &createdAt)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetSavingsItems() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get savings items, try again later.")
		}
		item.Date = savedAt.Time
		item.CreatedAt = createdAt.Time
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetSavingsItems() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get savings items, try again later.")
	}
	return items, nil
}

func (mySql *MySQLStorage) GetSavingsItemById(ctx context.Context, itemID string) (finance.SavingsItem, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, savings_id, amount, saved_at, note, created_at FROM savings_items WHERE id = ?;"

	var item finance.SavingsItem
	var savedAt, createdAt sql.NullTime
	err := mySql.db.QueryRowContext(ctx, query, itemID).Scan(&item.ID, &item.SavingsID, &item.Amount, &savedAt, &item.Note, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.SavingsItem{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Savings item not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get savings item by id in Storage.GetSavingsItemById() function | Error: %v", traceID, err)
		return finance.SavingsItem{}, internalError("Failed to get savings item, try again later.")
	}
	item.Date = savedAt.Time
	item.CreatedAt = createdAt.Time
	return item, nil
}

func (mySql *MySQLStorage) DeleteSavingsItem(ctx context.Context, itemID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM savings_items WHERE id = ?;", itemID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete savings item in Storage.DeleteSavingsItem() function | Error: %v", traceID, err)
		return internalError("Failed to delete savings item, try again later.")
	}
	return checkAffected(res, "Savings item not found.")
}

// --- CATEGORIES --- //

func (mySql *MySQLStorage) SaveCategory(ctx context.Context, category finance.Category) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO categories (id, name, note, created_at, updated_at, created_by) VALUES (?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, category.ID, category.Name, category.Note, category.CreatedAt, category.UpdatedAt, category.CreatedBy)
	if err != nil {
		if isDuplicateEntry(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save category in Storage.SaveCategory() function | Error: %v", traceID, err)
		return internalError("Failed to save the category, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetCategories(ctx context.Context, userID string) ([]finance.Category, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, note, created_at, updated_at, created_by FROM categories WHERE created_by = ? ORDER BY created_at DESC;"
	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get categories in Storage.GetCategories() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get categories, try again later.")
	}
	defer rows.Close()

	var categories []finance.Category
	for rows.Next() {
		var category finance.Category
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(&category.ID, &category.Name, &category.Note, &createdAt, &updatedAt, &category.CreatedBy)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetCategories() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get categories, try again later.")
		}
		category.CreatedAt = createdAt.Time
		category.UpdatedAt = updatedAt.Time
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetCategories() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get categories, try again later.")
	}
	return categories, nil
}

func (mySql *MySQLStorage) GetCategoryById(ctx context.Context, categoryID string) (finance.Category, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, note, created_at, updated_at, created_by FROM categories WHERE id = ?;"

	var category finance.Category
	var createdAt, updatedAt sql.NullTime
	err := mySql.db.QueryRowContext(ctx, query, categoryID).Scan(&category.ID, &category.Name, &category.Note, &createdAt, &updatedAt, &category.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.Category{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Category not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get category by id in Storage.GetCategoryById() function | Error: %v", traceID, err)
		return finance.Category{}, internalError("Failed to get category, try again later.")
	}
	category.CreatedAt = createdAt.Time
	category.UpdatedAt = updatedAt.Time
	return category, nil
}

func (mySql *MySQLStorage) UpdateCategory(ctx context.Context, category finance.Category) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE categories SET name = ?, note = ?, updated_at = ? WHERE id = ?;"
	res, err := mySql.db.ExecContext(ctx, query, category.Name, category.Note, category.UpdatedAt, category.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to update category in Storage.UpdateCategory() function | Error: %v", traceID, err)
		return internalError("Failed to update category, try again later.")
	}
	return checkAffected(res, "Category not found.")
}

func (mySql *MySQLStorage) DeleteCategory(ctx context.Context, categoryID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?;", categoryID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete category in Storage.DeleteCategory() function | Error: %v", traceID, err)
		return internalError("Failed to delete category, try again later.")
	}
	return checkAffected(res, "Category not found.")
}

// --- CURRENCIES --- //

func (mySql *MySQLStorage) GetCurrencies(ctx context.Context) ([]finance.Currency, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	rows, err := mySql.db.QueryContext(ctx, "SELECT id, code, name, symbol FROM currencies ORDER BY code;")
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get currencies in Storage.GetCurrencies() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get currencies, try again later.")
	}
	defer rows.Close()

	var currencies []finance.Currency
	for rows.Next() {
		var currency finance.Currency
		if err := rows.Scan(&currency.ID, &currency.Code, &currency.Name, &currency.Symbol); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetCurrencies() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get currencies, try again later.")
		}
		currencies = append(currencies, currency)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetCurrencies() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get currencies, try again later.")
	}
	return currencies, nil
}

// --- INSIGHTS --- //

func insightsWhere(userID string, filter finance.InsightsFilter) (string, []interface{}) {
	where := " WHERE created_by = ? AND spent_at >= ? AND spent_at <= ?"
	args := []interface{}{userID, filter.StartDate, filter.EndDate}

	if filter.Type != "" {
		where += " AND expense_type = ?"
		args = append(args, filter.Type)
	}
	if filter.CategoryID != "" {
		where += " AND category_id = ?"
		args = append(args, filter.CategoryID)
	}
	return where, args
}

func (mySql *MySQLStorage) GetTotalSpend(ctx context.Context, userID string, filter finance.InsightsFilter) (float64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	where, args := insightsWhere(userID, filter)
	query := "SELECT IFNULL(SUM(amount), 0) FROM expenses" + where + ";"

	var total float64
	err := mySql.db.QueryRowContext(ctx, query, args...).Scan(&total)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get total spend in Storage.GetTotalSpend() function | Error: %v", traceID, err)
		return 0, internalError("Failed to get total spend, try again later.")
	}
	return total, nil
}

func (mySql *MySQLStorage) GetSpendByCategory(ctx context.Context, userID string, filter finance.InsightsFilter) ([]finance.CategorySpend, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	where, args := insightsWhere(userID, filter)
	// category_id is nullable, uncategorized expenses group under NULL.
	query := `
	SELECT e.category_id,
	       c.name,
	       SUM(e.amount) AS total
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id` +
		strings.Replace(where, "created_by", "e.created_by", 1) + `
	GROUP BY e.category_id, c.name
	ORDER BY total DESC;`

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get spend by category in Storage.GetSpendByCategory() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get spend by category, try again later.")
	}
	defer rows.Close()

	var result []finance.CategorySpend
	for rows.Next() {
		var dbRow dbCategorySpend
		if err := rows.Scan(&dbRow.CategoryID, &dbRow.CategoryName, &dbRow.Amount); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetSpendByCategory() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get spend by category, try again later.")
		}
		row := finance.CategorySpend{
			CategoryID:   dbRow.CategoryID.String,
			CategoryName: dbRow.CategoryName.String,
			Amount:       dbRow.Amount,
		}
		if row.CategoryName == "" {
			row.CategoryName = "Uncategorized"
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetSpendByCategory() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get spend by category, try again later.")
	}
	return result, nil
}

func (mySql *MySQLStorage) GetSpendTrend(ctx context.Context, userID string, filter finance.InsightsFilter, granularity string) ([]finance.TrendPoint, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	dateFormat := "%Y-%m-%d"
	if granularity == finance.GranularityMonthly {
		dateFormat = "%Y-%m"
	}

	where, args := insightsWhere(userID, filter)
	query := "SELECT DATE_FORMAT(spent_at, '" + dateFormat + "') AS period, IFNULL(SUM(amount), 0) AS total FROM expenses" +
		where + " GROUP BY period ORDER BY period;"

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get spend trend in Storage.GetSpendTrend() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get spend trend, try again later.")
	}
	defer rows.Close()

	var points []finance.TrendPoint
	for rows.Next() {
		var point finance.TrendPoint
		if err := rows.Scan(&point.Period, &point.Amount); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetSpendTrend() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get spend trend, try again later.")
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetSpendTrend() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get spend trend, try again later.")
	}
	return points, nil
}

func (mySql *MySQLStorage) GetTopExpenses(ctx context.Context, userID string, filter finance.InsightsFilter, limit int, offset int) ([]finance.Expense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	where, args := insightsWhere(userID, filter)
	query := "SELECT " + expenseColumns + " FROM expenses" + where + " ORDER BY amount DESC LIMIT ? OFFSET ?;"
	args = append(args, limit, offset)

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get top expenses in Storage.GetTopExpenses() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get top expenses, try again later.")
	}
	return mySql.processExpenseRows(ctx, rows)
}
