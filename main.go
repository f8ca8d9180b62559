package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aydinemil/finance-tracker/api"
	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/finance"
	"github.com/aydinemil/finance-tracker/internal/mailer"
	"github.com/aydinemil/finance-tracker/internal/storage"
	"github.com/aydinemil/finance-tracker/logging"
	"github.com/0xcafe-io/iz"
	"github.com/rs/cors"
)

var tracker finance.Tracker // Global

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type"},
	AllowCredentials: true,
})

func tokenConfigFromEnv() (auth.TokenConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return auth.TokenConfig{}, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	accessTTL := 15 * time.Minute
	if raw := os.Getenv("ACCESS_TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return auth.TokenConfig{}, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %v", err)
		}
		accessTTL = parsed
	}

	refreshTTL := 168 * time.Hour
	if raw := os.Getenv("REFRESH_TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return auth.TokenConfig{}, fmt.Errorf("invalid REFRESH_TOKEN_TTL: %v", err)
		}
		refreshTTL = parsed
	}

	return auth.TokenConfig{
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Issuer:     "finance-tracker",
	}, nil
}

func main() {
	if err := logging.Init("debug"); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return
	}

	logging.Logger.Info("application starting...")

	db, err := storage.Init()
	if err != nil {
		logging.Logger.Errorf("failed to initialize database: %v", err)
		return
	}

	storageInstance := storage.NewMySQLStorage(db)

	tokenConfig, err := tokenConfigFromEnv()
	if err != nil {
		logging.Logger.Errorf("failed to load token configuration: %v", err)
		return
	}
	tokens := auth.NewTokenManager(tokenConfig)

	smtpMailer, err := mailer.NewSMTPMailerFromEnv()
	if err != nil {
		logging.Logger.Errorf("failed to configure mailer: %v", err)
		return
	}

	tracker = finance.NewTracker(storageInstance, tokens, smtpMailer)

	server := http.NewServeMux()
	api := api.NewApi(&tracker)

	// AUTH ENDPOINTS.
	server.HandleFunc("POST /auth/register", iz.Bind(api.RegisterHandler))              // Create account
	server.HandleFunc("POST /auth/login", iz.Bind(api.LoginHandler))                    // Login
	server.HandleFunc("POST /auth/refresh", iz.Bind(api.RefreshHandler))                // Refresh access token
	server.HandleFunc("POST /auth/forgot-password", iz.Bind(api.ForgotPasswordHandler)) // Request password reset
	server.HandleFunc("POST /auth/reset-password", iz.Bind(api.ResetPasswordHandler))   // Reset password with token + OTP

	// USER ENDPOINTS.
	server.HandleFunc("GET /users/{id}", iz.Bind(api.Authenticated(api.GetUserHandler)))    // Get own profile
	server.HandleFunc("PUT /users/{id}", iz.Bind(api.Authenticated(api.UpdateUserHandler))) // Update own profile

	// EXPENSE ENDPOINTS.
	server.HandleFunc("POST /expenses", iz.Bind(api.Authenticated(api.SaveExpenseHandler)))          // Create expense
	server.HandleFunc("GET /expenses", iz.Bind(api.Authenticated(api.GetFilteredExpensesHandler)))   // Get expenses with filters
	server.HandleFunc("GET /expenses/{id}", iz.Bind(api.Authenticated(api.GetExpenseByIdHandler)))   // Get expense by ID
	server.HandleFunc("PUT /expenses/{id}", iz.Bind(api.Authenticated(api.UpdateExpenseHandler)))    // Update expense
	server.HandleFunc("DELETE /expenses/{id}", iz.Bind(api.Authenticated(api.DeleteExpenseHandler))) // Delete expense

	// BUDGET ENDPOINTS.
	server.HandleFunc("POST /budget", iz.Bind(api.Authenticated(api.SaveBudgetHandler)))          // Create budget
	server.HandleFunc("GET /budget", iz.Bind(api.Authenticated(api.GetBudgetsHandler)))           // Get budgets
	server.HandleFunc("GET /budget/{id}", iz.Bind(api.Authenticated(api.GetBudgetByIdHandler)))   // Get budget by ID
	server.HandleFunc("PUT /budget/{id}", iz.Bind(api.Authenticated(api.UpdateBudgetHandler)))    // Update budget
	server.HandleFunc("DELETE /budget/{id}", iz.Bind(api.Authenticated(api.DeleteBudgetHandler))) // Delete budget

	// BUDGET ITEM ENDPOINTS.
	server.HandleFunc("POST /budget-item", iz.Bind(api.Authenticated(api.SaveBudgetItemHandler)))            // Create budget item
	server.HandleFunc("GET /budget-item/{budgetId}", iz.Bind(api.Authenticated(api.GetBudgetItemsHandler)))  // Get items of a budget
	server.HandleFunc("PUT /budget-item/{id}", iz.Bind(api.Authenticated(api.UpdateBudgetItemHandler)))      // Update budget item
	server.HandleFunc("DELETE /budget-item/{id}", iz.Bind(api.Authenticated(api.DeleteBudgetItemHandler)))   // Delete budget item

	// SAVINGS ENDPOINTS.
	server.HandleFunc("POST /savings", iz.Bind(api.Authenticated(api.SaveSavingsHandler)))                              // Create savings record
	server.HandleFunc("GET /savings", iz.Bind(api.Authenticated(api.GetSavingsListHandler)))                            // Get savings records
	server.HandleFunc("GET /savings/{id}", iz.Bind(api.Authenticated(api.GetSavingsByIdHandler)))                       // Get savings record by ID
	server.HandleFunc("PUT /savings/{id}", iz.Bind(api.Authenticated(api.UpdateSavingsHandler)))                        // Update savings record
	server.HandleFunc("DELETE /savings/{id}", iz.Bind(api.Authenticated(api.DeleteSavingsHandler)))                     // Delete savings record
	server.HandleFunc("POST /savings/{id}/items", iz.Bind(api.Authenticated(api.SaveSavingsItemHandler)))               // Add contribution
	server.HandleFunc("DELETE /savings/{id}/items/{itemId}", iz.Bind(api.Authenticated(api.DeleteSavingsItemHandler)))  // Remove contribution

	// CATEGORY ENDPOINTS.
	server.HandleFunc("POST /categories", iz.Bind(api.Authenticated(api.SaveCategoryHandler)))          // Create category
	server.HandleFunc("GET /categories", iz.Bind(api.Authenticated(api.GetCategoriesHandler)))          // Get categories
	server.HandleFunc("PUT /categories/{id}", iz.Bind(api.Authenticated(api.UpdateCategoryHandler)))    // Update category
	server.HandleFunc("DELETE /categories/{id}", iz.Bind(api.Authenticated(api.DeleteCategoryHandler))) // Delete category

	// CURRENCY ENDPOINTS.
	server.HandleFunc("GET /currencies", iz.Bind(api.Authenticated(api.GetCurrenciesHandler))) // Get supported currencies

	// INSIGHTS ENDPOINTS.
	server.HandleFunc("GET /insights/total-spend", iz.Bind(api.Authenticated(api.GetTotalSpendHandler)))            // Total spend for a range
	server.HandleFunc("GET /insights/spend-by-category", iz.Bind(api.Authenticated(api.GetSpendByCategoryHandler))) // Spend grouped by category
	server.HandleFunc("GET /insights/trend", iz.Bind(api.Authenticated(api.GetSpendTrendHandler)))                  // Daily or monthly spend trend
	server.HandleFunc("GET /insights/top-expenses", iz.Bind(api.Authenticated(api.GetTopExpensesHandler)))          // Largest expenses for a range

	port := os.Getenv("APP_PORT")
	if port == "" {
		logging.Logger.Info("APP_PORT environment variable not set, using default port 8080")
		port = "8080"
	}
	fmt.Println("Starting server on port: ", port)
	handlerWithCors := corsConf.Handler(server)
	err = http.ListenAndServe(":"+port, handlerWithCors) // Start the server
	if err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
}
