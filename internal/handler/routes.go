package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sikaops/sika-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	callbackAuth *middleware.AuthMiddleware,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	transactionHandler *TransactionHandler,
	budgetHandler *BudgetHandler,
	debtHandler *DebtHandler,
	noteHandler *NoteHandler,
	todoHandler *TodoHandler,
	reportHandler *ReportHandler,
	exportHandler *ExportHandler,
	receiptHandler *ReceiptHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes validate the token only; the callback runs before the
	// user row exists, so no user resolution happens here.
	auth := api.Group("/auth")
	auth.Use(callbackAuth.Authenticate())
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// Transaction routes (protected, rate limited)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.Use(middleware.RateLimitMiddleware(rateLimiter))
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/categories", transactionHandler.GetCategories)
	transactions.GET("/export/csv", exportHandler.ExportCSV)
	transactions.GET("/export/statement", exportHandler.ExportStatement)
	transactions.POST("/import/csv", exportHandler.ImportCSV)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/receipt", receiptHandler.UploadReceipt)
	transactions.GET("/:id/receipt", receiptHandler.GetReceipt)
	transactions.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)

	// Budget routes (protected, rate limited)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate())
	budgets.Use(middleware.RateLimitMiddleware(rateLimiter))
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Debt routes (protected, rate limited)
	debts := api.Group("/debts")
	debts.Use(authMiddleware.Authenticate())
	debts.Use(middleware.RateLimitMiddleware(rateLimiter))
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.GetDebts)
	debts.GET("/:id", debtHandler.GetDebt)
	debts.PUT("/:id", debtHandler.UpdateDebt)
	debts.DELETE("/:id", debtHandler.DeleteDebt)
	debts.POST("/:id/payments", debtHandler.AddPayment)

	// Note routes (protected, rate limited)
	notes := api.Group("/notes")
	notes.Use(authMiddleware.Authenticate())
	notes.Use(middleware.RateLimitMiddleware(rateLimiter))
	notes.POST("", noteHandler.CreateNote)
	notes.GET("", noteHandler.GetNotes)
	notes.DELETE("/:id", noteHandler.DeleteNote)

	// Todo routes (protected, rate limited)
	todos := api.Group("/todos")
	todos.Use(authMiddleware.Authenticate())
	todos.Use(middleware.RateLimitMiddleware(rateLimiter))
	todos.POST("", todoHandler.CreateTodo)
	todos.GET("", todoHandler.GetTodos)
	todos.PATCH("/:id/toggle", todoHandler.ToggleTodo)
	todos.DELETE("/:id", todoHandler.DeleteTodo)

	// Report routes (protected, rate limited)
	reports := api.Group("/reports")
	reports.Use(authMiddleware.Authenticate())
	reports.Use(middleware.RateLimitMiddleware(rateLimiter))
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/monthly", reportHandler.GetMonthlyReport)
	reports.GET("/yearly", reportHandler.GetYearlyReport)

	// WebSocket endpoint (token validated via query parameter)
	e.GET("/ws", wsHandler.HandleWS)
}
