package domain

import "github.com/shopspring/decimal"

// Summary holds period totals for a transaction set.
// Balance is always TotalIncome - TotalExpenses.
type Summary struct {
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	Balance             decimal.Decimal `json:"balance"`
	AverageDailyExpense decimal.Decimal `json:"averageDailyExpense"`
}

// WeekBucket is one bar of the income-vs-expense weekly chart.
type WeekBucket struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryBucket is one slice of the category breakdown, ordered by Total
// descending.
type CategoryBucket struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthBucket is one month of a yearly report.
type MonthBucket struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}
