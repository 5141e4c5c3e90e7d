package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/testutil"
)

func seedTx(repo *testutil.MockTransactionRepository, ownerID uuid.UUID, kind domain.TransactionKind, category, amount string, date time.Time) {
	repo.Create(&domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(date),
		Kind:          kind,
		Description:   "seed",
		Category:      category,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: "Cash",
	})
}

func newReportFixture(clock time.Time) (*ReportService, *testutil.MockTransactionRepository) {
	repo := testutil.NewMockTransactionRepository()
	aggregator := NewAggregationService()
	aggregator.now = fixedClock(clock)
	return NewReportService(repo, aggregator), repo
}

func TestGetSummary(t *testing.T) {
	svc, repo := newReportFixture(day(2025, time.March, 10))
	ownerID := uuid.New()

	seedTx(repo, ownerID, domain.KindIncome, "Salary", "300000", day(2025, time.March, 1))
	seedTx(repo, ownerID, domain.KindExpense, "Food", "50000", day(2025, time.March, 5))
	// Other month: excluded from the summary
	seedTx(repo, ownerID, domain.KindExpense, "Food", "99999", day(2025, time.February, 5))

	report, err := svc.GetSummary(ownerID, 2025, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !report.Summary.TotalIncome.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("income = %s", report.Summary.TotalIncome)
	}
	if !report.Summary.TotalExpenses.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("expenses = %s", report.Summary.TotalExpenses)
	}
	// 50000 over 10 elapsed days
	if !report.Summary.AverageDailyExpense.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("avg daily = %s", report.Summary.AverageDailyExpense)
	}
	if len(report.Weeks) == 0 {
		t.Error("expected week buckets")
	}
}

func TestGetSummary_EmptyMonth(t *testing.T) {
	svc, _ := newReportFixture(day(2025, time.March, 10))

	report, err := svc.GetSummary(uuid.New(), 2025, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !report.Summary.Balance.IsZero() {
		t.Errorf("balance = %s", report.Summary.Balance)
	}
	// The week series never comes back empty
	if len(report.Weeks) == 0 {
		t.Error("expected fallback week bucket")
	}
}

func TestGetMonthlyReport_CategoryBreakdown(t *testing.T) {
	svc, repo := newReportFixture(day(2025, time.March, 31))
	ownerID := uuid.New()

	seedTx(repo, ownerID, domain.KindExpense, "Food", "20000", day(2025, time.March, 1))
	seedTx(repo, ownerID, domain.KindExpense, "Transport", "30000", day(2025, time.March, 2))
	seedTx(repo, ownerID, domain.KindExpense, "Food", "15000", day(2025, time.March, 9))
	seedTx(repo, ownerID, domain.KindIncome, "Salary", "500000", day(2025, time.March, 1))

	report, err := svc.GetMonthlyReport(ownerID, 2025, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Expense categories only, largest first
	if len(report.Categories) != 2 {
		t.Fatalf("categories = %+v", report.Categories)
	}
	if report.Categories[0].Category != "Food" || !report.Categories[0].Total.Equal(decimal.NewFromInt(35000)) {
		t.Errorf("first category = %+v", report.Categories[0])
	}
	if report.Categories[1].Category != "Transport" {
		t.Errorf("second category = %+v", report.Categories[1])
	}
}

func TestGetYearlyReport(t *testing.T) {
	svc, repo := newReportFixture(day(2025, time.December, 31))
	ownerID := uuid.New()

	seedTx(repo, ownerID, domain.KindIncome, "Salary", "100000", day(2025, time.January, 15))
	seedTx(repo, ownerID, domain.KindExpense, "Food", "25000", day(2025, time.January, 20))
	seedTx(repo, ownerID, domain.KindExpense, "Bills", "12000", day(2025, time.November, 2))
	// Other year: excluded entirely
	seedTx(repo, ownerID, domain.KindExpense, "Food", "77777", day(2024, time.June, 1))

	report, err := svc.GetYearlyReport(ownerID, 2025)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !report.Summary.TotalIncome.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("income = %s", report.Summary.TotalIncome)
	}
	if !report.Summary.TotalExpenses.Equal(decimal.NewFromInt(37000)) {
		t.Errorf("expenses = %s", report.Summary.TotalExpenses)
	}
	if len(report.Months) != 12 {
		t.Fatalf("months = %d", len(report.Months))
	}
	if !report.Months[0].Income.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Jan income = %s", report.Months[0].Income)
	}
	if !report.Months[10].Expense.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("Nov expense = %s", report.Months[10].Expense)
	}
	if len(report.Categories) != 2 {
		t.Errorf("categories = %+v", report.Categories)
	}
}

func TestReports_OwnerIsolation(t *testing.T) {
	svc, repo := newReportFixture(day(2025, time.March, 10))

	other := uuid.New()
	seedTx(repo, other, domain.KindIncome, "Salary", "500000", day(2025, time.March, 1))

	report, err := svc.GetSummary(uuid.New(), 2025, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !report.Summary.TotalIncome.IsZero() {
		t.Errorf("foreign income leaked: %s", report.Summary.TotalIncome)
	}
}
