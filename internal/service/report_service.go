package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/util"
)

// ReportService assembles report payloads from stored transactions.
type ReportService struct {
	transactionRepo domain.TransactionRepository
	aggregator      *AggregationService
}

// NewReportService creates a new ReportService
func NewReportService(transactionRepo domain.TransactionRepository, aggregator *AggregationService) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		aggregator:      aggregator,
	}
}

// SummaryReport is the dashboard payload for one month.
type SummaryReport struct {
	Summary domain.Summary      `json:"summary"`
	Weeks   []domain.WeekBucket `json:"weeks"`
}

// MonthlyReport breaks one month down by expense category.
type MonthlyReport struct {
	Summary    domain.Summary          `json:"summary"`
	Categories []domain.CategoryBucket `json:"categories"`
}

// YearlyReport covers a full year, month by month.
type YearlyReport struct {
	Summary    domain.Summary          `json:"summary"`
	Months     []domain.MonthBucket    `json:"months"`
	Categories []domain.CategoryBucket `json:"categories"`
}

// GetSummary builds the month dashboard: period totals, average daily
// expense and the weekly income-vs-expense bars.
func (s *ReportService) GetSummary(ownerID uuid.UUID, year int, month time.Month) (*SummaryReport, error) {
	txs, start, end, err := s.monthTransactions(ownerID, year, month)
	if err != nil {
		return nil, err
	}
	return &SummaryReport{
		Summary: s.aggregator.ComputeSummary(txs, start, end),
		Weeks:   s.aggregator.BucketByWeek(txs, start),
	}, nil
}

// GetMonthlyReport builds the monthly report with its expense category
// breakdown.
func (s *ReportService) GetMonthlyReport(ownerID uuid.UUID, year int, month time.Month) (*MonthlyReport, error) {
	txs, start, end, err := s.monthTransactions(ownerID, year, month)
	if err != nil {
		return nil, err
	}
	return &MonthlyReport{
		Summary:    s.aggregator.ComputeSummary(txs, start, end),
		Categories: s.aggregator.BucketByCategory(txs, domain.KindExpense, 0),
	}, nil
}

// GetYearlyReport builds the yearly report: totals, twelve month buckets
// and the expense category breakdown.
func (s *ReportService) GetYearlyReport(ownerID uuid.UUID, year int) (*YearlyReport, error) {
	all, err := s.transactionRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := util.EndOfYear(start)
	txs := s.aggregator.ApplyFilters(all, domain.TransactionFilter{StartDate: &start, EndDate: &end})

	return &YearlyReport{
		Summary:    s.aggregator.ComputeTotals(txs),
		Months:     s.aggregator.BucketByMonth(txs, year),
		Categories: s.aggregator.BucketByCategory(txs, domain.KindExpense, 0),
	}, nil
}

func (s *ReportService) monthTransactions(ownerID uuid.UUID, year int, month time.Month) ([]*domain.Transaction, time.Time, time.Time, error) {
	all, err := s.transactionRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := util.EndOfMonth(start)
	txs := s.aggregator.ApplyFilters(all, domain.TransactionFilter{StartDate: &start, EndDate: &end})
	return txs, start, end, nil
}
