package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/util"
)

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// AggregationService computes report figures from in-memory transaction
// slices. It holds no storage dependencies; the clock is injectable for
// tests.
type AggregationService struct {
	now func() time.Time
}

func NewAggregationService() *AggregationService {
	return &AggregationService{now: time.Now}
}

// ApplyFilters returns the transactions matching every set field of the
// filter. Date bounds are inclusive; EndDate is widened to the last instant
// of its day so a transaction dated on the end date itself still matches.
// The input slice is not modified.
func (s *AggregationService) ApplyFilters(txs []*domain.Transaction, filter domain.TransactionFilter) []*domain.Transaction {
	var endDate time.Time
	if filter.EndDate != nil {
		endDate = util.EndOfDay(*filter.EndDate)
	}

	out := make([]*domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if filter.Kind != nil && t.Kind != *filter.Kind {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Date.After(endDate) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ComputeTotals sums income and expenses and their balance. The daily
// average is left at zero; it only makes sense at month granularity.
func (s *AggregationService) ComputeTotals(txs []*domain.Transaction) domain.Summary {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txs {
		switch t.Kind {
		case domain.KindIncome:
			income = income.Add(t.Amount)
		case domain.KindExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return domain.Summary{
		TotalIncome:         income,
		TotalExpenses:       expenses,
		Balance:             income.Sub(expenses),
		AverageDailyExpense: decimal.Zero,
	}
}

// ComputeSummary totals the given transactions for the period
// [periodStart, periodEnd]. AverageDailyExpense divides total expenses by
// the calendar days elapsed from periodStart, clamped to the period end and
// never below one day.
func (s *AggregationService) ComputeSummary(txs []*domain.Transaction, periodStart, periodEnd time.Time) domain.Summary {
	summary := s.ComputeTotals(txs)

	ref := s.now()
	if ref.After(periodEnd) {
		ref = periodEnd
	}
	days := util.DaysPassed(periodStart, ref)
	summary.AverageDailyExpense = summary.TotalExpenses.Div(decimal.NewFromInt(int64(days)))
	return summary
}

// BucketByWeek splits one month's transactions into week bars. Weeks start
// on Sunday; the first week may begin in the previous month, but only
// transactions dated inside monthRef's month count toward any bucket. A
// bucket is emitted when it has activity or its week has already started.
// Labels number the emitted buckets sequentially. The result is never
// empty.
func (s *AggregationService) BucketByWeek(txs []*domain.Transaction, monthRef time.Time) []domain.WeekBucket {
	monthStart := util.StartOfMonth(monthRef)
	monthEnd := util.EndOfMonth(monthRef)
	now := s.now()

	var buckets []domain.WeekBucket
	for weekStart := util.StartOfWeek(monthStart); !weekStart.After(monthEnd); weekStart = weekStart.AddDate(0, 0, 7) {
		weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Millisecond)

		income := decimal.Zero
		expense := decimal.Zero
		for _, t := range txs {
			if t.Date.Before(weekStart) || t.Date.After(weekEnd) {
				continue
			}
			if t.Date.Month() != monthStart.Month() || t.Date.Year() != monthStart.Year() {
				continue
			}
			switch t.Kind {
			case domain.KindIncome:
				income = income.Add(t.Amount)
			case domain.KindExpense:
				expense = expense.Add(t.Amount)
			}
		}

		if income.IsPositive() || expense.IsPositive() || !weekStart.After(now) {
			buckets = append(buckets, domain.WeekBucket{
				Label:   fmt.Sprintf("Week %d", len(buckets)+1),
				Income:  income,
				Expense: expense,
			})
		}
	}

	if len(buckets) == 0 {
		buckets = []domain.WeekBucket{{Label: "Week 1", Income: decimal.Zero, Expense: decimal.Zero}}
	}
	return buckets
}

// BucketByCategory totals transactions of the given kind per category,
// largest first. Ties keep the order categories were first encountered in
// the input. A positive topN truncates the result; topN <= 0 keeps every
// category.
func (s *AggregationService) BucketByCategory(txs []*domain.Transaction, kind domain.TransactionKind, topN int) []domain.CategoryBucket {
	index := make(map[string]int)
	var buckets []domain.CategoryBucket
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		i, seen := index[t.Category]
		if !seen {
			i = len(buckets)
			index[t.Category] = i
			buckets = append(buckets, domain.CategoryBucket{Category: t.Category, Total: decimal.Zero})
		}
		buckets[i].Total = buckets[i].Total.Add(t.Amount)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Total.GreaterThan(buckets[j].Total)
	})
	if topN > 0 && len(buckets) > topN {
		buckets = buckets[:topN]
	}
	return buckets
}

// BucketByMonth splits one year's transactions into twelve month bars,
// January through December, including empty months.
func (s *AggregationService) BucketByMonth(txs []*domain.Transaction, year int) []domain.MonthBucket {
	buckets := make([]domain.MonthBucket, 12)
	for i := range buckets {
		buckets[i] = domain.MonthBucket{
			Label:   monthLabels[i],
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}
	for _, t := range txs {
		if t.Date.Year() != year {
			continue
		}
		i := int(t.Date.Month()) - 1
		switch t.Kind {
		case domain.KindIncome:
			buckets[i].Income = buckets[i].Income.Add(t.Amount)
		case domain.KindExpense:
			buckets[i].Expense = buckets[i].Expense.Add(t.Amount)
		}
	}
	return buckets
}
