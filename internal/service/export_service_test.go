package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/testutil"
)

func TestExportCSV_Format(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewExportService(repo, NewAggregationService())
	svc.now = fixedClock(day(2025, time.March, 15))

	ownerID := uuid.New()
	notes := `said "thanks"`
	repo.Create(&domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(day(2025, time.March, 5)),
		Kind:          domain.KindExpense,
		Description:   "Lunch, with team",
		Category:      "Food",
		Amount:        decimal.NewFromInt(12500),
		PaymentMethod: "Cash",
		Notes:         &notes,
	})

	filename, content, err := svc.ExportCSV(ownerID, domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if filename != "transactions_2025-03-15.csv" {
		t.Errorf("filename = %q", filename)
	}

	lines := strings.Split(string(content), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	// Header row is bare, data cells are quoted
	if lines[0] != "Date,Type,Description,Category,Amount (FCFA),Payment Method,Notes" {
		t.Errorf("header = %q", lines[0])
	}
	want := `"03/05/2025","Expense","Lunch, with team","Food","12500","Cash","said ""thanks"""`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestExportCSV_EmptyAndFiltered(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewExportService(repo, NewAggregationService())
	svc.now = fixedClock(day(2025, time.March, 15))

	ownerID := uuid.New()

	_, content, err := svc.ExportCSV(ownerID, domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Header only, no trailing newline
	if string(content) != "Date,Type,Description,Category,Amount (FCFA),Payment Method,Notes" {
		t.Errorf("empty export = %q", content)
	}

	repo.Create(&domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(day(2025, time.March, 5)),
		Kind:          domain.KindIncome,
		Description:   "Pay",
		Category:      "Salary",
		Amount:        decimal.NewFromInt(100000),
		PaymentMethod: "Bank Transfer",
	})
	repo.Create(&domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(day(2025, time.March, 6)),
		Kind:          domain.KindExpense,
		Description:   "Bus",
		Category:      "Transport",
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: "Cash",
	})

	kind := domain.KindExpense
	_, content, err = svc.ExportCSV(ownerID, domain.TransactionFilter{Kind: &kind})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(string(content), "Pay") {
		t.Error("filtered export should not contain income rows")
	}
	if !strings.Contains(string(content), "Bus") {
		t.Error("filtered export missing expense row")
	}
}

func TestExportStatement_Totals(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewExportService(repo, NewAggregationService())
	svc.now = fixedClock(day(2025, time.March, 15))

	ownerID := uuid.New()
	repo.Create(&domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(day(2025, time.March, 1)),
		Kind:          domain.KindIncome,
		Description:   "Pay",
		Category:      "Salary",
		Amount:        decimal.NewFromInt(1234567),
		PaymentMethod: "Bank Transfer",
	})
	repo.Create(&domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(day(2025, time.March, 2)),
		Kind:          domain.KindExpense,
		Description:   "Market",
		Category:      "Food",
		Amount:        decimal.NewFromInt(34567),
		PaymentMethod: "Cash",
	})

	html, err := svc.ExportStatement(ownerID, domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	page := string(html)
	for _, want := range []string{
		"<title>Transactions Report</title>",
		"#10b981",
		"Total Income: 1 234 567 FCFA",
		"Total Expenses: 34 567 FCFA",
		"Net Balance: 1 200 000 FCFA",
		"<td>Mar 1, 2025</td>",
		"<td>Market</td>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("statement missing %q", want)
		}
	}
}

func TestImportCSV_RoundTrip(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewExportService(repo, NewAggregationService())
	svc.now = fixedClock(day(2025, time.March, 15))

	csvData := `Date,Type,Description,Category,Amount (FCFA),Payment Method,Notes
"03/05/2025","Expense","Lunch","Food","12500","Cash","team lunch"
"03/06/2025","Income","Pay","Salary","100000","Bank Transfer",""`

	ownerID := uuid.New()
	count, err := svc.ImportCSV(ownerID, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 2 {
		t.Errorf("imported = %d, want 2", count)
	}

	txs, _ := repo.GetByOwner(ownerID)
	if len(txs) != 2 {
		t.Fatalf("stored = %d", len(txs))
	}
	// Newest first: the income row from Mar 6
	if txs[0].Kind != domain.KindIncome || !txs[0].Amount.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("first = %+v", txs[0])
	}
	if txs[1].Notes == nil || *txs[1].Notes != "team lunch" {
		t.Errorf("notes = %v", txs[1].Notes)
	}
	if txs[1].Date.Hour() != 12 {
		t.Errorf("date not normalized: %v", txs[1].Date)
	}
}

func TestImportCSV_ForgivingDefaults(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewExportService(repo, NewAggregationService())
	svc.now = fixedClock(day(2025, time.March, 15))

	// Bad kind, bad category, bad method, bad amount, bad date
	csvData := `Date,Type,Description,Category,Amount (FCFA),Payment Method,Notes
"not-a-date","Transfer","Mystery","Gadgets","abc","Barter",""`

	ownerID := uuid.New()
	count, err := svc.ImportCSV(ownerID, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 {
		t.Fatalf("imported = %d, want 1", count)
	}

	txs, _ := repo.GetByOwner(ownerID)
	got := txs[0]
	if got.Kind != domain.KindExpense {
		t.Errorf("kind = %q, want Expense fallback", got.Kind)
	}
	if got.Category != domain.DefaultCategory {
		t.Errorf("category = %q, want %q", got.Category, domain.DefaultCategory)
	}
	if got.PaymentMethod != domain.DefaultPaymentMethod {
		t.Errorf("method = %q, want %q", got.PaymentMethod, domain.DefaultPaymentMethod)
	}
	if !got.Amount.IsZero() {
		t.Errorf("amount = %s, want 0", got.Amount)
	}
	if !got.Date.Equal(domain.NormalizeDate(day(2025, time.March, 15))) {
		t.Errorf("date = %v, want today fallback", got.Date)
	}
}

func TestImportCSV_HeaderNormalization(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewExportService(repo, NewAggregationService())
	svc.now = fixedClock(day(2025, time.March, 15))

	// Lowercase headers without the FCFA suffix still resolve
	csvData := `date,type,description,category,amount,paymentmethod
2025-03-05,Expense,Lunch,Food,12500,Cash`

	ownerID := uuid.New()
	count, err := svc.ImportCSV(ownerID, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 {
		t.Fatalf("imported = %d, want 1", count)
	}

	txs, _ := repo.GetByOwner(ownerID)
	if !txs[0].Amount.Equal(decimal.NewFromInt(12500)) {
		t.Errorf("amount = %s", txs[0].Amount)
	}
	if !txs[0].Date.Equal(domain.NormalizeDate(day(2025, time.March, 5))) {
		t.Errorf("date = %v", txs[0].Date)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewExportService(repo, NewAggregationService())

	count, err := svc.ImportCSV(uuid.New(), strings.NewReader("Date,Type\n"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 0 {
		t.Errorf("imported = %d, want 0", count)
	}
}

func TestImportCSV_PublishesEvent(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewExportService(repo, NewAggregationService())
	svc.now = fixedClock(day(2025, time.March, 15))
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)

	csvData := `Date,Type,Description,Category,Amount (FCFA),Payment Method,Notes
"03/05/2025","Expense","Lunch","Food","12500","Cash",""`

	if _, err := svc.ImportCSV(uuid.New(), strings.NewReader(csvData)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "transaction.imported" {
		t.Errorf("events = %v, want [transaction.imported]", types)
	}
}
