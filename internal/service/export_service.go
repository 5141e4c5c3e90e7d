package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/util"
	"github.com/sikaops/sika-backend/internal/websocket"
)

var csvHeaders = []string{"Date", "Type", "Description", "Category", "Amount (FCFA)", "Payment Method", "Notes"}

// ExportService renders transactions as CSV files and printable statements
// and imports CSV files back.
type ExportService struct {
	transactionRepo domain.TransactionRepository
	aggregator      *AggregationService
	eventPublisher  websocket.EventPublisher

	now func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(transactionRepo domain.TransactionRepository, aggregator *AggregationService) *ExportService {
	return &ExportService{
		transactionRepo: transactionRepo,
		aggregator:      aggregator,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExportService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ExportService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// ExportCSV renders the owner's transactions, narrowed by filter, as a CSV
// document. The header row is bare; every data cell is quoted, with inner
// quotes doubled, so descriptions and notes survive commas and newlines.
func (s *ExportService) ExportCSV(ownerID uuid.UUID, filter domain.TransactionFilter) (filename string, content []byte, err error) {
	all, err := s.transactionRepo.GetByOwner(ownerID)
	if err != nil {
		return "", nil, err
	}
	txs := s.aggregator.ApplyFilters(all, filter)

	var b strings.Builder
	b.WriteString(strings.Join(csvHeaders, ","))
	for _, t := range txs {
		notes := ""
		if t.Notes != nil {
			notes = *t.Notes
		}
		row := []string{
			t.Date.Format("01/02/2006"),
			string(t.Kind),
			t.Description,
			t.Category,
			t.Amount.String(),
			t.PaymentMethod,
			notes,
		}
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}

	filename = fmt.Sprintf("transactions_%s.csv", s.now().UTC().Format("2006-01-02"))
	return filename, []byte(b.String()), nil
}

var statementTmpl = template.Must(template.New("statement").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>Transactions Report</title>
    <style>
      body { font-family: Arial, sans-serif; padding: 20px; }
      h1 { color: #10b981; }
      table { width: 100%; border-collapse: collapse; margin-top: 20px; }
      th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
      th { background-color: #10b981; color: white; }
      tr:nth-child(even) { background-color: #f2f2f2; }
      .total { font-weight: bold; margin-top: 20px; }
      @media print { body { margin: 0; } }
    </style>
  </head>
  <body>
    <h1>Transactions Report</h1>
    <p>Generated: {{.Generated}}</p>
    <table>
      <thead>
        <tr>
          <th>Date</th>
          <th>Type</th>
          <th>Description</th>
          <th>Category</th>
          <th>Amount</th>
          <th>Payment Method</th>
        </tr>
      </thead>
      <tbody>
{{range .Rows}}        <tr>
          <td>{{.Date}}</td>
          <td>{{.Kind}}</td>
          <td>{{.Description}}</td>
          <td>{{.Category}}</td>
          <td>{{.Amount}}</td>
          <td>{{.PaymentMethod}}</td>
        </tr>
{{end}}      </tbody>
    </table>
    <div class="total">
      <p>Total Income: {{.TotalIncome}}</p>
      <p>Total Expenses: {{.TotalExpenses}}</p>
      <p>Net Balance: {{.Balance}}</p>
    </div>
  </body>
</html>
`))

type statementRow struct {
	Date          string
	Kind          string
	Description   string
	Category      string
	Amount        string
	PaymentMethod string
}

type statementData struct {
	Generated     string
	Rows          []statementRow
	TotalIncome   string
	TotalExpenses string
	Balance       string
}

// ExportStatement renders the owner's transactions, narrowed by filter, as
// a self-contained printable HTML page with period totals.
func (s *ExportService) ExportStatement(ownerID uuid.UUID, filter domain.TransactionFilter) ([]byte, error) {
	all, err := s.transactionRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	txs := s.aggregator.ApplyFilters(all, filter)
	totals := s.aggregator.ComputeTotals(txs)

	data := statementData{
		Generated:     s.now().UTC().Format("Jan 2, 2006 15:04"),
		TotalIncome:   util.FormatAmount(totals.TotalIncome),
		TotalExpenses: util.FormatAmount(totals.TotalExpenses),
		Balance:       util.FormatAmount(totals.Balance),
	}
	for _, t := range txs {
		method := t.PaymentMethod
		if method == "" {
			method = "-"
		}
		data.Rows = append(data.Rows, statementRow{
			Date:          t.Date.Format("Jan 2, 2006"),
			Kind:          string(t.Kind),
			Description:   t.Description,
			Category:      t.Category,
			Amount:        util.FormatAmount(t.Amount),
			PaymentMethod: method,
		})
	}

	var buf bytes.Buffer
	if err := statementTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImportCSV reads transactions from a CSV document and stores them for the
// owner. Rows are forgiving: a missing or unknown kind falls back to
// Expense, category to Other, payment method to Cash, an unparseable
// amount to zero and a bad date to today. Returns the number of imported
// rows.
func (s *ExportService) ImportCSV(ownerID uuid.UUID, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return 0, nil
	}

	// Header names are matched case-insensitively with spaces collapsed,
	// so both "Payment Method" and "paymentmethod" resolve.
	cols := make(map[string]int)
	for i, h := range records[0] {
		cols[normalizeHeader(h)] = i
	}

	field := func(row []string, names ...string) string {
		for _, n := range names {
			if i, ok := cols[n]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	var txs []*domain.Transaction
	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}

		kind := domain.TransactionKind(field(row, "type"))
		if !domain.ValidKind(kind) {
			kind = domain.KindExpense
		}

		category := field(row, "category")
		if !domain.ValidCategory(kind, category) {
			category = domain.DefaultCategory
		}

		method := field(row, "payment_method", "paymentmethod")
		if !domain.ValidPaymentMethod(method) {
			method = domain.DefaultPaymentMethod
		}

		amount, err := decimal.NewFromString(field(row, "amount_(fcfa)", "amount"))
		if err != nil {
			amount = decimal.Zero
		}

		date := s.now().UTC()
		if parsed, ok := parseImportDate(field(row, "date")); ok {
			date = parsed
		}

		var notes *string
		if n := field(row, "notes"); n != "" {
			notes = &n
		}

		txs = append(txs, &domain.Transaction{
			OwnerID:       ownerID,
			Date:          domain.NormalizeDate(date),
			Kind:          kind,
			Description:   field(row, "description"),
			Category:      category,
			Amount:        amount,
			PaymentMethod: method,
			Notes:         notes,
		})
	}

	if len(txs) == 0 {
		return 0, nil
	}
	if err := s.transactionRepo.CreateBatch(txs); err != nil {
		return 0, err
	}

	s.publishEvent(ownerID, websocket.TransactionsImported(map[string]interface{}{"count": len(txs)}))
	return len(txs), nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

func parseImportDate(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"01/02/2006", "2006-01-02", "1/2/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
