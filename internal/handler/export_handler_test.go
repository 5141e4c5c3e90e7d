package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/service"
	"github.com/sikaops/sika-backend/internal/testutil"
)

func newExportFixture() (*ExportHandler, *testutil.MockTransactionRepository) {
	repo := testutil.NewMockTransactionRepository()
	return NewExportHandler(service.NewExportService(repo, service.NewAggregationService())), repo
}

func TestExportCSVHTTP(t *testing.T) {
	e := echo.New()
	handler, repo := newExportFixture()
	userID := uuid.New()

	repo.Create(&domain.Transaction{
		OwnerID:       userID,
		Date:          domain.NormalizeDate(time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)),
		Kind:          domain.KindExpense,
		Description:   "Lunch",
		Category:      "Food",
		Amount:        decimal.NewFromInt(12500),
		PaymentMethod: "Cash",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/export/csv", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, userID)

	err := handler.ExportCSV(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Expected text/csv content type, got %s", ct)
	}
	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.HasPrefix(disposition, `attachment; filename="transactions_`) {
		t.Errorf("Unexpected content disposition: %s", disposition)
	}
	if !strings.Contains(rec.Body.String(), "Lunch") {
		t.Error("Expected CSV body to contain the transaction")
	}
}

func TestExportCSVHTTP_InvalidFilter(t *testing.T) {
	e := echo.New()
	handler, _ := newExportFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/export/csv?startDate=yesterday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, uuid.New())

	err := handler.ExportCSV(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestExportStatementHTTP(t *testing.T) {
	e := echo.New()
	handler, repo := newExportFixture()
	userID := uuid.New()

	repo.Create(&domain.Transaction{
		OwnerID:       userID,
		Date:          domain.NormalizeDate(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
		Kind:          domain.KindIncome,
		Description:   "Pay",
		Category:      "Salary",
		Amount:        decimal.NewFromInt(100000),
		PaymentMethod: "Bank Transfer",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/export/statement", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, userID)

	err := handler.ExportStatement(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMETextHTML) {
		t.Errorf("Expected HTML content type, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "Total Income") {
		t.Error("Expected statement to contain totals")
	}
}

func TestImportCSVHTTP(t *testing.T) {
	e := echo.New()
	handler, repo := newExportFixture()
	userID := uuid.New()

	csvData := `Date,Type,Description,Category,Amount (FCFA),Payment Method,Notes
"03/05/2025","Expense","Lunch","Food","12500","Cash",""`

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "transactions.csv")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvData)); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import/csv", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, userID)

	if err := handler.ImportCSV(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Imported != 1 {
		t.Errorf("Expected 1 imported row, got %d", response.Imported)
	}

	txs, _ := repo.GetByOwner(userID)
	if len(txs) != 1 {
		t.Errorf("Expected 1 stored transaction, got %d", len(txs))
	}
}

func TestImportCSVHTTP_MissingFile(t *testing.T) {
	e := echo.New()
	handler, _ := newExportFixture()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import/csv", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, uuid.New())

	err := handler.ImportCSV(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
