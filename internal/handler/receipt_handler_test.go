package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/service"
	"github.com/sikaops/sika-backend/internal/testutil"
)

func newReceiptFixture(t *testing.T) (*ReceiptHandler, uuid.UUID, uuid.UUID) {
	t.Helper()
	txRepo := testutil.NewMockTransactionRepository()
	receiptRepo := testutil.NewMockReceiptRepository()
	store := testutil.NewMockReceiptStorage()
	svc := service.NewReceiptService(txRepo, receiptRepo, store)

	ownerID := uuid.New()
	tx := &domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(time.Now().UTC()),
		Kind:          domain.KindExpense,
		Description:   "Lunch",
		Category:      "Food",
		Amount:        decimal.NewFromInt(5000),
		PaymentMethod: "Cash",
	}
	if _, err := txRepo.Create(tx); err != nil {
		t.Fatalf("seed transaction failed: %v", err)
	}
	return NewReceiptHandler(svc), ownerID, tx.ID
}

func receiptJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func receiptUploadRequest(t *testing.T, data []byte, filename string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/x/receipt", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestUploadReceiptHTTP(t *testing.T) {
	e := echo.New()
	handler, ownerID, transactionID := newReceiptFixture(t)

	req, rec := receiptUploadRequest(t, receiptJPEG(t), "receipt.jpg")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(transactionID.String())
	setupUserContext(c, ownerID)

	err := handler.UploadReceipt(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ReceiptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.ID == "" || response.ThumbnailURL == "" || response.DisplayURL == "" || response.OriginalURL == "" {
		t.Errorf("Expected populated receipt response, got %+v", response)
	}
}

func TestUploadReceiptHTTP_TransactionNotFound(t *testing.T) {
	e := echo.New()
	handler, ownerID, _ := newReceiptFixture(t)

	req, rec := receiptUploadRequest(t, receiptJPEG(t), "receipt.jpg")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	setupUserContext(c, ownerID)

	err := handler.UploadReceipt(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUploadReceiptHTTP_InvalidFormat(t *testing.T) {
	e := echo.New()
	handler, ownerID, transactionID := newReceiptFixture(t)

	req, rec := receiptUploadRequest(t, receiptJPEG(t), "receipt.gif")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(transactionID.String())
	setupUserContext(c, ownerID)

	err := handler.UploadReceipt(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUploadReceiptHTTP_MissingFile(t *testing.T) {
	e := echo.New()
	handler, ownerID, transactionID := newReceiptFixture(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/x/receipt", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(transactionID.String())
	setupUserContext(c, ownerID)

	err := handler.UploadReceipt(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetReceiptHTTP_NotFound(t *testing.T) {
	e := echo.New()
	handler, ownerID, transactionID := newReceiptFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/x/receipt", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(transactionID.String())
	setupUserContext(c, ownerID)

	err := handler.GetReceipt(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestReceiptHTTP_StorageDisabled(t *testing.T) {
	e := echo.New()
	txRepo := testutil.NewMockTransactionRepository()
	receiptRepo := testutil.NewMockReceiptRepository()
	handler := NewReceiptHandler(service.NewReceiptService(txRepo, receiptRepo, nil))

	req, rec := receiptUploadRequest(t, receiptJPEG(t), "receipt.jpg")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	setupUserContext(c, uuid.New())

	err := handler.UploadReceipt(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}

func TestDeleteReceiptHTTP_NoContent(t *testing.T) {
	e := echo.New()
	handler, ownerID, transactionID := newReceiptFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/x/receipt", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(transactionID.String())
	setupUserContext(c, ownerID)

	err := handler.DeleteReceipt(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}
