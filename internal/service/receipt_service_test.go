package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/testutil"
)

// createTestImage creates a test image of the specified size and format
func createTestImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	var filename string

	switch format {
	case "png":
		png.Encode(&buf, img)
		filename = "receipt.png"
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		filename = "receipt.jpg"
	}

	return buf.Bytes(), filename
}

func newReceiptFixture(t *testing.T) (*ReceiptService, *testutil.MockTransactionRepository, *testutil.MockReceiptRepository, *testutil.MockReceiptStorage, uuid.UUID, uuid.UUID) {
	t.Helper()

	transactionRepo := testutil.NewMockTransactionRepository()
	receiptRepo := testutil.NewMockReceiptRepository()
	store := testutil.NewMockReceiptStorage()
	svc := NewReceiptService(transactionRepo, receiptRepo, store)

	ownerID := uuid.New()
	created, err := transactionRepo.Create(&domain.Transaction{
		OwnerID:       ownerID,
		Date:          domain.NormalizeDate(day(2025, 3, 10)),
		Kind:          domain.KindExpense,
		Description:   "Groceries",
		Category:      "Food",
		Amount:        decimal.RequireFromString("12500"),
		PaymentMethod: "Cash",
	})
	if err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}

	return svc, transactionRepo, receiptRepo, store, ownerID, created.ID
}

func TestUploadReceipt_Success(t *testing.T) {
	svc, _, receiptRepo, store, ownerID, transactionID := newReceiptFixture(t)

	data, filename := createTestImage(1000, 600, "jpeg")

	metadata, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, filename)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if metadata.ID == "" {
		t.Error("expected receipt ID to be set")
	}
	if metadata.ThumbnailURL == "" || metadata.DisplayURL == "" || metadata.OriginalURL == "" {
		t.Error("expected presigned URLs for all variants")
	}

	// Three variants should land in object storage
	if len(store.Objects) != 3 {
		t.Errorf("expected 3 stored objects, got %d", len(store.Objects))
	}

	if _, err := receiptRepo.GetByTransaction(ownerID, transactionID); err != nil {
		t.Errorf("expected receipt record, got %v", err)
	}
}

func TestUploadReceipt_ReplacesExisting(t *testing.T) {
	svc, _, receiptRepo, store, ownerID, transactionID := newReceiptFixture(t)

	data, filename := createTestImage(400, 400, "png")

	first, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, filename)
	if err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	second, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, filename)
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("expected a new receipt ID after replacement")
	}

	// Old variants removed, only the replacement's three objects remain
	if len(store.Objects) != 3 {
		t.Errorf("expected 3 stored objects after replacement, got %d", len(store.Objects))
	}

	receipt, err := receiptRepo.GetByTransaction(ownerID, transactionID)
	if err != nil {
		t.Fatalf("expected receipt record, got %v", err)
	}
	if receipt.ID.String() != second.ID {
		t.Errorf("expected stored receipt %s, got %s", second.ID, receipt.ID)
	}
}

func TestUploadReceipt_TransactionNotFound(t *testing.T) {
	svc, _, _, _, ownerID, _ := newReceiptFixture(t)

	data, filename := createTestImage(100, 100, "jpeg")

	_, err := svc.UploadReceipt(context.Background(), ownerID, uuid.New(), data, filename)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestUploadReceipt_OwnerIsolation(t *testing.T) {
	svc, _, _, _, _, transactionID := newReceiptFixture(t)

	data, filename := createTestImage(100, 100, "jpeg")

	_, err := svc.UploadReceipt(context.Background(), uuid.New(), transactionID, data, filename)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound for foreign owner, got %v", err)
	}
}

func TestUploadReceipt_TooLarge(t *testing.T) {
	svc, _, _, _, ownerID, transactionID := newReceiptFixture(t)

	data := make([]byte, MaxReceiptSize+1)

	_, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, "receipt.jpg")
	if !errors.Is(err, ErrReceiptTooLarge) {
		t.Errorf("expected ErrReceiptTooLarge, got %v", err)
	}
}

func TestUploadReceipt_InvalidFormat(t *testing.T) {
	svc, _, _, _, ownerID, transactionID := newReceiptFixture(t)

	data, _ := createTestImage(100, 100, "jpeg")

	_, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, "receipt.gif")
	if !errors.Is(err, ErrInvalidReceiptFormat) {
		t.Errorf("expected ErrInvalidReceiptFormat, got %v", err)
	}
}

func TestUploadReceipt_TooSmall(t *testing.T) {
	svc, _, _, _, ownerID, transactionID := newReceiptFixture(t)

	data, filename := createTestImage(30, 30, "jpeg")

	_, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, filename)
	if !errors.Is(err, ErrReceiptTooSmall) {
		t.Errorf("expected ErrReceiptTooSmall, got %v", err)
	}
}

func TestUploadReceipt_InvalidData(t *testing.T) {
	svc, _, _, _, ownerID, transactionID := newReceiptFixture(t)

	_, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, []byte("not an image"), "receipt.jpg")
	if !errors.Is(err, ErrInvalidReceiptData) {
		t.Errorf("expected ErrInvalidReceiptData, got %v", err)
	}
}

func TestUploadReceipt_PublishesEvent(t *testing.T) {
	svc, _, _, _, ownerID, transactionID := newReceiptFixture(t)
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)

	data, filename := createTestImage(100, 100, "jpeg")

	if _, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, filename); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "receipt.created" {
		t.Errorf("expected [receipt.created], got %v", types)
	}
}

func TestGetReceipt_NotFound(t *testing.T) {
	svc, _, _, _, ownerID, transactionID := newReceiptFixture(t)

	_, err := svc.GetReceipt(context.Background(), ownerID, transactionID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReceipt_FreshURLs(t *testing.T) {
	svc, _, _, _, ownerID, transactionID := newReceiptFixture(t)

	data, filename := createTestImage(100, 100, "jpeg")
	if _, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, filename); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	metadata, err := svc.GetReceipt(context.Background(), ownerID, transactionID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(metadata.ThumbnailURL, "thumb") {
		t.Errorf("expected thumbnail URL to reference thumb variant, got %s", metadata.ThumbnailURL)
	}
}

func TestDeleteReceipt_RemovesObjects(t *testing.T) {
	svc, _, receiptRepo, store, ownerID, transactionID := newReceiptFixture(t)
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)

	data, filename := createTestImage(100, 100, "jpeg")
	if _, err := svc.UploadReceipt(context.Background(), ownerID, transactionID, data, filename); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := svc.DeleteReceipt(context.Background(), ownerID, transactionID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(store.Objects) != 0 {
		t.Errorf("expected no stored objects after delete, got %d", len(store.Objects))
	}
	if _, err := receiptRepo.GetByTransaction(ownerID, transactionID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected receipt record gone, got %v", err)
	}

	types := publisher.EventTypes()
	if len(types) != 2 || types[1] != "receipt.deleted" {
		t.Errorf("expected receipt.deleted event, got %v", types)
	}
}

func TestDeleteReceipt_MissingIsNoop(t *testing.T) {
	svc, _, _, _, ownerID, transactionID := newReceiptFixture(t)

	if err := svc.DeleteReceipt(context.Background(), ownerID, transactionID); err != nil {
		t.Errorf("expected no error deleting missing receipt, got %v", err)
	}
}

func TestReceiptService_DisabledWithoutStorage(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	receiptRepo := testutil.NewMockReceiptRepository()
	svc := NewReceiptService(transactionRepo, receiptRepo, nil)

	if svc.IsEnabled() {
		t.Error("expected service to be disabled without storage")
	}

	_, err := svc.UploadReceipt(context.Background(), uuid.New(), uuid.New(), nil, "receipt.jpg")
	if !errors.Is(err, ErrReceiptStorageNotConfigured) {
		t.Errorf("expected ErrReceiptStorageNotConfigured, got %v", err)
	}
}
