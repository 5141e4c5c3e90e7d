package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/repository/storage"
	"github.com/sikaops/sika-backend/internal/websocket"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	DisplayWidth     = 800
	JPEGQuality      = 85

	presignExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptMetadata carries presigned URLs for each stored variant.
type ReceiptMetadata struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService attaches receipt images to transactions: it validates and
// resizes uploads, stores the variants in object storage and their paths in
// the database.
type ReceiptService struct {
	transactionRepo domain.TransactionRepository
	receiptRepo     domain.ReceiptRepository
	storage         storage.ReceiptStorage
	eventPublisher  websocket.EventPublisher
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(transactionRepo domain.TransactionRepository, receiptRepo domain.ReceiptRepository, storage storage.ReceiptStorage) *ReceiptService {
	return &ReceiptService{
		transactionRepo: transactionRepo,
		receiptRepo:     receiptRepo,
		storage:         storage,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReceiptService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ReceiptService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// UploadReceipt validates and resizes the image, uploads thumb, display
// and original variants and records them against the transaction. Any
// previous receipt for the transaction is replaced.
func (s *ReceiptService) UploadReceipt(ctx context.Context, ownerID, transactionID uuid.UUID, data []byte, filename string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	if _, err := s.transactionRepo.GetByID(ownerID, transactionID); err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	// Replace any existing receipt, removing its stored objects first.
	if existing, err := s.receiptRepo.GetByTransaction(ownerID, transactionID); err == nil {
		s.deleteObjects(ctx, existing)
	}

	receiptID := uuid.New()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 means keep original size
	}

	paths := make(map[string]string)
	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := fmt.Sprintf("%s/receipts/%s/%s_%s.jpg", ownerID, transactionID, receiptID, variant.name)

		path, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanupPaths(ctx, paths)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		paths[variant.name] = path
	}

	receipt, err := s.receiptRepo.Upsert(&domain.Receipt{
		ID:            receiptID,
		OwnerID:       ownerID,
		TransactionID: transactionID,
		ThumbPath:     paths["thumb"],
		DisplayPath:   paths["display"],
		OriginalPath:  paths["original"],
	})
	if err != nil {
		s.cleanupPaths(ctx, paths)
		return nil, err
	}

	s.publishEvent(ownerID, websocket.ReceiptCreated(map[string]interface{}{
		"id":             receipt.ID,
		"transaction_id": transactionID,
	}))

	return s.metadata(ctx, receipt)
}

// GetReceipt returns the transaction's receipt with fresh presigned URLs.
func (s *ReceiptService) GetReceipt(ctx context.Context, ownerID, transactionID uuid.UUID) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}
	receipt, err := s.receiptRepo.GetByTransaction(ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	return s.metadata(ctx, receipt)
}

// DeleteReceipt removes the transaction's receipt and its stored objects.
// Deleting a missing receipt is not an error.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, ownerID, transactionID uuid.UUID) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotConfigured
	}

	receipt, err := s.receiptRepo.GetByTransaction(ownerID, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	s.deleteObjects(ctx, receipt)
	err = s.receiptRepo.Delete(ownerID, transactionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.ReceiptDeleted(map[string]interface{}{
		"id":             receipt.ID,
		"transaction_id": transactionID,
	}))
	return nil
}

func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

func (s *ReceiptService) metadata(ctx context.Context, receipt *domain.Receipt) (*ReceiptMetadata, error) {
	thumb, err := s.storage.GeneratePresignedURL(ctx, receipt.ThumbPath, presignExpiry)
	if err != nil {
		return nil, err
	}
	display, err := s.storage.GeneratePresignedURL(ctx, receipt.DisplayPath, presignExpiry)
	if err != nil {
		return nil, err
	}
	original, err := s.storage.GeneratePresignedURL(ctx, receipt.OriginalPath, presignExpiry)
	if err != nil {
		return nil, err
	}
	return &ReceiptMetadata{
		ID:           receipt.ID.String(),
		ThumbnailURL: thumb,
		DisplayURL:   display,
		OriginalURL:  original,
	}, nil
}

// cleanupPaths removes variants uploaded during a failed operation, best
// effort.
func (s *ReceiptService) cleanupPaths(ctx context.Context, paths map[string]string) {
	for _, path := range paths {
		_ = s.storage.Delete(ctx, path)
	}
}

func (s *ReceiptService) deleteObjects(ctx context.Context, receipt *domain.Receipt) {
	for _, path := range []string{receipt.ThumbPath, receipt.DisplayPath, receipt.OriginalPath} {
		if path != "" {
			_ = s.storage.Delete(ctx, path)
		}
	}
}
