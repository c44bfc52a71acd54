package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/catalog"
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllowedImageContentTypes lists the content types accepted for product images.
// SVG is excluded because it can carry scripts.
var AllowedImageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectStorageService defines the object storage operations used for product images.
// It is implemented by the infrastructure layer (S3, MinIO, RustFS).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// StatObject returns the stored object's metadata; exists is false when it is missing
	StatObject(ctx context.Context, storageKey string) (info ObjectInfo, exists bool, err error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// ProductImageServiceConfig holds configuration for the image service
type ProductImageServiceConfig struct {
	// UploadURLExpiry is the lifetime of presigned upload URLs
	UploadURLExpiry time.Duration
	// PublicBaseURL is prefixed to storage keys to build public image URLs
	PublicBaseURL string
	// MaxImageSize is the largest accepted image in bytes; zero disables the check
	MaxImageSize int64
}

// ProductImageService manages the single image attached to a product
type ProductImageService struct {
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	cache       RecommendationCache
	config      ProductImageServiceConfig
	logger      *zap.Logger
}

// NewProductImageService creates a new ProductImageService
func NewProductImageService(
	productRepo catalog.ProductRepository,
	storage ObjectStorageService,
	cache RecommendationCache,
	config ProductImageServiceConfig,
) *ProductImageService {
	if config.UploadURLExpiry <= 0 {
		config.UploadURLExpiry = 15 * time.Minute
	}
	return &ProductImageService{
		productRepo: productRepo,
		storage:     storage,
		cache:       cache,
		config:      config,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *ProductImageService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// RequestUploadURL returns a presigned PUT URL for a new image of the product
func (s *ProductImageService) RequestUploadURL(ctx context.Context, productID uuid.UUID, req ImageUploadURLRequest) (*ImageUploadURLResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := AllowedImageContentTypes[contentType]
	if !ok {
		return nil, shared.NewValidationError(
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: image/jpeg, image/png, image/webp, image/gif", req.ContentType))
	}

	storageKey := s.storageKey(productID, req.FileName, ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.String("storage_key", storageKey), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &ImageUploadURLResponse{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload verifies the uploaded object and makes it the product image.
// The previous image object, if any, is deleted.
func (s *ProductImageService) ConfirmUpload(ctx context.Context, productID uuid.UUID, req ConfirmImageRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(req.StorageKey, s.keyPrefix(productID)) {
		return nil, shared.NewValidationError("Storage key does not belong to this product")
	}

	info, exists, err := s.storage.StatObject(ctx, req.StorageKey)
	if err != nil {
		s.logger.Error("Failed to verify uploaded image", zap.String("storage_key", req.StorageKey), zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "File not found in storage. Please upload the file first.")
	}
	if s.config.MaxImageSize > 0 && info.Size > s.config.MaxImageSize {
		if err := s.storage.DeleteObject(ctx, req.StorageKey); err != nil {
			s.logger.Warn("Failed to delete oversized image", zap.String("storage_key", req.StorageKey), zap.Error(err))
		}
		return nil, shared.NewValidationError(
			fmt.Sprintf("Image exceeds the maximum size of %d bytes", s.config.MaxImageSize))
	}
	if info.ContentType != "" {
		mediaType, _, _ := strings.Cut(info.ContentType, ";")
		if _, ok := AllowedImageContentTypes[strings.ToLower(strings.TrimSpace(mediaType))]; !ok {
			return nil, shared.NewValidationError("Uploaded object is not an allowed image type")
		}
	}

	oldKey := product.ImageKey
	product.SetImage(req.StorageKey, s.publicURL(req.StorageKey))
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if oldKey != "" && oldKey != req.StorageKey {
		if err := s.storage.DeleteObject(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete previous product image",
				zap.String("storage_key", oldKey), zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Recommendation cache invalidation failed", zap.Error(err))
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductImageService) keyPrefix(productID uuid.UUID) string {
	return fmt.Sprintf("products/%s/", productID)
}

// storageKey builds products/{product_id}/{uuid}_{sanitized_name}{ext}
func (s *ProductImageService) storageKey(productID uuid.UUID, fileName, ext string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = sanitizeFileName(base)
	if base == "" {
		base = "image"
	}
	return s.keyPrefix(productID) + uuid.New().String() + "_" + base + ext
}

func (s *ProductImageService) publicURL(storageKey string) string {
	base := strings.TrimRight(s.config.PublicBaseURL, "/")
	if base == "" {
		return "/" + storageKey
	}
	return base + "/" + storageKey
}

func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
		if b.Len() >= 100 {
			break
		}
	}
	return b.String()
}
