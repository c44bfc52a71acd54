package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type imageServiceFixture struct {
	repo    *MockProductRepository
	storage *MockObjectStorage
	cache   *MockRecommendationCache
	service *ProductImageService
}

func newImageServiceFixture() *imageServiceFixture {
	f := &imageServiceFixture{
		repo:    new(MockProductRepository),
		storage: new(MockObjectStorage),
		cache:   new(MockRecommendationCache),
	}
	f.service = NewProductImageService(f.repo, f.storage, f.cache, ProductImageServiceConfig{
		UploadURLExpiry: 10 * time.Minute,
		PublicBaseURL:   "https://cdn.example.com/solar-images/",
		MaxImageSize:    1 << 20,
	})
	return f
}

func TestProductImageService_RequestUploadURL(t *testing.T) {
	f := newImageServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")
	expires := time.Now().Add(10 * time.Minute)

	f.repo.On("FindByID", ctx, product.ID).Return(product, nil)
	f.storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/png", 10*time.Minute).
		Return("https://s3.example.com/upload?sig=abc", expires, nil)

	result, err := f.service.RequestUploadURL(ctx, product.ID, ImageUploadURLRequest{
		FileName:    "../front view.PNG",
		ContentType: "IMAGE/PNG",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/upload?sig=abc", result.UploadURL)
	assert.Equal(t, expires, result.ExpiresAt)
	assert.True(t, strings.HasPrefix(result.StorageKey, "products/"+product.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(result.StorageKey, "_front_view.png"))
	assert.NotContains(t, result.StorageKey, "..")
}

func TestProductImageService_RequestUploadURL_RejectsContentType(t *testing.T) {
	for _, contentType := range []string{"image/svg+xml", "application/pdf", ""} {
		t.Run(contentType, func(t *testing.T) {
			f := newImageServiceFixture()
			ctx := context.Background()
			product := newTestProduct("Panel", "4500")
			f.repo.On("FindByID", ctx, product.ID).Return(product, nil)

			_, err := f.service.RequestUploadURL(ctx, product.ID, ImageUploadURLRequest{FileName: "x", ContentType: contentType})

			assert.True(t, shared.IsValidationError(err))
			f.storage.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestProductImageService_RequestUploadURL_ProductNotFound(t *testing.T) {
	f := newImageServiceFixture()
	ctx := context.Background()
	id := uuid.New()
	f.repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.RequestUploadURL(ctx, id, ImageUploadURLRequest{FileName: "a.jpg", ContentType: "image/jpeg"})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductImageService_ConfirmUpload_ReplacesOldImage(t *testing.T) {
	f := newImageServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")
	oldKey := "products/" + product.ID.String() + "/old.png"
	newKey := "products/" + product.ID.String() + "/new.png"
	product.SetImage(oldKey, "https://cdn.example.com/solar-images/"+oldKey)

	f.repo.On("FindByID", ctx, product.ID).Return(product, nil)
	f.storage.On("StatObject", ctx, newKey).Return(ObjectInfo{Size: 2048, ContentType: "image/png"}, true, nil)
	f.repo.On("Save", ctx, product).Return(nil)
	f.storage.On("DeleteObject", ctx, oldKey).Return(errors.New("access denied"))
	f.cache.On("Invalidate", ctx).Return(nil)

	result, err := f.service.ConfirmUpload(ctx, product.ID, ConfirmImageRequest{StorageKey: newKey})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/solar-images/"+newKey, result.ImageURL)
	assert.Equal(t, newKey, product.ImageKey)
	f.storage.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestProductImageService_ConfirmUpload_ObjectMissing(t *testing.T) {
	f := newImageServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")
	key := "products/" + product.ID.String() + "/new.png"

	f.repo.On("FindByID", ctx, product.ID).Return(product, nil)
	f.storage.On("StatObject", ctx, key).Return(ObjectInfo{}, false, nil)

	_, err := f.service.ConfirmUpload(ctx, product.ID, ConfirmImageRequest{StorageKey: key})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_NOT_FOUND", domainErr.Code)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductImageService_ConfirmUpload_ForeignKey(t *testing.T) {
	f := newImageServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")
	f.repo.On("FindByID", ctx, product.ID).Return(product, nil)

	_, err := f.service.ConfirmUpload(ctx, product.ID, ConfirmImageRequest{
		StorageKey: "products/" + uuid.New().String() + "/new.png",
	})

	assert.True(t, shared.IsValidationError(err))
	f.storage.AssertNotCalled(t, "StatObject", mock.Anything, mock.Anything)
}

func TestProductImageService_ConfirmUpload_Oversized(t *testing.T) {
	f := newImageServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")
	key := "products/" + product.ID.String() + "/huge.png"

	f.repo.On("FindByID", ctx, product.ID).Return(product, nil)
	f.storage.On("StatObject", ctx, key).Return(ObjectInfo{Size: 2 << 20, ContentType: "image/png"}, true, nil)
	f.storage.On("DeleteObject", ctx, key).Return(nil)

	_, err := f.service.ConfirmUpload(ctx, product.ID, ConfirmImageRequest{StorageKey: key})

	assert.True(t, shared.IsValidationError(err))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.storage.AssertExpectations(t)
}

func TestProductImageService_ConfirmUpload_WrongContentType(t *testing.T) {
	f := newImageServiceFixture()
	ctx := context.Background()
	product := newTestProduct("Panel", "4500")
	key := "products/" + product.ID.String() + "/script.png"

	f.repo.On("FindByID", ctx, product.ID).Return(product, nil)
	f.storage.On("StatObject", ctx, key).Return(ObjectInfo{Size: 10, ContentType: "text/html"}, true, nil)

	_, err := f.service.ConfirmUpload(ctx, product.ID, ConfirmImageRequest{StorageKey: key})

	assert.True(t, shared.IsValidationError(err))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
