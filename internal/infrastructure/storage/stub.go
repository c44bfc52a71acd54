package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
)

var _ catalogapp.ObjectStorageService = (*StubImageStorage)(nil)

// StubImageStorage is used when object storage is disabled.
// Upload URLs point at BaseURL and every key is reported as present, so the
// upload and confirm flow can be exercised locally without a bucket.
type StubImageStorage struct {
	// BaseURL prefixes generated upload URLs
	BaseURL string

	mu      sync.Mutex
	deleted map[string]struct{}
}

// NewStubImageStorage creates a new StubImageStorage
func NewStubImageStorage(baseURL string) *StubImageStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/solar-images"
	}
	return &StubImageStorage{
		BaseURL: baseURL,
		deleted: make(map[string]struct{}),
	}
}

// GenerateUploadURL returns an unsigned URL under BaseURL
func (s *StubImageStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{}
	q.Set("content_type", contentType)
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return s.BaseURL + "/" + storageKey + "?" + q.Encode(), expiresAt, nil
}

// StatObject reports every key as an existing zero-length object unless it was deleted
func (s *StubImageStorage) StatObject(_ context.Context, storageKey string) (catalogapp.ObjectInfo, bool, error) {
	if storageKey == "" {
		return catalogapp.ObjectInfo{}, false, errEmptyKey
	}
	s.mu.Lock()
	_, gone := s.deleted[storageKey]
	s.mu.Unlock()
	return catalogapp.ObjectInfo{}, !gone, nil
}

// DeleteObject records the key as deleted
func (s *StubImageStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	s.deleted[storageKey] = struct{}{}
	s.mu.Unlock()
	return nil
}
