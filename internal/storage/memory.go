package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process memory. Presigned URLs use the
// memory:// scheme and are only meaningful to tests.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string]MemoryObject
}

type MemoryObject struct {
	ContentType string
	Body        []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]MemoryObject)}
}

func (s *MemoryStorage) PutObject(_ context.Context, objectKey string, contentType string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = MemoryObject{ContentType: contentType, Body: append([]byte(nil), body...)}
	return nil
}

func (s *MemoryStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, expires time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectKey]; !ok {
		return "", fmt.Errorf("object %s does not exist", objectKey)
	}
	return fmt.Sprintf("memory://%s?expires=%d", objectKey, int(expires.Seconds())), nil
}

func (s *MemoryStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	return nil
}

// Object returns a stored object.
func (s *MemoryStorage) Object(objectKey string) (MemoryObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[objectKey]
	return o, ok
}

var _ FileStorage = (*MemoryStorage)(nil)
