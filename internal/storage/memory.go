package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryDocument struct {
	content    []byte
	modifiedAt time.Time
}

// MemoryStorage implements Storage in process memory
type MemoryStorage struct {
	mu   sync.RWMutex
	docs map[string]memoryDocument
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{docs: make(map[string]memoryDocument)}
}

func (s *MemoryStorage) Put(ctx context.Context, key string, content []byte) error {
	stored := make([]byte, len(content))
	copy(stored, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = memoryDocument{content: stored, modifiedAt: time.Now()}
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	out := make([]byte, len(doc.content))
	copy(out, doc.content)
	return out, nil
}

func (s *MemoryStorage) GetInfo(ctx context.Context, key string) (*DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return &DocumentInfo{
		Key:        key,
		Size:       int64(len(doc.content)),
		Checksum:   ComputeChecksum(doc.content),
		ModifiedAt: doc.modifiedAt,
	}, nil
}

func (s *MemoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[key]
	return ok, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

func (s *MemoryStorage) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := []string{}
	for key := range s.docs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
