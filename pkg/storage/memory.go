package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/absmach/fledger/pkg/errors"
)

type memory struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewInMemoryStorage() Storage {
	return &memory{
		data: make(map[string]any),
	}
}

func (s *memory) Create(_ context.Context, key string, value any) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		return errors.ErrEntityExists
	}
	s.data[key] = value

	return nil
}

func (s *memory) Get(_ context.Context, key string) (any, error) {
	if key == "" {
		return nil, errors.ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, errors.ErrNotFound
	}

	return val, nil
}

func (s *memory) Update(_ context.Context, key string, value any) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return errors.ErrNotFound
	}
	s.data[key] = value

	return nil
}

func (s *memory) List(_ context.Context, offset, limit uint64) ([]any, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Keys are sorted so pagination is stable across calls.
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := uint64(len(keys))
	if offset >= total {
		return nil, total, nil
	}

	end := min(offset+limit, total)
	page := make([]any, 0, end-offset)
	for _, k := range keys[offset:end] {
		page = append(page, s.data[k])
	}

	return page, total, nil
}

func (s *memory) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}
