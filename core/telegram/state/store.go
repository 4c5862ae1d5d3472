package state

import "sync"

// Store keeps one value per chat.
type Store[T any] interface {
	Get(chatID int64) (T, bool)
	Put(chatID int64, v T)
	Remove(chatID int64)
}

type memoryStore[T any] struct {
	mu     sync.RWMutex
	values map[int64]T
}

// NewMemoryStore returns a process-local Store. Values are lost on restart.
func NewMemoryStore[T any]() Store[T] {
	return &memoryStore[T]{values: make(map[int64]T)}
}

func (s *memoryStore[T]) Get(chatID int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[chatID]
	return v, ok
}

func (s *memoryStore[T]) Put(chatID int64, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[chatID] = v
}

func (s *memoryStore[T]) Remove(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, chatID)
}
