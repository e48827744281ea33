package cartstore

import (
	"context"
	"sync"

	"github.com/Kariqs/farmers-market-api/models"
)

// MemoryStore is a process-local Store for single-instance deployments.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]models.CartLine
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]models.CartLine)}
}

func (s *MemoryStore) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.carts[sessionID]), nil
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, line models.CartLine) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = append(s.carts[sessionID], line)
	return clone(s.carts[sessionID]), nil
}

func (s *MemoryStore) RemoveAt(ctx context.Context, sessionID string, index int) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := removeAt(s.carts[sessionID], index)
	if err != nil {
		return nil, err
	}
	s.carts[sessionID] = lines
	return clone(lines), nil
}

func (s *MemoryStore) Remove(ctx context.Context, sessionID, lineID string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := removeID(s.carts[sessionID], lineID)
	if err != nil {
		return nil, err
	}
	s.carts[sessionID] = lines
	return clone(lines), nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *MemoryStore) Take(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := clone(s.carts[sessionID])
	delete(s.carts, sessionID)
	return lines, nil
}

func (s *MemoryStore) Restore(ctx context.Context, sessionID string, lines []models.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = append(clone(lines), s.carts[sessionID]...)
	return nil
}

func clone(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}
