package store

import (
	"context"
	"sync"
)

// Memory is a process-local Client. It keeps the same last-writer-wins
// semantics as the remote backends.
type Memory struct {
	mu     sync.Mutex
	record Collection
	writes int
}

func NewMemory() *Memory {
	return &Memory{record: Collection{}}
}

func (m *Memory) FetchCollection(ctx context.Context) (Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record.Clone(), nil
}

func (m *Memory) ReplaceCollection(ctx context.Context, c Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = c.Clone()
	m.writes++
	return nil
}

// Writes returns how many replaces have landed.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Check always succeeds; it lets Memory serve as a health checker.
func (m *Memory) Check(context.Context) error { return nil }
