package catalog

import (
	"context"
	"sync/atomic"
)

// Repository is the read-only record store consumed by search.
// Implementations return a consistent snapshot per call.
type Repository interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Memory is an in-process Repository. Replace swaps the snapshot atomically,
// so readers never observe a half-applied reload.
type Memory struct {
	current atomic.Pointer[Snapshot]
}

var _ Repository = (*Memory)(nil)

// NewMemory creates a store serving s.
func NewMemory(s *Snapshot) *Memory {
	m := &Memory{}
	if s == nil {
		s = NewSnapshot()
	}
	m.current.Store(s)
	return m
}

// Snapshot returns the current snapshot.
func (m *Memory) Snapshot(_ context.Context) (*Snapshot, error) {
	return m.current.Load(), nil
}

// Replace installs next and returns the snapshot it replaced.
func (m *Memory) Replace(next *Snapshot) *Snapshot {
	return m.current.Swap(next)
}
