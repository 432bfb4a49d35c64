package store

import (
	"context"
	"path"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 🧪 Memory is an in-memory Store for tests
type Memory struct {
	mu     sync.RWMutex
	files  map[string][]byte
	writes []string

	// WriteErrors makes WriteFile fail for the given paths
	WriteErrors map[string]error

	// Unavailable makes every call fail with ErrUnavailable
	Unavailable bool
}

// 🏭 NewMemory creates a store holding a copy of files
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: make(map[string][]byte, len(files))}
	for p, content := range files {
		m.files[path.Clean(p)] = []byte(content)
	}
	return m
}

func (m *Memory) ReadFile(ctx context.Context, p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Unavailable {
		return nil, errors.WithStack(ErrUnavailable)
	}
	content, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrNotFound, p)
	}
	return append([]byte(nil), content...), nil
}

func (m *Memory) WriteFile(ctx context.Context, p string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Unavailable {
		return errors.WithStack(ErrUnavailable)
	}
	if err, ok := m.WriteErrors[path.Clean(p)]; ok {
		return errors.Errorf("writing file: %w", err)
	}
	m.files[path.Clean(p)] = append([]byte(nil), content...)
	m.writes = append(m.writes, path.Clean(p))
	return nil
}

func (m *Memory) FileExists(ctx context.Context, p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Unavailable {
		return false, errors.WithStack(ErrUnavailable)
	}
	_, ok := m.files[path.Clean(p)]
	return ok, nil
}

// Content returns the current content of p, or "" if it does not exist
func (m *Memory) Content(p string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return string(m.files[path.Clean(p)])
}

// Writes returns every path written, in order
func (m *Memory) Writes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.writes...)
}
