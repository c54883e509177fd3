package storage

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// Memory is an in-process TokenStorage. It does not survive a restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	key    string
}

var _ TokenStorage = (*Memory)(nil)

// NewMemory creates an empty in-memory token slot.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		key:    TokenKey,
	}
}

func (m *Memory) Get(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.values[m.key]
	if !ok {
		return "", apperrors.Wrapf(apperrors.ErrNotFound, "memory %s", m.key)
	}
	return token, nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[m.key] = token
	return nil
}

func (m *Memory) Remove(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, m.key)
	return nil
}
