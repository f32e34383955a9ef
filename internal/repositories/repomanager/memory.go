package repomanager

import (
	"context"
	"sync"

	"github.com/metalex84/loginkeeper/internal/repositories/accounts"
)

// InMemoryRepositoryManager serialises sessions over a single
// accounts.InMemoryRepository. It has no rollback: work done before fn
// fails stays applied.
type InMemoryRepositoryManager struct {
	mu   sync.Mutex
	repo *accounts.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{repo: accounts.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) WithAccounts(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.repo)
}

func (m *InMemoryRepositoryManager) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
