package accounts

import (
	"context"
	"sync"

	"github.com/metalex84/loginkeeper/internal/models"
)

const backendMemory = "memory"

// InMemoryRepository keeps accounts in process memory. Stored records are
// cloned on the way in and out, so callers never alias repository state.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Account
	byName  map[string]string
	byEmail map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*models.Account),
		byName:  make(map[string]string),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, queryError(backendMemory, "find_by_username", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, notFoundError(backendMemory, username)
	}
	return r.byID[id].Clone(), nil
}

func (r *InMemoryRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, queryError(backendMemory, "exists_by_username", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[username]
	return ok, nil
}

func (r *InMemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, queryError(backendMemory, "exists_by_email", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, queryError(backendMemory, "insert", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[a.Username]; ok {
		return nil, duplicateError(backendMemory, a.Username, ConstraintUsername)
	}
	if _, ok := r.byEmail[a.Email]; ok {
		return nil, duplicateError(backendMemory, a.Username, ConstraintEmail)
	}

	a.ID = ensureID(a.ID)
	r.byID[a.ID] = a.Clone()
	r.byName[a.Username] = a.ID
	r.byEmail[a.Email] = a.ID

	return a, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, a *models.Account) error {
	if err := ctx.Err(); err != nil {
		return queryError(backendMemory, "save", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[a.ID]
	if !ok {
		return notFoundError(backendMemory, a.Username)
	}
	if owner, ok := r.byEmail[a.Email]; ok && owner != a.ID {
		return duplicateError(backendMemory, a.Username, ConstraintEmail)
	}

	delete(r.byEmail, stored.Email)
	r.byEmail[a.Email] = a.ID

	updated := stored.Clone()
	updated.Email = a.Email
	updated.PasswordHash = a.PasswordHash
	updated.Active = a.Active
	if a.LastAccessAt != nil {
		t := *a.LastAccessAt
		updated.LastAccessAt = &t
	} else {
		updated.LastAccessAt = nil
	}
	r.byID[a.ID] = updated

	return nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, queryError(backendMemory, "count", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.byID)), nil
}
