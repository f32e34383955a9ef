package repomanager

import (
	"context"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"github.com/metalex84/loginkeeper/internal/models"
	"github.com/metalex84/loginkeeper/internal/repositories/accounts"
)

// GormRepositoryManager serves the GORM backend. Schema is managed with
// AutoMigrate instead of goose.
type GormRepositoryManager struct {
	db *gorm.DB
}

func NewGormRepositoryManager(db *gorm.DB) *GormRepositoryManager {
	return &GormRepositoryManager{db: db}
}

func (m *GormRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&models.Account{}); err != nil {
		return oops.Code("MIGRATION_FAILED").With("backend", "gorm").Wrap(err)
	}
	return nil
}

func (m *GormRepositoryManager) WithAccounts(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, accounts.NewGormRepository(tx))
	})
}

func (m *GormRepositoryManager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (m *GormRepositoryManager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
