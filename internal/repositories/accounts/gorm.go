package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/metalex84/loginkeeper/internal/models"
)

const backendGORM = "gorm"

// GormRepository stores accounts through GORM (PostgreSQL dialector).
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var a models.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		// never hand back a zero-value account on error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(backendGORM, username)
		}
		return nil, queryError(backendGORM, "find_by_username", err)
	}
	return &a, nil
}

func (r *GormRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.countWhere(ctx, "username = ?", username)
	if err != nil {
		return false, queryError(backendGORM, "exists_by_username", err)
	}
	return n > 0, nil
}

func (r *GormRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.countWhere(ctx, "email = ?", email)
	if err != nil {
		return false, queryError(backendGORM, "exists_by_email", err)
	}
	return n > 0, nil
}

func (r *GormRepository) Insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	a.ID = ensureID(a.ID)

	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if constraint, ok := gormUniqueViolation(err); ok {
			return nil, duplicateError(backendGORM, a.Username, constraint)
		}
		return nil, queryError(backendGORM, "insert", err)
	}
	return a, nil
}

func (r *GormRepository) Save(ctx context.Context, a *models.Account) error {
	// map form so that zero values (Active=false, nil LastAccessAt) are written
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"email":          a.Email,
			"password_hash":  a.PasswordHash,
			"last_access_at": a.LastAccessAt,
			"active":         a.Active,
		})
	if res.Error != nil {
		if constraint, ok := gormUniqueViolation(res.Error); ok {
			return duplicateError(backendGORM, a.Username, constraint)
		}
		return queryError(backendGORM, "save", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError(backendGORM, a.Username)
	}
	return nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&n).Error; err != nil {
		return 0, queryError(backendGORM, "count", err)
	}
	return n, nil
}

func (r *GormRepository) countWhere(ctx context.Context, cond string, arg any) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where(cond, arg).Count(&n).Error
	return n, err
}

func gormUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
