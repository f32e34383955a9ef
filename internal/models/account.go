// Package models defines the persisted data models.
package models

import "time"

// Column limits of the accounts table.
const (
	MaxUsernameLength     = 30
	MaxEmailLength        = 100
	MaxPasswordHashLength = 255
)

// Account is a persisted identity record. It is created only by
// registration; afterwards only LastAccessAt, PasswordHash (rehash on
// sign-in) and Active change.
type Account struct {
	ID           string     `db:"id" gorm:"type:uuid;primaryKey"`
	Username     string     `db:"username" gorm:"size:30;not null;uniqueIndex:accounts_username_key"`
	Email        string     `db:"email" gorm:"size:100;not null;uniqueIndex:accounts_email_key"`
	PasswordHash string     `db:"password_hash" gorm:"size:255;not null"`
	CreatedAt    time.Time  `db:"created_at" gorm:"not null"`
	LastAccessAt *time.Time `db:"last_access_at"`
	Active       bool       `db:"active" gorm:"not null"`
}

// TableName pins the GORM table name to the one used by the SQL migrations.
func (Account) TableName() string {
	return "accounts"
}

// Clone returns a deep copy of a.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.LastAccessAt != nil {
		t := *a.LastAccessAt
		c.LastAccessAt = &t
	}
	return &c
}
