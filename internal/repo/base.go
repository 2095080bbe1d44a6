package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the GORM handle shared by the domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase wraps a GORM connection for embedding in a repository.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns a session bound to ctx, or the raw connection when ctx is nil.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
