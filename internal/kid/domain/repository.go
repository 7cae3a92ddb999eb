package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, kid *Kid) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Kid, error)
	// FindByIDForUpdate locks the kid row for the remainder of the enclosing
	// transaction. Callers must be inside db.Transaction.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Kid, error)
	List(ctx context.Context, db *gorm.DB) ([]*Kid, error)
	// AdjustMoons applies a signed delta atomically and returns the new
	// balance. The update is conditional on the result staying non-negative;
	// a no-op on an existing kid means insufficient funds. now stamps
	// updated_at so callers with an injected clock stay consistent.
	AdjustMoons(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int, now time.Time) (int, error)
	SetTier(ctx context.Context, tx *gorm.DB, id snowflake.ID, tier int, designStudio bool, now time.Time) error
	SetAvatar(ctx context.Context, db *gorm.DB, id snowflake.ID, avatarID string, now time.Time) error
}
