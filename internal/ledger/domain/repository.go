package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert appends one transaction with ON CONFLICT DO NOTHING semantics on
	// the idempotency key. Returns false when the key already exists.
	Insert(ctx context.Context, db *gorm.DB, txn *MoonTransaction) (bool, error)
	ListRecent(ctx context.Context, db *gorm.DB, kidID snowflake.ID, since time.Time, limit int) ([]*MoonTransaction, error)
}
