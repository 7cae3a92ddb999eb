package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *JournalEntry) error
	ListByKid(ctx context.Context, db *gorm.DB, kidID snowflake.ID, since time.Time, limit int) ([]*JournalEntry, error)
}
