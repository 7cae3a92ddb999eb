package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, assignment *Assignment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Assignment, error)
	// ListByKid returns up to limit+1 rows older than beforeID (0 means from
	// the newest), newest first. The extra row signals another page.
	ListByKid(ctx context.Context, db *gorm.DB, kidID, beforeID snowflake.ID, limit int) ([]*Assignment, error)
	// MarkCompleted flips an assigned row to completed. Returns false when the
	// row was already completed or does not exist.
	MarkCompleted(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)
}
