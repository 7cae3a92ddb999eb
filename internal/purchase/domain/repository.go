package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository inserts rely on the unique indexes for duplicate detection;
// callers map duplicate-key errors to AlreadyOwned.
type Repository interface {
	InsertAvatarItem(ctx context.Context, db *gorm.DB, row *KidAvatarItem) error
	InsertAvatar(ctx context.Context, db *gorm.DB, row *KidAvatar) error
	InsertWorldPack(ctx context.Context, db *gorm.DB, row *KidWorldPack) error

	ListAvatarItems(ctx context.Context, db *gorm.DB, kidID snowflake.ID) ([]*KidAvatarItem, error)
	ListAvatars(ctx context.Context, db *gorm.DB, kidID snowflake.ID) ([]*KidAvatar, error)
	ListWorldPacks(ctx context.Context, db *gorm.DB, kidID snowflake.ID) ([]*KidWorldPack, error)
}
