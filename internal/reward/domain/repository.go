package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reward *Reward) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Reward, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*Reward, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) (bool, error)

	InsertRedemption(ctx context.Context, db *gorm.DB, redemption *RewardRedemption) error
	ListRedemptions(ctx context.Context, db *gorm.DB, kidID snowflake.ID, limit int) ([]*RewardRedemption, error)
}
