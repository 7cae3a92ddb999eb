package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/reward/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reward *domain.Reward) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO rewards (id, title, description, cost, active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		reward.ID,
		reward.Title,
		reward.Description,
		reward.Cost,
		reward.Active,
		reward.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Reward, error) {
	var reward domain.Reward
	err := db.WithContext(ctx).
		Model(&domain.Reward{}).
		Where("id = ?", id).
		First(&reward).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*domain.Reward, error) {
	query := db.WithContext(ctx).Model(&domain.Reward{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rows []*domain.Reward
	if err := query.Order("created_at asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE rewards SET active = ? WHERE id = ?`,
		active,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) InsertRedemption(ctx context.Context, db *gorm.DB, redemption *domain.RewardRedemption) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reward_redemptions (id, reward_id, kid_id, moons_spent, redeemed_at) VALUES (?, ?, ?, ?, ?)`,
		redemption.ID,
		redemption.RewardID,
		redemption.KidID,
		redemption.MoonsSpent,
		redemption.RedeemedAt,
	).Error
}

func (r *repo) ListRedemptions(ctx context.Context, db *gorm.DB, kidID snowflake.ID, limit int) ([]*domain.RewardRedemption, error) {
	var rows []*domain.RewardRedemption
	err := db.WithContext(ctx).
		Model(&domain.RewardRedemption{}).
		Where("kid_id = ?", kidID).
		Order("redeemed_at desc, id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
