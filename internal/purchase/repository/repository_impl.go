package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/purchase/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertAvatarItem(ctx context.Context, db *gorm.DB, row *domain.KidAvatarItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO kid_avatar_items (id, kid_id, item_key, acquired_at) VALUES (?, ?, ?, ?)`,
		row.ID,
		row.KidID,
		row.ItemKey,
		row.AcquiredAt,
	).Error
}

func (r *repo) InsertAvatar(ctx context.Context, db *gorm.DB, row *domain.KidAvatar) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO kid_avatars (id, kid_id, avatar_id, acquired_at) VALUES (?, ?, ?, ?)`,
		row.ID,
		row.KidID,
		row.AvatarID,
		row.AcquiredAt,
	).Error
}

func (r *repo) InsertWorldPack(ctx context.Context, db *gorm.DB, row *domain.KidWorldPack) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO kid_world_packs (id, kid_id, pack_id, acquired_at) VALUES (?, ?, ?, ?)`,
		row.ID,
		row.KidID,
		row.PackID,
		row.AcquiredAt,
	).Error
}

func (r *repo) ListAvatarItems(ctx context.Context, db *gorm.DB, kidID snowflake.ID) ([]*domain.KidAvatarItem, error) {
	var rows []*domain.KidAvatarItem
	err := db.WithContext(ctx).
		Model(&domain.KidAvatarItem{}).
		Where("kid_id = ?", kidID).
		Order("acquired_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListAvatars(ctx context.Context, db *gorm.DB, kidID snowflake.ID) ([]*domain.KidAvatar, error) {
	var rows []*domain.KidAvatar
	err := db.WithContext(ctx).
		Model(&domain.KidAvatar{}).
		Where("kid_id = ?", kidID).
		Order("acquired_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListWorldPacks(ctx context.Context, db *gorm.DB, kidID snowflake.ID) ([]*domain.KidWorldPack, error) {
	var rows []*domain.KidWorldPack
	err := db.WithContext(ctx).
		Model(&domain.KidWorldPack{}).
		Where("kid_id = ?", kidID).
		Order("acquired_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
