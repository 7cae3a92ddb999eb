package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/kid/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, kid *domain.Kid) error {
	return db.WithContext(ctx).Create(kid).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Kid, error) {
	var kid domain.Kid
	err := db.WithContext(ctx).First(&kid, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kid, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Kid, error) {
	query := tx.WithContext(ctx)
	// sqlite has no row locks; writes serialize on the database write lock.
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var kid domain.Kid
	err := query.First(&kid, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kid, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Kid, error) {
	var kids []*domain.Kid
	err := db.WithContext(ctx).
		Model(&domain.Kid{}).
		Order("created_at asc, id asc").
		Find(&kids).Error
	if err != nil {
		return nil, err
	}
	return kids, nil
}

func (r *repo) AdjustMoons(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int, now time.Time) (int, error) {
	var balance int
	result := db.WithContext(ctx).Raw(
		`UPDATE kids
		 SET moons = moons + ?, updated_at = ?
		 WHERE id = ? AND moons + ? >= 0
		 RETURNING moons`,
		delta,
		now.UTC(),
		id,
		delta,
	).Scan(&balance)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		kid, err := r.FindByID(ctx, db, id)
		if err != nil {
			return 0, err
		}
		if kid == nil {
			return 0, domain.ErrNotFound
		}
		return kid.Moons, domain.ErrInsufficientMoons
	}
	return balance, nil
}

func (r *repo) SetTier(ctx context.Context, tx *gorm.DB, id snowflake.ID, tier int, designStudio bool, now time.Time) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE kids SET tier = ?, design_studio_unlocked = ?, updated_at = ? WHERE id = ?`,
		tier,
		designStudio,
		now.UTC(),
		id,
	).Error
}

func (r *repo) SetAvatar(ctx context.Context, db *gorm.DB, id snowflake.ID, avatarID string, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE kids SET avatar_id = ?, updated_at = ? WHERE id = ?`,
		avatarID,
		now.UTC(),
		id,
	).Error
}
