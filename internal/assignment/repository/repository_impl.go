package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/assignment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, assignment *domain.Assignment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO assignments (id, kid_id, title, subject, due_date, moon_value, status, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		assignment.ID,
		assignment.KidID,
		assignment.Title,
		assignment.Subject,
		assignment.DueDate,
		assignment.MoonValue,
		assignment.Status,
		assignment.Metadata,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *repo) ListByKid(ctx context.Context, db *gorm.DB, kidID, beforeID snowflake.ID, limit int) ([]*domain.Assignment, error) {
	query := db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("kid_id = ?", kidID)

	if beforeID != 0 {
		query = query.Where("id < ?", beforeID)
	}

	var rows []*domain.Assignment
	err := query.
		Order("id desc").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) MarkCompleted(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE assignments SET status = ?, completed_at = ?, updated_at = ? WHERE id = ? AND status <> ?`,
		domain.StatusCompleted,
		at,
		at,
		id,
		domain.StatusCompleted,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
