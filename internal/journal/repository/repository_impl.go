package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/journal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.JournalEntry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO journal_entries (id, kid_id, entry_date, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.KidID,
		entry.EntryDate,
		entry.Body,
		entry.CreatedAt,
	).Error
}

func (r *repo) ListByKid(ctx context.Context, db *gorm.DB, kidID snowflake.ID, since time.Time, limit int) ([]*domain.JournalEntry, error) {
	var rows []*domain.JournalEntry
	err := db.WithContext(ctx).
		Model(&domain.JournalEntry{}).
		Where("kid_id = ? AND entry_date >= ?", kidID, since).
		Order("entry_date desc, created_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
