package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, txn *domain.MoonTransaction) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO moon_transactions (id, kid_id, entry_date, source, source_ref, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (kid_id, entry_date, source_ref) DO NOTHING`,
		txn.ID,
		txn.KidID,
		txn.EntryDate,
		string(txn.Source),
		txn.SourceRef,
		txn.Amount,
		txn.Note,
		txn.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) ListRecent(ctx context.Context, db *gorm.DB, kidID snowflake.ID, since time.Time, limit int) ([]*domain.MoonTransaction, error) {
	var txns []*domain.MoonTransaction
	err := db.WithContext(ctx).
		Model(&domain.MoonTransaction{}).
		Where("kid_id = ? AND created_at >= ?", kidID, since).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
