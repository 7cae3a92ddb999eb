package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type JournalEntry struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	KidID     snowflake.ID `gorm:"not null;index:ix_journal_entries_kid_date,priority:1" json:"kidId"`
	EntryDate time.Time    `gorm:"type:date;not null;index:ix_journal_entries_kid_date,priority:2,sort:desc" json:"entryDate"`
	Body      string       `gorm:"not null" json:"body"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (JournalEntry) TableName() string { return "journal_entries" }
