package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MoonSource tags where a balance change came from.
type MoonSource string

const (
	SourceAssignment MoonSource = "assignment"
	SourceJournal    MoonSource = "journal"
	SourceBonus      MoonSource = "bonus"
	SourcePurchase   MoonSource = "purchase"
	SourceReward     MoonSource = "reward"
)

// ValidSource reports whether s is a known source tag.
func ValidSource(s MoonSource) bool {
	switch s {
	case SourceAssignment, SourceJournal, SourceBonus, SourcePurchase, SourceReward:
		return true
	default:
		return false
	}
}

// MoonTransaction is one immutable balance change. The unique index on
// (kid_id, entry_date, source_ref) makes awards idempotent at the database.
type MoonTransaction struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	KidID     snowflake.ID `gorm:"not null;index;uniqueIndex:ux_moon_transactions_kid_date_ref,priority:1" json:"kidId"`
	EntryDate time.Time    `gorm:"type:date;not null;uniqueIndex:ux_moon_transactions_kid_date_ref,priority:2" json:"entryDate"`
	Source    MoonSource   `gorm:"type:text;not null" json:"source"`
	SourceRef string       `gorm:"not null;uniqueIndex:ux_moon_transactions_kid_date_ref,priority:3" json:"sourceRef"`
	Amount    int          `gorm:"not null" json:"amount"`
	Note      string       `gorm:"not null;default:''" json:"note,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (MoonTransaction) TableName() string { return "moon_transactions" }
