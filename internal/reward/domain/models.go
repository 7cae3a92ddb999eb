package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Reward is a parent-defined redeemable, e.g. "movie night".
type Reward struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"not null;default:''" json:"description,omitempty"`
	Cost        int          `gorm:"not null" json:"cost"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (Reward) TableName() string { return "rewards" }

// RewardRedemption records one spend. Rewards are consumable, so a kid can
// hold any number of redemptions for the same reward.
type RewardRedemption struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	RewardID   snowflake.ID `gorm:"not null" json:"rewardId"`
	KidID      snowflake.ID `gorm:"not null;index:ix_reward_redemptions_kid,priority:1" json:"kidId"`
	MoonsSpent int          `gorm:"not null" json:"moonsSpent"`
	RedeemedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_reward_redemptions_kid,priority:2,sort:desc" json:"redeemedAt"`
}

func (RewardRedemption) TableName() string { return "reward_redemptions" }
