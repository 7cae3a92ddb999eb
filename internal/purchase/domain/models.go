package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entitlement rows are permanent per-kid grants. Uniqueness on
// (kid_id, item key) is enforced by the database so concurrent purchases
// cannot double-grant.

type KidAvatarItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	KidID      snowflake.ID `gorm:"not null;uniqueIndex:ux_kid_avatar_items_kid_item,priority:1" json:"kidId"`
	ItemKey    string       `gorm:"not null;uniqueIndex:ux_kid_avatar_items_kid_item,priority:2" json:"itemKey"`
	AcquiredAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"acquiredAt"`
}

func (KidAvatarItem) TableName() string { return "kid_avatar_items" }

type KidAvatar struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	KidID      snowflake.ID `gorm:"not null;uniqueIndex:ux_kid_avatars_kid_avatar,priority:1" json:"kidId"`
	AvatarID   string       `gorm:"not null;uniqueIndex:ux_kid_avatars_kid_avatar,priority:2" json:"avatarId"`
	AcquiredAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"acquiredAt"`
}

func (KidAvatar) TableName() string { return "kid_avatars" }

type KidWorldPack struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	KidID      snowflake.ID `gorm:"not null;uniqueIndex:ux_kid_world_packs_kid_pack,priority:1" json:"kidId"`
	PackID     string       `gorm:"not null;uniqueIndex:ux_kid_world_packs_kid_pack,priority:2" json:"packId"`
	AcquiredAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"acquiredAt"`
}

func (KidWorldPack) TableName() string { return "kid_world_packs" }
