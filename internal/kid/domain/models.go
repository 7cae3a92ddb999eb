package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Kid is one child profile. Moons is the reward-currency balance and is
// mutated only through the atomic repository primitive, never read-modify-
// write.
type Kid struct {
	ID                   snowflake.ID      `gorm:"primaryKey" json:"id"`
	DisplayName          string            `gorm:"not null" json:"displayName"`
	AvatarID             string            `gorm:"not null;default:''" json:"avatarId"`
	Moons                int               `gorm:"not null;default:0" json:"moons"`
	Tier                 int               `gorm:"not null;default:1" json:"tier"`
	DesignStudioUnlocked bool              `gorm:"not null;default:false" json:"designStudioUnlocked"`
	Metadata             datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt            time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt            time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Kid) TableName() string { return "kids" }
