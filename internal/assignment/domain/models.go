package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
)

type Assignment struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	KidID       snowflake.ID      `gorm:"not null;index:ix_assignments_kid_created,priority:1" json:"kidId"`
	Title       string            `gorm:"not null" json:"title"`
	Subject     string            `gorm:"not null;default:''" json:"subject,omitempty"`
	DueDate     *time.Time        `gorm:"type:date" json:"dueDate,omitempty"`
	MoonValue   int               `gorm:"not null;default:0" json:"moonValue"`
	Status      Status            `gorm:"type:text;not null;default:'assigned'" json:"status"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_assignments_kid_created,priority:2,sort:desc" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Assignment) TableName() string { return "assignments" }
