package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	assignmentdomain "github.com/moonstead/moonstead/internal/assignment/domain"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	purchasedomain "github.com/moonstead/moonstead/internal/purchase/domain"
	rewarddomain "github.com/moonstead/moonstead/internal/reward/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureDemoHousehold populates an empty database with one demo kid plus a
// few assignments and rewards so a fresh dev install has something to click.
// No-op when any kid already exists.
func EnsureDemoHousehold(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&kiddomain.Kid{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(9)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	kid := kiddomain.Kid{
		ID:          node.Generate(),
		DisplayName: "Luna",
		AvatarID:    "fox",
		Moons:       20,
		Tier:        1,
		Metadata:    datatypes.JSONMap{"demo": true},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&kid).Error; err != nil {
			return err
		}

		starter := purchasedomain.KidAvatar{
			ID:         node.Generate(),
			KidID:      kid.ID,
			AvatarID:   "fox",
			AcquiredAt: now,
		}
		if err := tx.Create(&starter).Error; err != nil {
			return err
		}

		assignments := []assignmentdomain.Assignment{
			{
				ID:        node.Generate(),
				KidID:     kid.ID,
				Title:     "Read chapter 3",
				Subject:   "reading",
				MoonValue: 10,
				Status:    assignmentdomain.StatusAssigned,
				Metadata:  datatypes.JSONMap{},
				CreatedAt: now,
				UpdatedAt: now,
			},
			{
				ID:        node.Generate(),
				KidID:     kid.ID,
				Title:     "Multiplication practice",
				Subject:   "math",
				MoonValue: 15,
				Status:    assignmentdomain.StatusAssigned,
				Metadata:  datatypes.JSONMap{},
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		if err := tx.Create(&assignments).Error; err != nil {
			return err
		}

		reward := rewarddomain.Reward{
			ID:          node.Generate(),
			Title:       "Movie night",
			Description: "Pick the Friday movie",
			Cost:        25,
			Active:      true,
			CreatedAt:   now,
		}
		return tx.Create(&reward).Error
	})
}
