package migration

import (
	assignmentdomain "github.com/moonstead/moonstead/internal/assignment/domain"
	"github.com/moonstead/moonstead/internal/config"
	journaldomain "github.com/moonstead/moonstead/internal/journal/domain"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	purchasedomain "github.com/moonstead/moonstead/internal/purchase/domain"
	rewarddomain "github.com/moonstead/moonstead/internal/reward/domain"
	"github.com/moonstead/moonstead/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite dev installs rely on AutoMigrate; the unique
			// indexes below carry the idempotency and ownership guarantees.
			if err := conn.AutoMigrate(
				&kiddomain.Kid{},
				&ledgerdomain.MoonTransaction{},
				&purchasedomain.KidAvatarItem{},
				&purchasedomain.KidAvatar{},
				&purchasedomain.KidWorldPack{},
				&assignmentdomain.Assignment{},
				&journaldomain.JournalEntry{},
				&rewarddomain.Reward{},
				&rewarddomain.RewardRedemption{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoHousehold(conn)
		}
		return nil
	}),
)
