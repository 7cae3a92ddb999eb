package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/clock"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	kidservice "github.com/moonstead/moonstead/internal/kid/service"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	ledgerservice "github.com/moonstead/moonstead/internal/ledger/service"
	obsmetrics "github.com/moonstead/moonstead/internal/observability/metrics"
	"github.com/moonstead/moonstead/internal/reward/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	KidRepo    kiddomain.Repository
	LedgerRepo ledgerdomain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	kidRepo    kiddomain.Repository
	ledgerRepo ledgerdomain.Repository
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("reward.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		kidRepo:    p.KidRepo,
		ledgerRepo: p.LedgerRepo,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRewardRequest) (domain.Reward, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Reward{}, domain.ErrInvalidTitle
	}
	if req.Cost <= 0 {
		return domain.Reward{}, domain.ErrInvalidCost
	}

	reward := domain.Reward{
		ID:          s.genID.Generate(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Cost:        req.Cost,
		Active:      true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &reward); err != nil {
		return domain.Reward{}, err
	}
	return reward, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRewardsRequest) (domain.ListRewardsResponse, error) {
	rows, err := s.repo.List(ctx, s.db, req.ActiveOnly)
	if err != nil {
		return domain.ListRewardsResponse{}, err
	}

	rewards := make([]domain.Reward, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		rewards = append(rewards, *row)
	}
	return domain.ListRewardsResponse{Rewards: rewards}, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	rewardID, err := parseRewardID(id)
	if err != nil {
		return err
	}

	updated, err := s.repo.SetActive(ctx, s.db, rewardID, false)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}

// Redeem spends moons on a consumable reward. Unlike cosmetics there is no
// ownership constraint; the ledger entry keys on the redemption id so repeat
// redemptions on the same day all post.
func (s *Service) Redeem(ctx context.Context, req domain.RedeemRequest) (domain.RedeemResult, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.RedeemResult{}, err
	}
	rewardID, err := parseRewardID(req.RewardID)
	if err != nil {
		return domain.RedeemResult{}, err
	}

	reward, err := s.repo.FindByID(ctx, s.db, rewardID)
	if err != nil {
		return domain.RedeemResult{}, err
	}
	if reward == nil {
		return domain.RedeemResult{}, domain.ErrNotFound
	}
	if !reward.Active {
		return domain.RedeemResult{}, domain.ErrInactive
	}

	var (
		redemption domain.RewardRedemption
		balance    int
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kid, err := s.kidRepo.FindByIDForUpdate(ctx, tx, kidID)
		if err != nil {
			return err
		}
		if kid == nil {
			return kiddomain.ErrNotFound
		}

		now := s.clock.Now()
		redemption = domain.RewardRedemption{
			ID:         s.genID.Generate(),
			RewardID:   reward.ID,
			KidID:      kidID,
			MoonsSpent: reward.Cost,
			RedeemedAt: now,
		}
		if err := s.repo.InsertRedemption(ctx, tx, &redemption); err != nil {
			return err
		}

		txn := &ledgerdomain.MoonTransaction{
			ID:        s.genID.Generate(),
			KidID:     kidID,
			EntryDate: ledgerservice.TruncateToDate(now),
			Source:    ledgerdomain.SourceReward,
			SourceRef: "reward:" + redemption.ID.String(),
			Amount:    -reward.Cost,
			Note:      "Redeemed " + reward.Title,
			CreatedAt: now,
		}
		if _, err := s.ledgerRepo.Insert(ctx, tx, txn); err != nil {
			return err
		}

		balance, err = s.kidRepo.AdjustMoons(ctx, tx, kidID, -reward.Cost, now)
		return err
	})
	if err != nil {
		return domain.RedeemResult{}, err
	}

	s.obsMetrics.RecordSpend(ctx, "reward")
	s.log.Info("reward redeemed",
		zap.String("kid_id", kidID.String()),
		zap.String("reward_id", reward.ID.String()),
		zap.Int("cost", reward.Cost),
		zap.Int("new_balance", balance),
	)
	return domain.RedeemResult{Redemption: redemption, Reward: *reward, NewBalance: balance}, nil
}

func (s *Service) ListRedemptions(ctx context.Context, req domain.ListRedemptionsRequest) (domain.ListRedemptionsResponse, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.ListRedemptionsResponse{}, err
	}

	rows, err := s.repo.ListRedemptions(ctx, s.db, kidID, domain.RedemptionHistoryLimit)
	if err != nil {
		return domain.ListRedemptionsResponse{}, err
	}

	redemptions := make([]domain.RewardRedemption, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		redemptions = append(redemptions, *row)
	}
	return domain.ListRedemptionsResponse{Redemptions: redemptions}, nil
}

func parseRewardID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
