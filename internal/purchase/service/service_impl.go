package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/catalog"
	"github.com/moonstead/moonstead/internal/clock"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	kidservice "github.com/moonstead/moonstead/internal/kid/service"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	ledgerservice "github.com/moonstead/moonstead/internal/ledger/service"
	obsmetrics "github.com/moonstead/moonstead/internal/observability/metrics"
	"github.com/moonstead/moonstead/internal/purchase/domain"
	"github.com/moonstead/moonstead/pkg/db"
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
	Catalog    *catalog.Catalog
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
	catalog    *catalog.Catalog
	repo       domain.Repository
	kidRepo    kiddomain.Repository
	ledgerRepo ledgerdomain.Repository
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("purchase.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		catalog:    p.Catalog,
		repo:       p.Repo,
		kidRepo:    p.KidRepo,
		ledgerRepo: p.LedgerRepo,
		obsMetrics: p.ObsMetrics,
	}
}

// PurchaseAvatarItem grants an avatar item and deducts its price in one
// transaction. The entitlement insert runs before the deduction so a repeat
// purchase fails as AlreadyOwned rather than InsufficientMoons.
func (s *Service) PurchaseAvatarItem(ctx context.Context, req domain.PurchaseAvatarItemRequest) (domain.PurchaseAvatarItemResult, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.PurchaseAvatarItemResult{}, err
	}

	item, ok := s.catalog.AvatarItem(req.ItemKey)
	if !ok {
		return domain.PurchaseAvatarItemResult{}, domain.ErrItemNotFound
	}

	var balance int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockKid(ctx, tx, kidID); err != nil {
			return err
		}

		row := &domain.KidAvatarItem{
			ID:         s.genID.Generate(),
			KidID:      kidID,
			ItemKey:    item.Key,
			AcquiredAt: s.clock.Now(),
		}
		if err := s.repo.InsertAvatarItem(ctx, tx, row); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyOwned
			}
			return err
		}

		balance, err = s.spend(ctx, tx, kidID, item.Price,
			fmt.Sprintf("purchase:avatar_item:%s", item.Key),
			fmt.Sprintf("Bought %s", item.Name))
		return err
	})
	if err != nil {
		return domain.PurchaseAvatarItemResult{}, err
	}

	s.obsMetrics.RecordSpend(ctx, "avatar_item")
	s.log.Info("avatar item purchased",
		zap.String("kid_id", kidID.String()),
		zap.String("item_key", item.Key),
		zap.Int("price", item.Price),
		zap.Int("new_balance", balance),
	)
	return domain.PurchaseAvatarItemResult{NewBalance: balance, Item: item}, nil
}

// PurchaseAvatar grants a full avatar. Free starter avatars skip the ledger
// entry entirely but still record the entitlement.
func (s *Service) PurchaseAvatar(ctx context.Context, req domain.PurchaseAvatarRequest) (domain.PurchaseAvatarResult, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.PurchaseAvatarResult{}, err
	}

	avatar, ok := s.catalog.Avatar(req.AvatarID)
	if !ok {
		return domain.PurchaseAvatarResult{}, domain.ErrItemNotFound
	}
	free := avatar.Price == 0

	var balance int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kid, err := s.lockKid(ctx, tx, kidID)
		if err != nil {
			return err
		}
		balance = kid.Moons

		row := &domain.KidAvatar{
			ID:         s.genID.Generate(),
			KidID:      kidID,
			AvatarID:   avatar.ID,
			AcquiredAt: s.clock.Now(),
		}
		if err := s.repo.InsertAvatar(ctx, tx, row); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyOwned
			}
			return err
		}

		if free {
			return nil
		}
		balance, err = s.spend(ctx, tx, kidID, avatar.Price,
			fmt.Sprintf("purchase:avatar:%s", avatar.ID),
			fmt.Sprintf("Bought avatar %s", avatar.Name))
		return err
	})
	if err != nil {
		return domain.PurchaseAvatarResult{}, err
	}

	if !free {
		s.obsMetrics.RecordSpend(ctx, "avatar")
	}
	s.log.Info("avatar purchased",
		zap.String("kid_id", kidID.String()),
		zap.String("avatar_id", avatar.ID),
		zap.Bool("free", free),
		zap.Int("new_balance", balance),
	)
	return domain.PurchaseAvatarResult{NewBalance: balance, Avatar: avatar, Free: free}, nil
}

// PurchaseWorldPack unlocks a world map region.
func (s *Service) PurchaseWorldPack(ctx context.Context, req domain.PurchaseWorldPackRequest) (domain.PurchaseWorldPackResult, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.PurchaseWorldPackResult{}, err
	}

	pack, ok := s.catalog.WorldPack(req.PackID)
	if !ok {
		return domain.PurchaseWorldPackResult{}, domain.ErrItemNotFound
	}

	var balance int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockKid(ctx, tx, kidID); err != nil {
			return err
		}

		row := &domain.KidWorldPack{
			ID:         s.genID.Generate(),
			KidID:      kidID,
			PackID:     pack.ID,
			AcquiredAt: s.clock.Now(),
		}
		if err := s.repo.InsertWorldPack(ctx, tx, row); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyOwned
			}
			return err
		}

		balance, err = s.spend(ctx, tx, kidID, pack.Price,
			fmt.Sprintf("purchase:world_pack:%s", pack.ID),
			fmt.Sprintf("Unlocked %s", pack.Name))
		return err
	})
	if err != nil {
		return domain.PurchaseWorldPackResult{}, err
	}

	s.obsMetrics.RecordSpend(ctx, "world_pack")
	s.log.Info("world pack purchased",
		zap.String("kid_id", kidID.String()),
		zap.String("pack_id", pack.ID),
		zap.Int("new_balance", balance),
	)
	return domain.PurchaseWorldPackResult{NewBalance: balance, Pack: pack}, nil
}

// UnlockTier advances the design-studio tier by exactly one level. Skipping
// levels is rejected; the target's cost is the full price of the step.
func (s *Service) UnlockTier(ctx context.Context, req domain.UnlockTierRequest) (domain.UnlockTierResult, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.UnlockTierResult{}, err
	}

	tier, ok := s.catalog.Tier(req.TargetTier)
	if !ok {
		return domain.UnlockTierResult{}, domain.ErrInvalidTier
	}

	var balance int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kid, err := s.lockKid(ctx, tx, kidID)
		if err != nil {
			return err
		}
		if req.TargetTier != kid.Tier+1 {
			return domain.ErrInvalidTier
		}

		balance, err = s.spend(ctx, tx, kidID, tier.Cost,
			fmt.Sprintf("purchase:tier:%d", tier.Level),
			fmt.Sprintf("Unlocked design studio tier %d", tier.Level))
		if err != nil {
			return err
		}

		return s.kidRepo.SetTier(ctx, tx, kidID, tier.Level, tier.Level >= 2, s.clock.Now())
	})
	if err != nil {
		return domain.UnlockTierResult{}, err
	}

	s.obsMetrics.RecordSpend(ctx, "tier")
	s.log.Info("tier unlocked",
		zap.String("kid_id", kidID.String()),
		zap.Int("tier", tier.Level),
		zap.Int("new_balance", balance),
	)
	return domain.UnlockTierResult{NewTier: tier.Level, Limits: tier.Limits, NewBalance: balance}, nil
}

func (s *Service) Entitlements(ctx context.Context, req domain.EntitlementsRequest) (domain.EntitlementsResponse, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.EntitlementsResponse{}, err
	}

	kid, err := s.kidRepo.FindByID(ctx, s.db, kidID)
	if err != nil {
		return domain.EntitlementsResponse{}, err
	}
	if kid == nil {
		return domain.EntitlementsResponse{}, kiddomain.ErrNotFound
	}

	items, err := s.repo.ListAvatarItems(ctx, s.db, kidID)
	if err != nil {
		return domain.EntitlementsResponse{}, err
	}
	avatars, err := s.repo.ListAvatars(ctx, s.db, kidID)
	if err != nil {
		return domain.EntitlementsResponse{}, err
	}
	packs, err := s.repo.ListWorldPacks(ctx, s.db, kidID)
	if err != nil {
		return domain.EntitlementsResponse{}, err
	}

	resp := domain.EntitlementsResponse{
		AvatarItems: make([]domain.KidAvatarItem, 0, len(items)),
		Avatars:     make([]domain.KidAvatar, 0, len(avatars)),
		WorldPacks:  make([]domain.KidWorldPack, 0, len(packs)),
	}
	for _, row := range items {
		if row != nil {
			resp.AvatarItems = append(resp.AvatarItems, *row)
		}
	}
	for _, row := range avatars {
		if row != nil {
			resp.Avatars = append(resp.Avatars, *row)
		}
	}
	for _, row := range packs {
		if row != nil {
			resp.WorldPacks = append(resp.WorldPacks, *row)
		}
	}
	return resp, nil
}

// lockKid loads the kid under FOR UPDATE so concurrent spends against the same
// balance serialize on the row.
func (s *Service) lockKid(ctx context.Context, tx *gorm.DB, kidID snowflake.ID) (*kiddomain.Kid, error) {
	kid, err := s.kidRepo.FindByIDForUpdate(ctx, tx, kidID)
	if err != nil {
		return nil, err
	}
	if kid == nil {
		return nil, kiddomain.ErrNotFound
	}
	return kid, nil
}

// spend appends a negative ledger entry and applies the deduction. Both run in
// the caller's transaction, so a failed deduction also rolls back the grant.
func (s *Service) spend(ctx context.Context, tx *gorm.DB, kidID snowflake.ID, price int, sourceRef, note string) (int, error) {
	now := s.clock.Now()
	txn := &ledgerdomain.MoonTransaction{
		ID:        s.genID.Generate(),
		KidID:     kidID,
		EntryDate: ledgerservice.TruncateToDate(now),
		Source:    ledgerdomain.SourcePurchase,
		SourceRef: sourceRef,
		Amount:    -price,
		Note:      note,
		CreatedAt: now,
	}
	inserted, err := s.ledgerRepo.Insert(ctx, tx, txn)
	if err != nil {
		return 0, err
	}
	if !inserted {
		// Same item repurchased on the same day; the entitlement insert should
		// have caught it first, but a stale entitlement table must not let the
		// ledger silently skip the charge.
		return 0, domain.ErrAlreadyOwned
	}

	balance, err := s.kidRepo.AdjustMoons(ctx, tx, kidID, -price, now)
	if err != nil {
		if errors.Is(err, kiddomain.ErrInsufficientMoons) {
			return 0, kiddomain.ErrInsufficientMoons
		}
		return 0, err
	}
	return balance, nil
}
