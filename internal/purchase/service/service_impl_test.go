package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/moonstead/moonstead/internal/catalog"
	"github.com/moonstead/moonstead/internal/clock"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	kidrepository "github.com/moonstead/moonstead/internal/kid/repository"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	ledgerrepository "github.com/moonstead/moonstead/internal/ledger/repository"
	"github.com/moonstead/moonstead/internal/purchase/domain"
	purchaserepository "github.com/moonstead/moonstead/internal/purchase/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testDBSeq int

type fixture struct {
	db      *gorm.DB
	svc     domain.Service
	kidRepo kiddomain.Repository
	node    *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:purchase_test_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&kiddomain.Kid{},
		&ledgerdomain.MoonTransaction{},
		&domain.KidAvatarItem{},
		&domain.KidAvatar{},
		&domain.KidWorldPack{},
	))

	cat, err := catalog.Load()
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	kidRepo := kidrepository.Provide()
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)),
		Catalog:    cat,
		Repo:       purchaserepository.Provide(),
		KidRepo:    kidRepo,
		LedgerRepo: ledgerrepository.Provide(),
	})

	return &fixture{db: db, svc: svc, kidRepo: kidRepo, node: node}
}

func (f *fixture) createKid(t *testing.T, moons, tier int) *kiddomain.Kid {
	t.Helper()

	now := time.Now().UTC()
	kid := &kiddomain.Kid{
		ID:          f.node.Generate(),
		DisplayName: "Milo",
		AvatarID:    "owl",
		Moons:       moons,
		Tier:        tier,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.kidRepo.Insert(context.Background(), f.db, kid))
	return kid
}

func (f *fixture) ledgerCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&ledgerdomain.MoonTransaction{}).Count(&count).Error)
	return count
}

func TestPurchaseAvatarItem_DeductsAndGrants(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 20, 1)

	resp, err := f.svc.PurchaseAvatarItem(context.Background(), domain.PurchaseAvatarItemRequest{
		KidID:   kid.ID.String(),
		ItemKey: "wizard_hat",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.NewBalance)
	assert.Equal(t, "wizard_hat", resp.Item.Key)

	stored, err := f.kidRepo.FindByID(context.Background(), f.db, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Moons)

	var owned int64
	require.NoError(t, f.db.Model(&domain.KidAvatarItem{}).
		Where("kid_id = ? AND item_key = ?", kid.ID, "wizard_hat").
		Count(&owned).Error)
	assert.EqualValues(t, 1, owned)

	var txn ledgerdomain.MoonTransaction
	require.NoError(t, f.db.First(&txn, "kid_id = ?", kid.ID).Error)
	assert.Equal(t, -15, txn.Amount)
	assert.Equal(t, ledgerdomain.SourcePurchase, txn.Source)
	assert.Equal(t, "purchase:avatar_item:wizard_hat", txn.SourceRef)
}

func TestPurchaseAvatarItem_InsufficientRollsBack(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 5, 1)

	_, err := f.svc.PurchaseAvatarItem(context.Background(), domain.PurchaseAvatarItemRequest{
		KidID:   kid.ID.String(),
		ItemKey: "wizard_hat",
	})
	assert.ErrorIs(t, err, kiddomain.ErrInsufficientMoons)

	stored, err := f.kidRepo.FindByID(context.Background(), f.db, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Moons)

	// Neither the grant nor the ledger entry may survive the rollback.
	var owned int64
	require.NoError(t, f.db.Model(&domain.KidAvatarItem{}).Where("kid_id = ?", kid.ID).Count(&owned).Error)
	assert.EqualValues(t, 0, owned)
	assert.EqualValues(t, 0, f.ledgerCount(t))
}

func TestPurchaseAvatarItem_Duplicate(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 100, 1)

	_, err := f.svc.PurchaseAvatarItem(context.Background(), domain.PurchaseAvatarItemRequest{
		KidID:   kid.ID.String(),
		ItemKey: "rain_boots",
	})
	require.NoError(t, err)

	_, err = f.svc.PurchaseAvatarItem(context.Background(), domain.PurchaseAvatarItemRequest{
		KidID:   kid.ID.String(),
		ItemKey: "rain_boots",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyOwned)

	// Only the first purchase charged.
	stored, err := f.kidRepo.FindByID(context.Background(), f.db, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 92, stored.Moons)
	assert.EqualValues(t, 1, f.ledgerCount(t))
}

func TestPurchaseAvatarItem_UnknownItem(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 100, 1)

	_, err := f.svc.PurchaseAvatarItem(context.Background(), domain.PurchaseAvatarItemRequest{
		KidID:   kid.ID.String(),
		ItemKey: "invisible_cloak",
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestPurchaseAvatar_FreeSkipsLedger(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 3, 1)

	resp, err := f.svc.PurchaseAvatar(context.Background(), domain.PurchaseAvatarRequest{
		KidID:    kid.ID.String(),
		AvatarID: "fox",
	})
	require.NoError(t, err)
	assert.True(t, resp.Free)
	assert.Equal(t, 3, resp.NewBalance)
	assert.EqualValues(t, 0, f.ledgerCount(t))

	var owned int64
	require.NoError(t, f.db.Model(&domain.KidAvatar{}).
		Where("kid_id = ? AND avatar_id = ?", kid.ID, "fox").
		Count(&owned).Error)
	assert.EqualValues(t, 1, owned)
}

func TestPurchaseAvatar_Paid(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 60, 1)

	resp, err := f.svc.PurchaseAvatar(context.Background(), domain.PurchaseAvatarRequest{
		KidID:    kid.ID.String(),
		AvatarID: "dragon",
	})
	require.NoError(t, err)
	assert.False(t, resp.Free)
	assert.Equal(t, 10, resp.NewBalance)
	assert.EqualValues(t, 1, f.ledgerCount(t))
}

func TestPurchaseWorldPack(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 50, 1)

	resp, err := f.svc.PurchaseWorldPack(context.Background(), domain.PurchaseWorldPackRequest{
		KidID:  kid.ID.String(),
		PackID: "forest_glade",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.NewBalance)
	assert.Equal(t, "Forest Glade", resp.Pack.Name)

	_, err = f.svc.PurchaseWorldPack(context.Background(), domain.PurchaseWorldPackRequest{
		KidID:  kid.ID.String(),
		PackID: "forest_glade",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyOwned)
}

func TestUnlockTier_Sequential(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 50, 1)

	resp, err := f.svc.UnlockTier(context.Background(), domain.UnlockTierRequest{
		KidID:      kid.ID.String(),
		TargetTier: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.NewTier)
	assert.Equal(t, 10, resp.NewBalance)
	assert.Equal(t, 10, resp.Limits.MaxProjects)

	stored, err := f.kidRepo.FindByID(context.Background(), f.db, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Tier)
	assert.True(t, stored.DesignStudioUnlocked)
}

func TestUnlockTier_SkippingLevelsRejected(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 500, 1)

	_, err := f.svc.UnlockTier(context.Background(), domain.UnlockTierRequest{
		KidID:      kid.ID.String(),
		TargetTier: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTier)

	stored, err := f.kidRepo.FindByID(context.Background(), f.db, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Tier)
	assert.Equal(t, 500, stored.Moons)
	assert.EqualValues(t, 0, f.ledgerCount(t))
}

func TestUnlockTier_InsufficientMoons(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 10, 1)

	_, err := f.svc.UnlockTier(context.Background(), domain.UnlockTierRequest{
		KidID:      kid.ID.String(),
		TargetTier: 2,
	})
	assert.ErrorIs(t, err, kiddomain.ErrInsufficientMoons)

	stored, err := f.kidRepo.FindByID(context.Background(), f.db, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Tier)
	assert.Equal(t, 10, stored.Moons)
}

func TestEntitlements_ListsAllKinds(t *testing.T) {
	f := newFixture(t)
	kid := f.createKid(t, 200, 1)

	_, err := f.svc.PurchaseAvatarItem(context.Background(), domain.PurchaseAvatarItemRequest{
		KidID:   kid.ID.String(),
		ItemKey: "star_glasses",
	})
	require.NoError(t, err)
	_, err = f.svc.PurchaseAvatar(context.Background(), domain.PurchaseAvatarRequest{
		KidID:    kid.ID.String(),
		AvatarID: "owl",
	})
	require.NoError(t, err)
	_, err = f.svc.PurchaseWorldPack(context.Background(), domain.PurchaseWorldPackRequest{
		KidID:  kid.ID.String(),
		PackID: "tide_pools",
	})
	require.NoError(t, err)

	resp, err := f.svc.Entitlements(context.Background(), domain.EntitlementsRequest{KidID: kid.ID.String()})
	require.NoError(t, err)
	require.Len(t, resp.AvatarItems, 1)
	assert.Equal(t, "star_glasses", resp.AvatarItems[0].ItemKey)
	require.Len(t, resp.Avatars, 1)
	require.Len(t, resp.WorldPacks, 1)
}

func TestEntitlements_UnknownKid(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Entitlements(context.Background(), domain.EntitlementsRequest{KidID: f.node.Generate().String()})
	assert.ErrorIs(t, err, kiddomain.ErrNotFound)
}
