package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/moonstead/moonstead/internal/clock"
	"github.com/moonstead/moonstead/internal/journal/domain"
	journalrepository "github.com/moonstead/moonstead/internal/journal/repository"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	kidrepository "github.com/moonstead/moonstead/internal/kid/repository"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	ledgerrepository "github.com/moonstead/moonstead/internal/ledger/repository"
	ledgerservice "github.com/moonstead/moonstead/internal/ledger/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testDBSeq int

func newTestService(t *testing.T) (domain.Service, *gorm.DB, kiddomain.Repository, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:journal_test_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&kiddomain.Kid{},
		&ledgerdomain.MoonTransaction{},
		&domain.JournalEntry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC))
	kidRepo := kidrepository.Provide()
	ledgerSvc := ledgerservice.New(ledgerservice.Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Repo:    ledgerrepository.Provide(),
		KidRepo: kidRepo,
	})

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Repo:    journalrepository.Provide(),
		KidRepo: kidRepo,
		Ledger:  ledgerSvc,
	})
	return svc, db, kidRepo, node, fake
}

func createTestKid(t *testing.T, db *gorm.DB, repo kiddomain.Repository, node *snowflake.Node) *kiddomain.Kid {
	t.Helper()

	now := time.Now().UTC()
	kid := &kiddomain.Kid{
		ID:          node.Generate(),
		DisplayName: "Theo",
		AvatarID:    "robot",
		Tier:        1,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Insert(context.Background(), db, kid))
	return kid
}

func TestSubmit_FirstEntryOfDayAwards(t *testing.T) {
	svc, db, kidRepo, node, fake := newTestService(t)
	kid := createTestKid(t, db, kidRepo, node)

	first, err := svc.Submit(context.Background(), domain.SubmitEntryRequest{
		KidID: kid.ID.String(),
		Body:  "Today we built a volcano.",
	})
	require.NoError(t, err)
	assert.True(t, first.Awarded)
	assert.Equal(t, domain.AwardAmount, first.NewBalance)

	// A second entry on the same day still saves but does not pay again.
	second, err := svc.Submit(context.Background(), domain.SubmitEntryRequest{
		KidID: kid.ID.String(),
		Body:  "Evening addendum.",
	})
	require.NoError(t, err)
	assert.False(t, second.Awarded)

	var entries int64
	require.NoError(t, db.Model(&domain.JournalEntry{}).Count(&entries).Error)
	assert.EqualValues(t, 2, entries)

	// Next day pays again.
	fake.Advance(24 * time.Hour)
	third, err := svc.Submit(context.Background(), domain.SubmitEntryRequest{
		KidID: kid.ID.String(),
		Body:  "New day, new page.",
	})
	require.NoError(t, err)
	assert.True(t, third.Awarded)
	assert.Equal(t, 2*domain.AwardAmount, third.NewBalance)
}

func TestSubmit_Validation(t *testing.T) {
	svc, db, kidRepo, node, _ := newTestService(t)
	kid := createTestKid(t, db, kidRepo, node)

	_, err := svc.Submit(context.Background(), domain.SubmitEntryRequest{
		KidID: kid.ID.String(),
		Body:  "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBody)

	_, err = svc.Submit(context.Background(), domain.SubmitEntryRequest{
		KidID: node.Generate().String(),
		Body:  "Hello",
	})
	assert.ErrorIs(t, err, kiddomain.ErrNotFound)
}

func TestList_ReturnsEntries(t *testing.T) {
	svc, db, kidRepo, node, fake := newTestService(t)
	kid := createTestKid(t, db, kidRepo, node)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), domain.SubmitEntryRequest{
			KidID: kid.ID.String(),
			Body:  fmt.Sprintf("Entry %d", i),
		})
		require.NoError(t, err)
		fake.Advance(24 * time.Hour)
	}

	resp, err := svc.List(context.Background(), domain.ListEntriesRequest{KidID: kid.ID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "Entry 2", resp.Entries[0].Body)
}
