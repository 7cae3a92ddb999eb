package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/clock"
	"github.com/moonstead/moonstead/internal/journal/domain"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	kidservice "github.com/moonstead/moonstead/internal/kid/service"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	ledgerservice "github.com/moonstead/moonstead/internal/ledger/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	KidRepo kiddomain.Repository
	Ledger  ledgerdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	kidRepo kiddomain.Repository
	ledger  ledgerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("journal.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		kidRepo: p.KidRepo,
		ledger:  p.Ledger,
	}
}

// Submit stores the entry and awards the daily journal bonus. The award keys
// on journal:<date>, so only the first entry of a day pays out. The entry
// itself persists even when the award fails.
func (s *Service) Submit(ctx context.Context, req domain.SubmitEntryRequest) (domain.SubmitEntryResult, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.SubmitEntryResult{}, err
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return domain.SubmitEntryResult{}, domain.ErrInvalidBody
	}

	kid, err := s.kidRepo.FindByID(ctx, s.db, kidID)
	if err != nil {
		return domain.SubmitEntryResult{}, err
	}
	if kid == nil {
		return domain.SubmitEntryResult{}, kiddomain.ErrNotFound
	}

	now := s.clock.Now()
	entryDate := ledgerservice.TruncateToDate(now)
	entry := domain.JournalEntry{
		ID:        s.genID.Generate(),
		KidID:     kidID,
		EntryDate: entryDate,
		Body:      body,
		CreatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		return domain.SubmitEntryResult{}, err
	}

	result := domain.SubmitEntryResult{Entry: entry}
	award, err := s.ledger.Award(ctx, ledgerdomain.AwardRequest{
		KidID:     kidID,
		Date:      entryDate,
		Source:    ledgerdomain.SourceJournal,
		SourceRef: "journal:" + entryDate.Format("2006-01-02"),
		Amount:    domain.AwardAmount,
		Note:      "Journal entry",
	})
	if err != nil {
		s.log.Error("journal entry saved but award failed",
			zap.String("kid_id", kidID.String()),
			zap.Error(err),
		)
		return result, nil
	}

	result.Awarded = award.Awarded
	result.NewBalance = award.NewBalance
	return result, nil
}

func (s *Service) List(ctx context.Context, req domain.ListEntriesRequest) (domain.ListEntriesResponse, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.ListEntriesResponse{}, err
	}

	since := s.clock.Now().Add(-domain.ListLookback)
	rows, err := s.repo.ListByKid(ctx, s.db, kidID, ledgerservice.TruncateToDate(since), domain.ListLimit)
	if err != nil {
		return domain.ListEntriesResponse{}, err
	}

	entries := make([]domain.JournalEntry, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		entries = append(entries, *row)
	}
	return domain.ListEntriesResponse{Entries: entries}, nil
}
