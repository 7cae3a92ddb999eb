package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/clock"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	kidservice "github.com/moonstead/moonstead/internal/kid/service"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	obsmetrics "github.com/moonstead/moonstead/internal/observability/metrics"
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
	Repo       ledgerdomain.Repository
	KidRepo    kiddomain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       ledgerdomain.Repository
	kidRepo    kiddomain.Repository
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) ledgerdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("ledger.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		kidRepo:    p.KidRepo,
		obsMetrics: p.ObsMetrics,
	}
}

// Award grants moons exactly once per (kid, date, source ref). The insert and
// the balance increment commit together; a duplicate key turns the whole call
// into a no-op reporting the current balance.
func (s *Service) Award(ctx context.Context, req ledgerdomain.AwardRequest) (ledgerdomain.AwardResult, error) {
	if req.KidID == 0 {
		return ledgerdomain.AwardResult{}, ledgerdomain.ErrInvalidKid
	}
	if req.Amount <= 0 {
		return ledgerdomain.AwardResult{}, ledgerdomain.ErrInvalidAmount
	}
	if !ledgerdomain.ValidSource(req.Source) {
		return ledgerdomain.AwardResult{}, ledgerdomain.ErrInvalidSource
	}
	sourceRef := strings.TrimSpace(req.SourceRef)
	if sourceRef == "" {
		return ledgerdomain.AwardResult{}, ledgerdomain.ErrInvalidSourceRef
	}

	entryDate := req.Date
	if entryDate.IsZero() {
		entryDate = s.clock.Now()
	}
	entryDate = TruncateToDate(entryDate)

	var result ledgerdomain.AwardResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn := &ledgerdomain.MoonTransaction{
			ID:        s.genID.Generate(),
			KidID:     req.KidID,
			EntryDate: entryDate,
			Source:    req.Source,
			SourceRef: sourceRef,
			Amount:    req.Amount,
			Note:      strings.TrimSpace(req.Note),
			CreatedAt: s.clock.Now(),
		}

		inserted, err := s.repo.Insert(ctx, tx, txn)
		if err != nil {
			return err
		}
		if !inserted {
			kid, err := s.kidRepo.FindByID(ctx, tx, req.KidID)
			if err != nil {
				return err
			}
			if kid == nil {
				return kiddomain.ErrNotFound
			}
			result = ledgerdomain.AwardResult{Awarded: false, NewBalance: kid.Moons}
			return nil
		}

		balance, err := s.kidRepo.AdjustMoons(ctx, tx, req.KidID, req.Amount, s.clock.Now())
		if err != nil {
			return err
		}

		result = ledgerdomain.AwardResult{Awarded: true, NewBalance: balance, Transaction: txn}
		return nil
	})
	if err != nil {
		return ledgerdomain.AwardResult{}, err
	}

	if result.Awarded {
		s.obsMetrics.RecordAward(ctx, string(req.Source))
		s.log.Info("moons awarded",
			zap.String("kid_id", req.KidID.String()),
			zap.String("source", string(req.Source)),
			zap.String("source_ref", sourceRef),
			zap.Int("amount", req.Amount),
		)
	}
	return result, nil
}

func (s *Service) History(ctx context.Context, req ledgerdomain.HistoryRequest) (ledgerdomain.HistoryResponse, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return ledgerdomain.HistoryResponse{}, ledgerdomain.ErrInvalidKid
	}

	kid, err := s.kidRepo.FindByID(ctx, s.db, kidID)
	if err != nil {
		return ledgerdomain.HistoryResponse{}, err
	}
	if kid == nil {
		return ledgerdomain.HistoryResponse{}, kiddomain.ErrNotFound
	}

	since := s.clock.Now().Add(-ledgerdomain.HistoryLookback)
	items, err := s.repo.ListRecent(ctx, s.db, kidID, since, ledgerdomain.HistoryLimit)
	if err != nil {
		return ledgerdomain.HistoryResponse{}, err
	}

	txns := make([]ledgerdomain.MoonTransaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		txns = append(txns, *item)
	}

	return ledgerdomain.HistoryResponse{
		Transactions: txns,
		TotalMoons:   kid.Moons,
	}, nil
}

// TruncateToDate normalizes a timestamp to midnight UTC so the idempotency
// key compares equal across call sites.
func TruncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
