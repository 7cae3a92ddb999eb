package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/assignment/domain"
	"github.com/moonstead/moonstead/internal/clock"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	kidservice "github.com/moonstead/moonstead/internal/kid/service"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	"github.com/moonstead/moonstead/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:     p.Log.Named("assignment.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		kidRepo: p.KidRepo,
		ledger:  p.Ledger,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAssignmentRequest) (domain.Assignment, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.Assignment{}, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Assignment{}, domain.ErrInvalidTitle
	}
	if req.MoonValue < 0 {
		return domain.Assignment{}, domain.ErrInvalidValue
	}

	kid, err := s.kidRepo.FindByID(ctx, s.db, kidID)
	if err != nil {
		return domain.Assignment{}, err
	}
	if kid == nil {
		return domain.Assignment{}, kiddomain.ErrNotFound
	}

	now := s.clock.Now()
	assignment := domain.Assignment{
		ID:        s.genID.Generate(),
		KidID:     kidID,
		Title:     title,
		Subject:   strings.TrimSpace(req.Subject),
		DueDate:   req.DueDate,
		MoonValue: req.MoonValue,
		Status:    domain.StatusAssigned,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &assignment); err != nil {
		return domain.Assignment{}, err
	}
	return assignment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListAssignmentsRequest) (domain.ListAssignmentsResponse, error) {
	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		return domain.ListAssignmentsResponse{}, err
	}

	limit := req.PageSize
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var beforeID snowflake.ID
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListAssignmentsResponse{}, err
		}
		beforeID, err = snowflake.ParseString(cursor.ID)
		if err != nil {
			return domain.ListAssignmentsResponse{}, err
		}
	}

	rows, err := s.repo.ListByKid(ctx, s.db, kidID, beforeID, limit)
	if err != nil {
		return domain.ListAssignmentsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(rows, limit, func(a *domain.Assignment) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: a.ID.String()})
		return token
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	assignments := make([]domain.Assignment, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		assignments = append(assignments, *row)
	}
	return domain.ListAssignmentsResponse{Assignments: assignments, PageInfo: pageInfo}, nil
}

// Complete marks the assignment done and awards its moon value. The award uses
// the assignment id as the idempotency key, so completing twice never pays
// twice. An award failure is logged and does not undo the completion.
func (s *Service) Complete(ctx context.Context, req domain.CompleteAssignmentRequest) (domain.CompleteAssignmentResult, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.CompleteAssignmentResult{}, domain.ErrInvalidID
	}

	assignment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CompleteAssignmentResult{}, err
	}
	if assignment == nil {
		return domain.CompleteAssignmentResult{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	completed, err := s.repo.MarkCompleted(ctx, s.db, id, now)
	if err != nil {
		return domain.CompleteAssignmentResult{}, err
	}
	awardDate := now
	if completed {
		assignment.Status = domain.StatusCompleted
		assignment.CompletedAt = &now
		assignment.UpdatedAt = now
	} else if assignment.CompletedAt != nil {
		// Repeat completion: key the award on the original completion date so
		// a later-day retry hits the same ledger entry instead of minting a
		// fresh one. A retry after a failed award still pays.
		awardDate = *assignment.CompletedAt
	}

	result := domain.CompleteAssignmentResult{Assignment: *assignment}
	if assignment.MoonValue <= 0 {
		return result, nil
	}

	award, err := s.ledger.Award(ctx, ledgerdomain.AwardRequest{
		KidID:     assignment.KidID,
		Date:      awardDate,
		Source:    ledgerdomain.SourceAssignment,
		SourceRef: assignment.ID.String(),
		Amount:    assignment.MoonValue,
		Note:      "Completed " + assignment.Title,
	})
	if err != nil {
		s.log.Error("assignment completed but award failed",
			zap.String("assignment_id", assignment.ID.String()),
			zap.String("kid_id", assignment.KidID.String()),
			zap.Error(err),
		)
		return result, nil
	}

	result.Awarded = award.Awarded
	result.NewBalance = award.NewBalance
	return result, nil
}
