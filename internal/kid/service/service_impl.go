package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/moonstead/moonstead/internal/kid/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("kid.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateKidRequest) (domain.Kid, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return domain.Kid{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	kid := domain.Kid{
		ID:          s.genID.Generate(),
		DisplayName: name,
		AvatarID:    strings.TrimSpace(req.AvatarID),
		Moons:       0,
		Tier:        1,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &kid); err != nil {
		return domain.Kid{}, err
	}

	return kid, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Kid, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	kids := make([]domain.Kid, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		kids = append(kids, *item)
	}
	return kids, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetKidRequest) (domain.Kid, error) {
	id, err := ParseID(req.ID)
	if err != nil {
		return domain.Kid{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Kid{}, err
	}
	if item == nil {
		return domain.Kid{}, domain.ErrNotFound
	}
	return *item, nil
}

// ParseID parses a kid id from its string form.
func ParseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
