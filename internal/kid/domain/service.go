package domain

import (
	"context"
	"errors"
)

type CreateKidRequest struct {
	DisplayName string
	AvatarID    string
}

type GetKidRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateKidRequest) (Kid, error)
	List(context.Context) ([]Kid, error)
	GetByID(context.Context, GetKidRequest) (Kid, error)
}

var (
	ErrInvalidID         = errors.New("invalid_kid_id")
	ErrInvalidName       = errors.New("invalid_display_name")
	ErrNotFound          = errors.New("kid_not_found")
	ErrInsufficientMoons = errors.New("insufficient_moons")
)
