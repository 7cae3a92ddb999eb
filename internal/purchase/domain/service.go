package domain

import (
	"context"
	"errors"

	catalogdomain "github.com/moonstead/moonstead/internal/catalog/domain"
)

type PurchaseAvatarItemRequest struct {
	KidID   string
	ItemKey string
}

type PurchaseAvatarItemResult struct {
	NewBalance int
	Item       catalogdomain.AvatarItem
}

type PurchaseAvatarRequest struct {
	KidID    string
	AvatarID string
}

type PurchaseAvatarResult struct {
	NewBalance int
	Avatar     catalogdomain.Avatar
	Free       bool
}

type PurchaseWorldPackRequest struct {
	KidID  string
	PackID string
}

type PurchaseWorldPackResult struct {
	NewBalance int
	Pack       catalogdomain.WorldPack
}

type UnlockTierRequest struct {
	KidID      string
	TargetTier int
}

type UnlockTierResult struct {
	NewTier    int
	Limits     catalogdomain.TierLimits
	NewBalance int
}

type EntitlementsRequest struct {
	KidID string
}

type EntitlementsResponse struct {
	AvatarItems []KidAvatarItem `json:"avatarItems"`
	Avatars     []KidAvatar     `json:"avatars"`
	WorldPacks  []KidWorldPack  `json:"worldPacks"`
}

type Service interface {
	PurchaseAvatarItem(context.Context, PurchaseAvatarItemRequest) (PurchaseAvatarItemResult, error)
	PurchaseAvatar(context.Context, PurchaseAvatarRequest) (PurchaseAvatarResult, error)
	PurchaseWorldPack(context.Context, PurchaseWorldPackRequest) (PurchaseWorldPackResult, error)
	UnlockTier(context.Context, UnlockTierRequest) (UnlockTierResult, error)
	Entitlements(context.Context, EntitlementsRequest) (EntitlementsResponse, error)
}

var (
	ErrItemNotFound = errors.New("item_not_found")
	ErrAlreadyOwned = errors.New("already_owned")
	ErrInvalidTier  = errors.New("invalid_tier")
)
