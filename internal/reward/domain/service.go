package domain

import (
	"context"
	"errors"
)

const RedemptionHistoryLimit = 100

type CreateRewardRequest struct {
	Title       string
	Description string
	Cost        int
}

type ListRewardsRequest struct {
	ActiveOnly bool
}

type ListRewardsResponse struct {
	Rewards []Reward `json:"rewards"`
}

type RedeemRequest struct {
	KidID    string
	RewardID string
}

type RedeemResult struct {
	Redemption RewardRedemption `json:"redemption"`
	Reward     Reward           `json:"reward"`
	NewBalance int              `json:"newMoonBalance"`
}

type ListRedemptionsRequest struct {
	KidID string
}

type ListRedemptionsResponse struct {
	Redemptions []RewardRedemption `json:"redemptions"`
}

type Service interface {
	Create(context.Context, CreateRewardRequest) (Reward, error)
	List(context.Context, ListRewardsRequest) (ListRewardsResponse, error)
	Deactivate(ctx context.Context, id string) error
	Redeem(context.Context, RedeemRequest) (RedeemResult, error)
	ListRedemptions(context.Context, ListRedemptionsRequest) (ListRedemptionsResponse, error)
}

var (
	ErrInvalidID    = errors.New("invalid_reward_id")
	ErrInvalidTitle = errors.New("invalid_title")
	ErrInvalidCost  = errors.New("invalid_cost")
	ErrNotFound     = errors.New("reward_not_found")
	ErrInactive     = errors.New("reward_inactive")
)
