package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	rewarddomain "github.com/moonstead/moonstead/internal/reward/domain"
)

type createRewardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
}

func (s *Server) CreateReward(c *gin.Context) {
	var req createRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.rewardSvc.Create(c.Request.Context(), rewarddomain.CreateRewardRequest{
		Title:       req.Title,
		Description: req.Description,
		Cost:        req.Cost,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reward": resp})
}

func (s *Server) ListRewards(c *gin.Context) {
	activeOnly := strings.EqualFold(strings.TrimSpace(c.Query("active")), "true")

	resp, err := s.rewardSvc.List(c.Request.Context(), rewarddomain.ListRewardsRequest{
		ActiveOnly: activeOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeactivateReward(c *gin.Context) {
	if err := s.rewardSvc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type redeemRewardRequest struct {
	KidID string `json:"kidId"`
}

func (s *Server) RedeemReward(c *gin.Context) {
	var req redeemRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.rewardSvc.Redeem(c.Request.Context(), rewarddomain.RedeemRequest{
		KidID:    strings.TrimSpace(req.KidID),
		RewardID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"redemption":     resp.Redemption,
		"reward":         resp.Reward,
		"newMoonBalance": resp.NewBalance,
	})
}

func (s *Server) ListRedemptions(c *gin.Context) {
	resp, err := s.rewardSvc.ListRedemptions(c.Request.Context(), rewarddomain.ListRedemptionsRequest{
		KidID: c.Query("kidId"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
