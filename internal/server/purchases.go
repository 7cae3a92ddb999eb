package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	purchasedomain "github.com/moonstead/moonstead/internal/purchase/domain"
)

type purchaseAvatarItemRequest struct {
	KidID   string `json:"kidId"`
	ItemKey string `json:"itemKey"`
}

func (s *Server) PurchaseAvatarItem(c *gin.Context) {
	var req purchaseAvatarItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.purchaseSvc.PurchaseAvatarItem(c.Request.Context(), purchasedomain.PurchaseAvatarItemRequest{
		KidID:   strings.TrimSpace(req.KidID),
		ItemKey: strings.TrimSpace(req.ItemKey),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"newMoonBalance": resp.NewBalance,
		"unlockedItem":   resp.Item,
	})
}

type purchaseAvatarRequest struct {
	KidID    string `json:"kidId"`
	AvatarID string `json:"avatarId"`
}

func (s *Server) PurchaseAvatar(c *gin.Context) {
	var req purchaseAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.purchaseSvc.PurchaseAvatar(c.Request.Context(), purchasedomain.PurchaseAvatarRequest{
		KidID:    strings.TrimSpace(req.KidID),
		AvatarID: strings.TrimSpace(req.AvatarID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if resp.Free {
		c.JSON(http.StatusOK, gin.H{"success": true, "isFree": true, "avatar": resp.Avatar})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"newMoonBalance": resp.NewBalance,
		"avatar":         resp.Avatar,
	})
}

type purchaseWorldPackRequest struct {
	PackID string `json:"packId"`
}

func (s *Server) PurchaseWorldPack(c *gin.Context) {
	var req purchaseWorldPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.purchaseSvc.PurchaseWorldPack(c.Request.Context(), purchasedomain.PurchaseWorldPackRequest{
		KidID:  c.Param("kidId"),
		PackID: strings.TrimSpace(req.PackID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"newMoonBalance": resp.NewBalance,
		"pack":           resp.Pack,
	})
}

type unlockTierRequest struct {
	TargetTier int `json:"targetTier"`
}

func (s *Server) UnlockTier(c *gin.Context) {
	var req unlockTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.purchaseSvc.UnlockTier(c.Request.Context(), purchasedomain.UnlockTierRequest{
		KidID:      c.Param("kidId"),
		TargetTier: req.TargetTier,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"newTier":        resp.NewTier,
		"tierLimits":     resp.Limits,
		"newMoonBalance": resp.NewBalance,
	})
}
