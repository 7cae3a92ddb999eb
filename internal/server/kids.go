package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	purchasedomain "github.com/moonstead/moonstead/internal/purchase/domain"
)

type createKidRequest struct {
	DisplayName string `json:"displayName"`
	AvatarID    string `json:"avatarId"`
}

func (s *Server) CreateKid(c *gin.Context) {
	var req createKidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.kidSvc.Create(c.Request.Context(), kiddomain.CreateKidRequest{
		DisplayName: strings.TrimSpace(req.DisplayName),
		AvatarID:    strings.TrimSpace(req.AvatarID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "kid": resp})
}

func (s *Server) ListKids(c *gin.Context) {
	resp, err := s.kidSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kids": resp})
}

func (s *Server) GetKid(c *gin.Context) {
	resp, err := s.kidSvc.GetByID(c.Request.Context(), kiddomain.GetKidRequest{
		ID: c.Param("kidId"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kid": resp})
}

func (s *Server) GetEntitlements(c *gin.Context) {
	resp, err := s.purchaseSvc.Entitlements(c.Request.Context(), purchasedomain.EntitlementsRequest{
		KidID: c.Param("kidId"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
