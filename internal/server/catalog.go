package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListCatalogAvatarItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"avatarItems": s.catalog.AvatarItems()})
}

func (s *Server) ListCatalogAvatars(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"avatars": s.catalog.Avatars()})
}

func (s *Server) ListCatalogWorldPacks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"worldPacks": s.catalog.WorldPacks()})
}

func (s *Server) ListCatalogTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": s.catalog.Tiers()})
}
