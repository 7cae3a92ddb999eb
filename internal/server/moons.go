package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	kidservice "github.com/moonstead/moonstead/internal/kid/service"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	"go.uber.org/zap"
)

type awardBonusRequest struct {
	KidID     string `json:"kidId"`
	Amount    int    `json:"amount"`
	SourceRef string `json:"sourceRef"`
	Note      string `json:"note"`
}

// AwardBonus is the manual parent grant. Clients may pass a sourceRef for
// retry-safe awards; without one each call is a fresh award.
func (s *Server) AwardBonus(c *gin.Context) {
	var req awardBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.Amount < ledgerdomain.BonusAmountMin || req.Amount > ledgerdomain.BonusAmountMax {
		AbortWithError(c, ledgerdomain.ErrInvalidAmount)
		return
	}

	kidID, err := kidservice.ParseID(req.KidID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.bonusLimiter.Enabled() {
		result, err := s.bonusLimiter.AllowKid(c.Request.Context(), kidID.String())
		if err != nil {
			// Redis being down must not block parents.
			s.log.Warn("bonus rate limiter unavailable", zap.Error(err))
		} else if !result.Allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "bonus", "throttled")
			AbortWithError(c, ErrRateLimited)
			return
		} else {
			s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), "bonus")
		}
	}

	sourceRef := strings.TrimSpace(req.SourceRef)
	if sourceRef == "" {
		sourceRef = "bonus:" + s.genID.Generate().String()
	}

	award, err := s.ledgerSvc.Award(c.Request.Context(), ledgerdomain.AwardRequest{
		KidID:     kidID,
		Source:    ledgerdomain.SourceBonus,
		SourceRef: sourceRef,
		Amount:    req.Amount,
		Note:      strings.TrimSpace(req.Note),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	message := "Moons awarded"
	if !award.Awarded {
		message = "Already awarded"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "award": award, "message": message})
}

func (s *Server) MoonHistory(c *gin.Context) {
	resp, err := s.ledgerSvc.History(c.Request.Context(), ledgerdomain.HistoryRequest{
		KidID: c.Query("kidId"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
