package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	journaldomain "github.com/moonstead/moonstead/internal/journal/domain"
)

type submitJournalRequest struct {
	KidID string `json:"kidId"`
	Body  string `json:"body"`
}

func (s *Server) SubmitJournalEntry(c *gin.Context) {
	var req submitJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.journalSvc.Submit(c.Request.Context(), journaldomain.SubmitEntryRequest{
		KidID: strings.TrimSpace(req.KidID),
		Body:  req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"entry":          resp.Entry,
		"awarded":        resp.Awarded,
		"newMoonBalance": resp.NewBalance,
	})
}

func (s *Server) ListJournalEntries(c *gin.Context) {
	resp, err := s.journalSvc.List(c.Request.Context(), journaldomain.ListEntriesRequest{
		KidID: c.Query("kidId"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
