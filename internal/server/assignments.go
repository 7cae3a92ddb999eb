package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	assignmentdomain "github.com/moonstead/moonstead/internal/assignment/domain"
	"github.com/moonstead/moonstead/pkg/db/pagination"
)

type createAssignmentRequest struct {
	KidID     string `json:"kidId"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	DueDate   string `json:"dueDate"` // YYYY-MM-DD
	MoonValue int    `json:"moonValue"`
}

func (s *Server) CreateAssignment(c *gin.Context) {
	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var dueDate *time.Time
	if raw := strings.TrimSpace(req.DueDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		dueDate = &parsed
	}

	resp, err := s.assignmentSvc.Create(c.Request.Context(), assignmentdomain.CreateAssignmentRequest{
		KidID:     strings.TrimSpace(req.KidID),
		Title:     req.Title,
		Subject:   req.Subject,
		DueDate:   dueDate,
		MoonValue: req.MoonValue,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": resp})
}

func (s *Server) ListAssignments(c *gin.Context) {
	var query struct {
		KidID string `form:"kidId"`
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.assignmentSvc.List(c.Request.Context(), assignmentdomain.ListAssignmentsRequest{
		KidID:      strings.TrimSpace(query.KidID),
		Pagination: query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CompleteAssignment(c *gin.Context) {
	resp, err := s.assignmentSvc.Complete(c.Request.Context(), assignmentdomain.CompleteAssignmentRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"assignment":     resp.Assignment,
		"awarded":        resp.Awarded,
		"newMoonBalance": resp.NewBalance,
	})
}
