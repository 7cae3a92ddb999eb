package domain

import (
	"context"
	"errors"
	"time"

	"github.com/moonstead/moonstead/pkg/db/pagination"
)

type CreateAssignmentRequest struct {
	KidID     string
	Title     string
	Subject   string
	DueDate   *time.Time
	MoonValue int
}

type ListAssignmentsRequest struct {
	KidID string
	pagination.Pagination
}

type ListAssignmentsResponse struct {
	Assignments []Assignment         `json:"assignments"`
	PageInfo    *pagination.PageInfo `json:"pageInfo"`
}

type CompleteAssignmentRequest struct {
	ID string
}

// CompleteAssignmentResult reports the completion and, when the award hook
// succeeded, the resulting balance. Awarded stays false on repeat completions
// and when the award failed after the completion persisted.
type CompleteAssignmentResult struct {
	Assignment Assignment `json:"assignment"`
	Awarded    bool       `json:"awarded"`
	NewBalance int        `json:"newMoonBalance"`
}

type Service interface {
	Create(context.Context, CreateAssignmentRequest) (Assignment, error)
	List(context.Context, ListAssignmentsRequest) (ListAssignmentsResponse, error)
	Complete(context.Context, CompleteAssignmentRequest) (CompleteAssignmentResult, error)
}

var (
	ErrInvalidID    = errors.New("invalid_assignment_id")
	ErrInvalidTitle = errors.New("invalid_title")
	ErrInvalidValue = errors.New("invalid_moon_value")
	ErrNotFound     = errors.New("assignment_not_found")
)
