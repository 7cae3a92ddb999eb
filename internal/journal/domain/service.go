package domain

import (
	"context"
	"errors"
	"time"
)

// AwardAmount is what one journal day earns. Multiple entries on the same day
// share one award.
const (
	AwardAmount  = 5
	ListLookback = 30 * 24 * time.Hour
	ListLimit    = 100
)

type SubmitEntryRequest struct {
	KidID string
	Body  string
}

type SubmitEntryResult struct {
	Entry      JournalEntry `json:"entry"`
	Awarded    bool         `json:"awarded"`
	NewBalance int          `json:"newMoonBalance"`
}

type ListEntriesRequest struct {
	KidID string
}

type ListEntriesResponse struct {
	Entries []JournalEntry `json:"entries"`
}

type Service interface {
	Submit(context.Context, SubmitEntryRequest) (SubmitEntryResult, error)
	List(context.Context, ListEntriesRequest) (ListEntriesResponse, error)
}

var ErrInvalidBody = errors.New("invalid_body")
