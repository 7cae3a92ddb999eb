package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// BonusAmountMin and BonusAmountMax bound a single manual parent bonus.
const (
	BonusAmountMin = 1
	BonusAmountMax = 100
)

// HistoryLookback is the window shown by the history endpoint.
const HistoryLookback = 30 * 24 * time.Hour

// HistoryLimit caps the number of returned transactions.
const HistoryLimit = 100

type AwardRequest struct {
	KidID     snowflake.ID
	Date      time.Time // zero means today
	Source    MoonSource
	SourceRef string // idempotency key within (kid, date)
	Amount    int    // positive
	Note      string
}

type AwardResult struct {
	Awarded     bool             `json:"awarded"` // false when the award already existed
	NewBalance  int              `json:"newMoonBalance"`
	Transaction *MoonTransaction `json:"transaction,omitempty"` // nil when not awarded
}

type HistoryRequest struct {
	KidID string
}

type HistoryResponse struct {
	Transactions []MoonTransaction `json:"transactions"`
	TotalMoons   int               `json:"totalMoons"`
}

type Service interface {
	Award(context.Context, AwardRequest) (AwardResult, error)
	History(context.Context, HistoryRequest) (HistoryResponse, error)
}

var (
	ErrInvalidKid       = errors.New("invalid_kid_id")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidSource    = errors.New("invalid_source")
	ErrInvalidSourceRef = errors.New("invalid_source_ref")
)
