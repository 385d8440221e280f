package model

import (
	"time"

	"github.com/google/uuid"
)

// Reward represents a catalog reward students can redeem points for.
type Reward struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Cost        int       `json:"cost"`
	CreatedAt   time.Time `json:"-"` // Not exposed in API
}

// Redemption is one append-only ledger entry. PointsSpent snapshots the
// reward's cost at redemption time and never changes, even if the catalog
// price does.
type Redemption struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	RewardID    uuid.UUID `json:"reward_id"`
	PointsSpent int       `json:"points_spent"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}

// RedemptionResult is the API response DTO for POST /api/rewards/:id/redeem
type RedemptionResult struct {
	Message         string `json:"message"`
	RemainingPoints int    `json:"remaining_points"`
}

// CreateRewardRequest is the DTO for creating a reward
type CreateRewardRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Cost        *int   `json:"cost" validate:"required,gte=1"`
	Description string `json:"description" validate:"max=1000"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=2048"`
}
