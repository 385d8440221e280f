package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/internal/service"
)

// RedeemServiceInterface defines the interface for the redemption ledger.
type RedeemServiceInterface interface {
	Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*model.RedemptionResult, error)
}

// RedeemHandler handles HTTP requests for reward redemption.
type RedeemHandler struct {
	service RedeemServiceInterface
}

// NewRedeemHandler creates a new RedeemHandler with the given service.
func NewRedeemHandler(svc RedeemServiceInterface) *RedeemHandler {
	return &RedeemHandler{service: svc}
}

// Redeem handles POST /api/rewards/:id/redeem requests.
// Every outcome is definitive: success with the new balance, reward not
// found, insufficient points, duplicate submission, or a fully rolled-back
// failure. No response ever reflects a partial state.
func (h *RedeemHandler) Redeem(c *fiber.Ctx) error {
	rewardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reward id"})
	}

	uid := userID(c)
	result, err := h.service.Redeem(c.Context(), uid, rewardID)
	if err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		if errors.Is(err, service.ErrInsufficientPoints) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient points"})
		}
		if errors.Is(err, service.ErrDuplicateRedemption) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Duplicate redemption detected"})
		}
		if errors.Is(err, service.ErrUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "service temporarily unavailable"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Stringer("user_id", uid).
			Stringer("reward_id", rewardID).
			Msg("failed to redeem reward")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to redeem reward"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Stringer("user_id", uid).
		Stringer("reward_id", rewardID).
		Int("remaining_points", result.RemainingPoints).
		Msg("reward redeemed")

	return c.JSON(result)
}
