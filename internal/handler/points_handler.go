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

// PointsServiceInterface defines the balance and leaderboard reads.
type PointsServiceInterface interface {
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
}

// RedemptionHistoryInterface lists a user's redemption ledger entries.
type RedemptionHistoryInterface interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Redemption, error)
}

// PointsHandler handles HTTP requests for balances, history and the leaderboard.
type PointsHandler struct {
	service PointsServiceInterface
	history RedemptionHistoryInterface
}

// NewPointsHandler creates a new PointsHandler.
func NewPointsHandler(svc PointsServiceInterface, history RedemptionHistoryInterface) *PointsHandler {
	return &PointsHandler{service: svc, history: history}
}

// Balance handles GET /api/points/balance requests.
func (h *PointsHandler) Balance(c *fiber.Ctx) error {
	uid := userID(c)
	points, err := h.service.Balance(c.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.Error().Err(err).Stringer("user_id", uid).Msg("failed to get balance")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(model.BalanceResponse{TotalPoints: points})
}

// History handles GET /api/points/history requests.
func (h *PointsHandler) History(c *fiber.Ctx) error {
	uid := userID(c)
	redemptions, err := h.history.ListByUser(c.Context(), uid)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", uid).Msg("failed to list redemption history")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(redemptions)
}

// Leaderboard handles GET /api/leaderboard requests.
func (h *PointsHandler) Leaderboard(c *fiber.Ctx) error {
	entries, err := h.service.Leaderboard(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to get leaderboard")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(entries)
}
