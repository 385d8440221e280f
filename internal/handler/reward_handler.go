package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/internal/service"
)

// RewardServiceInterface defines the interface for reward catalog logic.
type RewardServiceInterface interface {
	Create(ctx context.Context, req *model.CreateRewardRequest) (*model.Reward, error)
	List(ctx context.Context) ([]model.Reward, error)
}

// RewardHandler handles HTTP requests for reward catalog operations.
type RewardHandler struct {
	service   RewardServiceInterface
	validator *validator.Validate
}

// NewRewardHandler creates a new RewardHandler with the given service and validator.
func NewRewardHandler(svc RewardServiceInterface, v *validator.Validate) *RewardHandler {
	return &RewardHandler{service: svc, validator: v}
}

// formatValidationError converts validator errors to user-facing messages.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "name":
				if tag == "required" {
					return "invalid request: name is required"
				}
				if tag == "notblank" {
					return "invalid request: name cannot be whitespace only"
				}
				if tag == "max" {
					return "invalid request: name exceeds maximum length of 255"
				}
				return "invalid request: name is invalid"
			case "cost":
				if tag == "required" {
					return "invalid request: cost is required"
				}
				if tag == "gte" {
					return "invalid request: cost must be at least 1"
				}
				return "invalid request: cost is invalid"
			case "image_url":
				if tag == "url" {
					return "invalid request: image_url must be a valid URL"
				}
				return "invalid request: image_url is invalid"
			default:
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				if tag == "max" {
					return "invalid request: " + field + " exceeds maximum length"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// ListRewards handles GET /api/rewards requests.
func (h *RewardHandler) ListRewards(c *fiber.Ctx) error {
	rewards, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list rewards")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(rewards)
}

// CreateReward handles POST /api/rewards requests to add a catalog reward.
// Mounted behind RequireRole(admin, organizer).
func (h *RewardHandler) CreateReward(c *fiber.Ctx) error {
	var req model.CreateRewardRequest

	// Parse JSON body
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	reward, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrRewardExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "reward already exists"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("reward_name", req.Name).Msg("failed to create reward")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(reward)
}
