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

// NotificationServiceInterface defines notification business logic.
type NotificationServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	service NotificationServiceInterface
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(svc NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List handles GET /api/notifications requests.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	uid := userID(c)
	notifications, err := h.service.List(c.Context(), uid)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", uid).Msg("failed to list notifications")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(notifications)
}

// MarkRead handles PATCH /api/notifications/:id/read requests.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notification id"})
	}

	uid := userID(c)
	if err := h.service.MarkRead(c.Context(), id, uid); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "notification not found"})
		}
		log.Error().Err(err).Stringer("notification_id", id).Msg("failed to mark notification read")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"message": "Marked as read"})
}

// Delete handles DELETE /api/notifications/:id requests.
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notification id"})
	}

	uid := userID(c)
	if err := h.service.Delete(c.Context(), id, uid); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "notification not found"})
		}
		log.Error().Err(err).Stringer("notification_id", id).Msg("failed to delete notification")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"message": "Notification deleted"})
}
