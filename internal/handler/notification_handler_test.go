package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/internal/service"
)

// mockNotificationService is a mock implementation of NotificationServiceInterface.
type mockNotificationService struct {
	listFn     func(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	markReadFn func(ctx context.Context, id, userID uuid.UUID) error
	deleteFn   func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockNotificationService) List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return []model.Notification{}, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, id, userID)
	}
	return nil
}

func (m *mockNotificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func setupNotificationTestApp(mockSvc *mockNotificationService) *fiber.App {
	app := fiber.New()
	h := NewNotificationHandler(mockSvc)
	app.Get("/api/notifications", RequireUser(), h.List)
	app.Patch("/api/notifications/:id/read", RequireUser(), h.MarkRead)
	app.Delete("/api/notifications/:id", RequireUser(), h.Delete)
	return app
}

func TestNotificationList_Success(t *testing.T) {
	userID := uuid.New()
	mockSvc := &mockNotificationService{
		listFn: func(ctx context.Context, id uuid.UUID) ([]model.Notification, error) {
			assert.Equal(t, userID, id)
			return []model.Notification{
				{ID: uuid.New(), Type: model.NotificationTypePoints, Title: "Reward Redeemed"},
			}, nil
		},
	}
	app := setupNotificationTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set(HeaderUserID, userID.String())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var notifications []model.Notification
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&notifications))
	require.Len(t, notifications, 1)
	assert.Equal(t, "Reward Redeemed", notifications[0].Title)
}

func TestNotificationMarkRead_Success(t *testing.T) {
	notificationID := uuid.New()
	var capturedID uuid.UUID
	mockSvc := &mockNotificationService{
		markReadFn: func(ctx context.Context, id, userID uuid.UUID) error {
			capturedID = id
			return nil
		},
	}
	app := setupNotificationTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/notifications/%s/read", notificationID), nil)
	req.Header.Set(HeaderUserID, uuid.NewString())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, notificationID, capturedID)
}

func TestNotificationMarkRead_NotFound(t *testing.T) {
	mockSvc := &mockNotificationService{
		markReadFn: func(ctx context.Context, id, userID uuid.UUID) error {
			return service.ErrNotificationNotFound
		},
	}
	app := setupNotificationTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/notifications/%s/read", uuid.New()), nil)
	req.Header.Set(HeaderUserID, uuid.NewString())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotificationDelete_Success(t *testing.T) {
	mockSvc := &mockNotificationService{}
	app := setupNotificationTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/notifications/%s", uuid.New()), nil)
	req.Header.Set(HeaderUserID, uuid.NewString())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNotificationDelete_InvalidID(t *testing.T) {
	app := setupNotificationTestApp(&mockNotificationService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/notifications/nope", nil)
	req.Header.Set(HeaderUserID, uuid.NewString())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
