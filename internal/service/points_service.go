package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campushub/rewards-service/internal/model"
)

// BalanceReaderInterface defines the balance and leaderboard reads.
type BalanceReaderInterface interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// BalanceCacheReaderInterface is the read side of the balance cache.
// A nil cache is valid and means caching is disabled.
type BalanceCacheReaderInterface interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	SetBalance(ctx context.Context, userID uuid.UUID, points int) error
}

// PointsService serves balance and leaderboard reads, with a cache in
// front of the balance lookup. Cache failures degrade to database reads.
type PointsService struct {
	users            BalanceReaderInterface
	cache            BalanceCacheReaderInterface
	leaderboardLimit int
}

// NewPointsService creates a PointsService. cache may be nil.
func NewPointsService(users BalanceReaderInterface, cache BalanceCacheReaderInterface, leaderboardLimit int) *PointsService {
	if leaderboardLimit < 1 {
		leaderboardLimit = 50
	}
	return &PointsService{
		users:            users,
		cache:            cache,
		leaderboardLimit: leaderboardLimit,
	}
}

// Balance returns the user's current spendable point total.
// Returns ErrUserNotFound if the user has no balance row.
func (s *PointsService) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	if s.cache != nil {
		points, err := s.cache.GetBalance(ctx, userID)
		if err == nil {
			return points, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn().Err(err).Stringer("user_id", userID).Msg("balance cache read failed")
		}
	}

	points, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, userID, points); err != nil {
			log.Warn().Err(err).Stringer("user_id", userID).Msg("balance cache write failed")
		}
	}
	return points, nil
}

// Leaderboard returns the top students by point total.
func (s *PointsService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	entries, err := s.users.Leaderboard(ctx, s.leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}
