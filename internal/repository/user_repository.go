package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/internal/service"
	"github.com/campushub/rewards-service/pkg/database"
)

// UserRepository provides data access for user point balances using pgx.
// Every mutation of total_points goes through the guarded statements here;
// no other code path may touch the column.
type UserRepository struct {
	pool PoolInterface
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a new UserRepository with a custom pool interface.
// This is primarily used for testing.
func NewUserRepositoryWithPool(pool PoolInterface) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetBalance returns the user's current point total.
// Returns service.ErrUserNotFound if the user doesn't exist.
func (r *UserRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var points int
	err := r.pool.QueryRow(ctx,
		`SELECT total_points FROM users WHERE id = $1`, userID).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrUserNotFound
		}
		return 0, fmt.Errorf("get balance for %s: %w", userID, err)
	}
	return points, nil
}

// GetBalanceForUpdate retrieves the user's balance with a row lock
// (SELECT FOR UPDATE). The lock blocks other redemptions by the same user
// until the transaction completes. Must be called after the reward row is
// locked, never before.
// Returns service.ErrUserNotFound if the user doesn't exist.
func (r *UserRepository) GetBalanceForUpdate(ctx context.Context, tx database.TxQuerier, userID uuid.UUID) (int, error) {
	var points int
	err := tx.QueryRow(ctx,
		`SELECT total_points FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrUserNotFound
		}
		return 0, fmt.Errorf("get balance for update %s: %w", userID, err)
	}
	return points, nil
}

// DeductPoints decrements the user's balance and returns the new total.
// The update is conditional on the balance covering the amount, so even a
// caller that skipped the affordability check cannot drive the balance
// negative. Must be called within a transaction after locking the row.
// Returns service.ErrInsufficientPoints if the condition fails.
func (r *UserRepository) DeductPoints(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, points int) (int, error) {
	var remaining int
	err := tx.QueryRow(ctx,
		`UPDATE users
		 SET total_points = total_points - $1
		 WHERE id = $2 AND total_points >= $1
		 RETURNING total_points`,
		points, userID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrInsufficientPoints
		}
		return 0, fmt.Errorf("deduct %d points from %s: %w", points, userID, err)
	}
	return remaining, nil
}

// AddPoints credits points to the user's balance and returns the new total.
// Check-in awards live in another service; this single guarded statement
// exists so seeds and tests never write total_points directly.
func (r *UserRepository) AddPoints(ctx context.Context, userID uuid.UUID, points int) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET total_points = total_points + $1 WHERE id = $2 RETURNING total_points`,
		points, userID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrUserNotFound
		}
		return 0, fmt.Errorf("add %d points to %s: %w", points, userID, err)
	}
	return total, nil
}

// Leaderboard returns the top students by point total, descending.
// On success, returns an empty slice (not nil) when there are no students.
func (r *UserRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	query, args, err := psql.
		Select("id", "name", "total_points").
		From("users").
		Where(sq.Eq{"role": model.RoleStudent}).
		OrderBy("total_points DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var entry model.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Name, &entry.TotalPoints); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard rows: %w", err)
	}

	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	return entries, nil
}
