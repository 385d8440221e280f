package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/pkg/database"
)

// RedemptionRepository provides data access for the append-only redemption
// ledger. Rows are only ever inserted; there is no update or delete here.
type RedemptionRepository struct {
	pool PoolInterface
}

// NewRedemptionRepository creates a new RedemptionRepository with the given pool.
func NewRedemptionRepository(pool *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// NewRedemptionRepositoryWithPool creates a new RedemptionRepository with a custom pool interface.
// This is primarily used for testing.
func NewRedemptionRepositoryWithPool(pool PoolInterface) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// ExistsWithin reports whether the user redeemed the reward within the last
// window. Must be called within a transaction after the user row is locked,
// so a concurrent redemption by the same user cannot slip past the check.
func (r *RedemptionRepository) ExistsWithin(ctx context.Context, tx database.TxQuerier, userID, rewardID uuid.UUID, window time.Duration) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM redemptions
		WHERE user_id = $1 AND reward_id = $2
		AND redeemed_at > NOW() - make_interval(secs => $3)
	)`

	var exists bool
	err := tx.QueryRow(ctx, query, userID, rewardID, window.Seconds()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check recent redemption: %w", err)
	}
	return exists, nil
}

// Insert appends a redemption record within a transaction. The store sets
// redeemed_at at insert time; points_spent arrives already snapshotted.
func (r *RedemptionRepository) Insert(ctx context.Context, tx database.TxQuerier, redemption *model.Redemption) error {
	query := `INSERT INTO redemptions (id, user_id, reward_id, points_spent) VALUES ($1, $2, $3, $4)`

	_, err := tx.Exec(ctx, query, redemption.ID, redemption.UserID, redemption.RewardID, redemption.PointsSpent)
	if err != nil {
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

// ListByUser returns the user's redemption history, newest first.
// On success, returns an empty slice (not nil) when no redemptions exist.
func (r *RedemptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Redemption, error) {
	query := `SELECT id, user_id, reward_id, points_spent, redeemed_at
		FROM redemptions WHERE user_id = $1 ORDER BY redeemed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list redemptions for %s: %w", userID, err)
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		var redemption model.Redemption
		if err := rows.Scan(
			&redemption.ID,
			&redemption.UserID,
			&redemption.RewardID,
			&redemption.PointsSpent,
			&redemption.RedeemedAt,
		); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, redemption)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemptions rows: %w", err)
	}

	if redemptions == nil {
		redemptions = []model.Redemption{}
	}

	return redemptions, nil
}
