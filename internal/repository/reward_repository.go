package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/internal/service"
	"github.com/campushub/rewards-service/pkg/database"
)

// psql builds queries with PostgreSQL placeholders ($1, $2, ...).
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RewardRepository provides data access for the reward catalog using pgx.
type RewardRepository struct {
	pool PoolInterface
}

// NewRewardRepository creates a new RewardRepository with the given pool.
func NewRewardRepository(pool *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{pool: pool}
}

// NewRewardRepositoryWithPool creates a new RewardRepository with a custom pool interface.
// This is primarily used for testing.
func NewRewardRepositoryWithPool(pool PoolInterface) *RewardRepository {
	return &RewardRepository{pool: pool}
}

// Insert inserts a new reward into the catalog.
// Returns service.ErrRewardExists if a reward with the same name already exists.
func (r *RewardRepository) Insert(ctx context.Context, reward *model.Reward) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO rewards (id, name, description, image_url, cost) VALUES ($1, $2, $3, $4, $5)`,
		reward.ID, reward.Name, reward.Description, reward.ImageURL, reward.Cost)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrRewardExists
		}
		return fmt.Errorf("insert reward: %w", err)
	}
	return nil
}

// List returns all rewards ordered by cost ascending.
// On success, returns an empty slice (not nil) when the catalog is empty.
func (r *RewardRepository) List(ctx context.Context) ([]model.Reward, error) {
	query, args, err := psql.
		Select("id", "name", "description", "image_url", "cost", "created_at").
		From("rewards").
		OrderBy("cost ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build rewards query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		var reward model.Reward
		if err := rows.Scan(
			&reward.ID,
			&reward.Name,
			&reward.Description,
			&reward.ImageURL,
			&reward.Cost,
			&reward.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, reward)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rewards rows: %w", err)
	}

	// Return empty slice, not nil
	if rewards == nil {
		rewards = []model.Reward{}
	}

	return rewards, nil
}

// GetForUpdate retrieves a reward with a row lock (SELECT FOR UPDATE).
// This locks the row until the transaction completes, serializing
// concurrent redemptions of the same reward and any cost reads with them.
// Returns service.ErrRewardNotFound if the reward doesn't exist.
func (r *RewardRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Reward, error) {
	query := `SELECT id, name, description, image_url, cost, created_at FROM rewards WHERE id = $1 FOR UPDATE`

	var reward model.Reward
	err := tx.QueryRow(ctx, query, id).Scan(
		&reward.ID,
		&reward.Name,
		&reward.Description,
		&reward.ImageURL,
		&reward.Cost,
		&reward.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrRewardNotFound
		}
		return nil, fmt.Errorf("get reward for update %s: %w", id, err)
	}
	return &reward, nil
}
