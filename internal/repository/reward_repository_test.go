package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/internal/service"
)

// mockRow implements pgx.Row for testing QueryRow-based methods.
type mockRow struct {
	scanFn func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.scanFn != nil {
		return m.scanFn(dest...)
	}
	return nil
}

// mockRewardRows implements pgx.Rows over a fixed reward slice.
type mockRewardRows struct {
	data      []model.Reward
	index     int
	errOnScan error
	errOnRows error
}

func (m *mockRewardRows) Close()     {}
func (m *mockRewardRows) Err() error { return m.errOnRows }

func (m *mockRewardRows) Next() bool {
	if m.index < len(m.data) {
		m.index++
		return true
	}
	return false
}

func (m *mockRewardRows) Scan(dest ...any) error {
	if m.errOnScan != nil {
		return m.errOnScan
	}
	reward := m.data[m.index-1]
	*(dest[0].(*uuid.UUID)) = reward.ID
	*(dest[1].(*string)) = reward.Name
	*(dest[2].(*string)) = reward.Description
	*(dest[3].(*string)) = reward.ImageURL
	*(dest[4].(*int)) = reward.Cost
	*(dest[5].(*time.Time)) = reward.CreatedAt
	return nil
}

func (m *mockRewardRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRewardRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRewardRows) RawValues() [][]byte                          { return nil }
func (m *mockRewardRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRewardRows) Conn() *pgx.Conn                              { return nil }

// mockPool implements PoolInterface for testing.
type mockPool struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockPool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &mockRewardRows{}, nil
}

func TestRewardRepository_Insert_Success(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any

	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	repo := NewRewardRepositoryWithPool(mock)
	reward := &model.Reward{
		ID:   uuid.New(),
		Name: "Campus Hoodie",
		Cost: 100,
	}

	err := repo.Insert(context.Background(), reward)

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "INSERT INTO rewards")
	assert.Equal(t, reward.ID, capturedArgs[0])
	assert.Equal(t, "Campus Hoodie", capturedArgs[1])
	assert.Equal(t, 100, capturedArgs[4])
}

func TestRewardRepository_Insert_Duplicate(t *testing.T) {
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			// Simulate PostgreSQL unique violation error (code 23505)
			pgErr := &pgconn.PgError{
				Code:    "23505",
				Message: "duplicate key value violates unique constraint",
			}
			return pgconn.CommandTag{}, pgErr
		},
	}

	repo := NewRewardRepositoryWithPool(mock)
	err := repo.Insert(context.Background(), &model.Reward{ID: uuid.New(), Name: "Campus Hoodie", Cost: 100})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRewardExists), "should return ErrRewardExists for duplicate")
}

func TestRewardRepository_Insert_DatabaseError(t *testing.T) {
	dbErr := errors.New("connection refused")
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}

	repo := NewRewardRepositoryWithPool(mock)
	err := repo.Insert(context.Background(), &model.Reward{ID: uuid.New(), Name: "Campus Hoodie", Cost: 100})

	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrRewardExists))
	assert.Contains(t, err.Error(), "insert reward")
}

func TestRewardRepository_List_Success(t *testing.T) {
	var capturedSQL string
	rewards := []model.Reward{
		{ID: uuid.New(), Name: "Coffee Voucher", Cost: 50},
		{ID: uuid.New(), Name: "Campus Hoodie", Cost: 100},
	}
	mock := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			capturedSQL = sql
			return &mockRewardRows{data: rewards}, nil
		},
	}

	repo := NewRewardRepositoryWithPool(mock)
	got, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, rewards, got)
	assert.Contains(t, capturedSQL, "ORDER BY cost ASC")
}

func TestRewardRepository_List_Empty(t *testing.T) {
	repo := NewRewardRepositoryWithPool(&mockPool{})
	got, err := repo.List(context.Background())

	require.NoError(t, err)
	require.NotNil(t, got, "should return empty slice, not nil")
	assert.Len(t, got, 0)
}

func TestRewardRepository_List_RowsError(t *testing.T) {
	rowsErr := errors.New("connection reset")
	mock := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &mockRewardRows{errOnRows: rowsErr}, nil
		},
	}

	repo := NewRewardRepositoryWithPool(mock)
	_, err := repo.List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterate rewards rows")
}

func TestRewardRepository_GetForUpdate_Success(t *testing.T) {
	rewardID := uuid.New()
	var capturedSQL string
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedSQL = sql
			return &mockRow{
				scanFn: func(dest ...any) error {
					*(dest[0].(*uuid.UUID)) = rewardID
					*(dest[1].(*string)) = "Campus Hoodie"
					*(dest[4].(*int)) = 100
					return nil
				},
			}
		},
	}

	repo := NewRewardRepositoryWithPool(mock)
	reward, err := repo.GetForUpdate(context.Background(), mock, rewardID)

	require.NoError(t, err)
	assert.Equal(t, rewardID, reward.ID)
	assert.Equal(t, 100, reward.Cost)
	assert.Contains(t, capturedSQL, "FOR UPDATE", "the read must take a row lock")
}

func TestRewardRepository_GetForUpdate_NotFound(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{
				scanFn: func(dest ...any) error {
					return pgx.ErrNoRows
				},
			}
		},
	}

	repo := NewRewardRepositoryWithPool(mock)
	reward, err := repo.GetForUpdate(context.Background(), mock, uuid.New())

	require.Error(t, err)
	assert.Nil(t, reward)
	assert.True(t, errors.Is(err, service.ErrRewardNotFound))
}
