package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/campushub/rewards-service/internal/metrics"
	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/pkg/database"
)

// RewardRepositoryInterface defines the interface for reward catalog access.
type RewardRepositoryInterface interface {
	Insert(ctx context.Context, reward *model.Reward) error
	List(ctx context.Context) ([]model.Reward, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Reward, error)
}

// UserRepositoryInterface defines the interface for balance access.
type UserRepositoryInterface interface {
	GetBalanceForUpdate(ctx context.Context, tx database.TxQuerier, userID uuid.UUID) (int, error)
	DeductPoints(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, points int) (int, error)
}

// RedemptionRepositoryInterface defines the interface for the append-only ledger.
type RedemptionRepositoryInterface interface {
	ExistsWithin(ctx context.Context, tx database.TxQuerier, userID, rewardID uuid.UUID, window time.Duration) (bool, error)
	Insert(ctx context.Context, tx database.TxQuerier, redemption *model.Redemption) error
}

// NotificationWriterInterface is the notification sink the ledger emits to.
type NotificationWriterInterface interface {
	Insert(ctx context.Context, notification *model.Notification) error
}

// BalanceCacheInterface invalidates cached balances after a redemption.
// A nil cache is valid and means caching is disabled.
type BalanceCacheInterface interface {
	InvalidateBalance(ctx context.Context, userID uuid.UUID) error
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RewardService provides the reward catalog and the redemption ledger.
type RewardService struct {
	pool           TxBeginner
	rewardRepo     RewardRepositoryInterface
	userRepo       UserRepositoryInterface
	redemptionRepo RedemptionRepositoryInterface
	notifications  NotificationWriterInterface
	cache          BalanceCacheInterface
	dedupWindow    time.Duration
	maxAttempts    int
}

// RewardServiceOptions carries the ledger tuning knobs.
type RewardServiceOptions struct {
	DedupWindow time.Duration
	MaxAttempts int
}

// NewRewardService creates a RewardService. cache may be nil to disable
// balance-cache invalidation.
func NewRewardService(
	pool *pgxpool.Pool,
	rewardRepo RewardRepositoryInterface,
	userRepo UserRepositoryInterface,
	redemptionRepo RedemptionRepositoryInterface,
	notifications NotificationWriterInterface,
	cache BalanceCacheInterface,
	opts RewardServiceOptions,
) *RewardService {
	return newRewardService(pool, rewardRepo, userRepo, redemptionRepo, notifications, cache, opts)
}

// NewRewardServiceWithTxBeginner creates a RewardService with a custom
// TxBeginner. Primarily used for testing.
func NewRewardServiceWithTxBeginner(
	pool TxBeginner,
	rewardRepo RewardRepositoryInterface,
	userRepo UserRepositoryInterface,
	redemptionRepo RedemptionRepositoryInterface,
	notifications NotificationWriterInterface,
	cache BalanceCacheInterface,
	opts RewardServiceOptions,
) *RewardService {
	return newRewardService(pool, rewardRepo, userRepo, redemptionRepo, notifications, cache, opts)
}

func newRewardService(
	pool TxBeginner,
	rewardRepo RewardRepositoryInterface,
	userRepo UserRepositoryInterface,
	redemptionRepo RedemptionRepositoryInterface,
	notifications NotificationWriterInterface,
	cache BalanceCacheInterface,
	opts RewardServiceOptions,
) *RewardService {
	if opts.DedupWindow <= 0 {
		opts.DedupWindow = 5 * time.Second
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &RewardService{
		pool:           pool,
		rewardRepo:     rewardRepo,
		userRepo:       userRepo,
		redemptionRepo: redemptionRepo,
		notifications:  notifications,
		cache:          cache,
		dedupWindow:    opts.DedupWindow,
		maxAttempts:    opts.MaxAttempts,
	}
}

// Create creates a new catalog reward from the request.
// Returns ErrRewardExists if a reward with the same name already exists.
// Returns ErrInvalidRequest if request data is nil or incomplete.
func (s *RewardService) Create(ctx context.Context, req *model.CreateRewardRequest) (*model.Reward, error) {
	// Defense-in-depth: check for nil pointer even though handler validates
	if req == nil || req.Cost == nil {
		return nil, ErrInvalidRequest
	}

	reward := &model.Reward{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Cost:        *req.Cost,
	}
	if err := s.rewardRepo.Insert(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// List returns all catalog rewards ordered by cost ascending.
func (s *RewardService) List(ctx context.Context) ([]model.Reward, error) {
	rewards, err := s.rewardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	return rewards, nil
}

// Redeem atomically exchanges points for a reward.
//
// The whole check-and-deduct runs inside one transaction with row locks
// (SELECT FOR UPDATE) taken in a fixed order: reward row first, then the
// user's balance row. The user-row lock serializes concurrent redemptions
// by the same user, so two requests can never both pass the affordability
// check against a stale balance.
//
// Transient transaction failures are retried up to the configured attempt
// budget; each retry starts the transaction from scratch. Returns:
//   - ErrRewardNotFound if the reward doesn't exist
//   - ErrUserNotFound if the balance row doesn't exist
//   - ErrDuplicateRedemption on a replay inside the suppression window
//   - ErrInsufficientPoints if the balance cannot cover the cost
//   - ErrUnavailable after the retry budget is exhausted
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*model.RedemptionResult, error) {
	var (
		remaining int
		reward    *model.Reward
		err       error
	)

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * 100 * time.Millisecond
			log.Warn().
				Err(err).
				Stringer("user_id", userID).
				Stringer("reward_id", rewardID).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("retrying redemption after transient failure")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		remaining, reward, err = s.redeemOnce(ctx, userID, rewardID)
		if err == nil || !database.IsTransient(err) {
			break
		}
	}
	if err != nil {
		if database.IsTransient(err) {
			metrics.RedemptionsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		metrics.RedemptionsTotal.WithLabelValues(redemptionOutcome(err)).Inc()
		return nil, err
	}

	metrics.RedemptionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.PointsSpentTotal.Add(float64(reward.Cost))

	// The financial transaction has committed; the notification is
	// best-effort and must never undo it.
	s.emitRedemptionNotification(ctx, userID, reward)

	if s.cache != nil {
		if cacheErr := s.cache.InvalidateBalance(ctx, userID); cacheErr != nil {
			log.Warn().Err(cacheErr).Stringer("user_id", userID).Msg("failed to invalidate balance cache")
		}
	}

	return &model.RedemptionResult{
		Message:         "Reward redeemed successfully",
		RemainingPoints: remaining,
	}, nil
}

// redeemOnce runs one attempt of the redemption transaction.
func (s *RewardService) redeemOnce(ctx context.Context, userID, rewardID uuid.UUID) (int, *model.Reward, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the reward row. Lock order is always reward before user; every
	// code path touching both rows must keep that order.
	reward, err := s.rewardRepo.GetForUpdate(ctx, tx, rewardID)
	if err != nil {
		if errors.Is(err, ErrRewardNotFound) {
			return 0, nil, ErrRewardNotFound
		}
		return 0, nil, fmt.Errorf("get reward for update: %w", err)
	}

	// 2. Lock the user's balance row
	balance, err := s.userRepo.GetBalanceForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return 0, nil, ErrUserNotFound
		}
		return 0, nil, fmt.Errorf("get balance for update: %w", err)
	}

	// 3. Replay guard: reject a second redemption of the same reward inside
	// the suppression window
	duplicate, err := s.redemptionRepo.ExistsWithin(ctx, tx, userID, rewardID, s.dedupWindow)
	if err != nil {
		return 0, nil, fmt.Errorf("check duplicate redemption: %w", err)
	}
	if duplicate {
		return 0, nil, ErrDuplicateRedemption
	}

	// 4. Affordability check against the locked balance
	if balance < reward.Cost {
		return 0, nil, ErrInsufficientPoints
	}

	// 5. Conditional decrement, guarded by the lock already held
	remaining, err := s.userRepo.DeductPoints(ctx, tx, userID, reward.Cost)
	if err != nil {
		return 0, nil, fmt.Errorf("deduct points: %w", err)
	}

	// 6. Append the ledger entry with the cost snapshotted
	redemption := &model.Redemption{
		ID:          uuid.New(),
		UserID:      userID,
		RewardID:    rewardID,
		PointsSpent: reward.Cost,
	}
	if err := s.redemptionRepo.Insert(ctx, tx, redemption); err != nil {
		return 0, nil, fmt.Errorf("insert redemption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("commit redemption: %w", err)
	}
	return remaining, reward, nil
}

// redemptionOutcome maps a terminal redemption error to its metric label.
func redemptionOutcome(err error) string {
	switch {
	case errors.Is(err, ErrRewardNotFound), errors.Is(err, ErrUserNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInsufficientPoints):
		return metrics.OutcomeInsufficientPoints
	case errors.Is(err, ErrDuplicateRedemption):
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeError
	}
}

func (s *RewardService) emitRedemptionNotification(ctx context.Context, userID uuid.UUID, reward *model.Reward) {
	if s.notifications == nil || reward == nil {
		return
	}
	notification := &model.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    model.NotificationTypePoints,
		Title:   "Reward Redeemed",
		Message: fmt.Sprintf("You redeemed %s for %d points.", reward.Name, reward.Cost),
	}
	if err := s.notifications.Insert(ctx, notification); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		log.Warn().
			Err(err).
			Stringer("user_id", userID).
			Stringer("reward_id", reward.ID).
			Msg("failed to write redemption notification")
	}
}
