package service

import "errors"

var (
	// ErrRewardExists is returned when attempting to create a reward whose name is taken
	ErrRewardExists = errors.New("reward already exists")

	// ErrRewardNotFound is returned when a reward cannot be found
	ErrRewardNotFound = errors.New("reward not found")

	// ErrUserNotFound is returned when the user's balance row does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInsufficientPoints is returned when the locked balance cannot cover the reward cost
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrDuplicateRedemption is returned when the same user redeemed the same
	// reward within the duplicate-suppression window. This is a replay guard,
	// not a business rule: repeat purchases outside the window are allowed.
	ErrDuplicateRedemption = errors.New("duplicate redemption detected")

	// ErrNotificationNotFound is returned when a notification does not exist
	// or belongs to a different user
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrCacheMiss is returned by cache implementations when a key is absent
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnavailable is returned after transient transaction failures exhaust
	// their retry budget. The redemption was fully rolled back; the caller
	// may safely retry the whole operation.
	ErrUnavailable = errors.New("service temporarily unavailable")
)
