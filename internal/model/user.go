package model

import "github.com/google/uuid"

// User roles as stored in the users table. Identity and role assignment
// belong to the auth gateway; this service only reads them.
const (
	RoleStudent   = "student"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User represents a platform user with their spendable point balance.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	TotalPoints int       `json:"total_points"`
}

// BalanceResponse is the API response DTO for GET /api/points/balance
type BalanceResponse struct {
	TotalPoints int `json:"total_points"`
}

// LeaderboardEntry is one row of GET /api/leaderboard
type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	TotalPoints int       `json:"total_points"`
}
