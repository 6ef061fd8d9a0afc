package model

import "time"

// UserID uniquely identifies a user
type UserID string

// User is a registered account. Users are immutable once created.
type User struct {
	ID           UserID    `json:"id"`
	Username     string    `json:"username"` // unique, case-sensitive
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash string    `json:"passwordHash"` // bcrypt hash
}
