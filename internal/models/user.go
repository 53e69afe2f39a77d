package models

import "time"

// User is an account in the identity store. Employees reference a user;
// customers are plain users without an employee record.
type User struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// TokenPayload is the verified content of an auth token.
type TokenPayload struct {
	UserID uint64
	Name   string
	Email  string
}
