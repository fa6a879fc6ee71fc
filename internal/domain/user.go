package domain

import "time"

// User represents an account that owns leads, contacts and templates.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity returns the caller identity bound to this user.
func (u *User) Identity() Identity {
	if u == nil {
		return Identity{}
	}
	return Identity{UserID: u.ID}
}

// Identity is the verified caller of a single request. Every owner-scoped
// operation receives it explicitly.
type Identity struct {
	UserID string
}

// Valid reports whether the identity refers to a user.
func (i Identity) Valid() bool {
	return i.UserID != ""
}
