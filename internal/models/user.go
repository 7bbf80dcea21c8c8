package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is assigned by the store's identity counter.
	ID int64

	// Email is the user's email address (unique).
	// Used for login and for adding users to groups.
	Email string

	// FullName is the display name of the user. May be empty.
	FullName string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never returned to clients.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser creates a new User with the creation timestamp set.
// The ID is assigned when the user is persisted.
func NewUser(email, fullName, passwordHash string) *User {
	return &User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
