package domain

import "time"

// User is an identity record. Email is the authentication key; email and
// username are each globally unique.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id encoded
	Role         Role
	Active       bool
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time // nil until the first successful login
}

// Profile holds the optional self-managed attributes of an identity.
type Profile struct {
	FirstName   string
	LastName    string
	EmployeeID  string
	PhoneNumber string
	Address     string
	DateOfBirth *time.Time
	Gender      string
	AvatarURL   string
}
