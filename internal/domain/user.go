package domain

import "time"

// User is an authenticated account. Users gain access to workspace data only
// through membership records.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
