// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account that owns files. Users are created at signup and never
// deleted by this system.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
