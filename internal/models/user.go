package models

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	PostIDs      []string  `json:"posts"`
	CreatedAt    time.Time `json:"createdAt"`
}
