package models

import "time"

// Capability levels a user can hold on a category.
const (
	LevelReadOnly  = 0
	LevelReadWrite = 1
	LevelOwner     = 2
)

// Permission grants one user a capability level on one category, together
// with the category's symmetric key wrapped for that user's public key.
type Permission struct {
	CategoryID    int64
	Username      string
	Level         int
	EncryptionKey string
	LastEdited    time.Time
}
