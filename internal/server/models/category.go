package models

import "time"

// Category is a shared ledger. Its LastEdited timestamp is refreshed by any
// mutation under one of its grants and is used for client-side sync ordering.
type Category struct {
	ID          int64
	Name        string
	Description string
	IsSplit     bool
	LastEdited  time.Time
}
