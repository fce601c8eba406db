package models

import "time"

// Payment is one ledger entry inside a category.
type Payment struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Amount      float64
	Date        time.Time
	Payer       string
	Payed       bool
	LastEdited  time.Time
}
