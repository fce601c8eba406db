package models

import "time"

// Split assigns a share of a category's costs to a participant, who may or
// may not be a registered platform user.
type Split struct {
	CategoryID     int64
	Username       string
	Share          float64
	IsPlatformUser bool
	LastEdited     time.Time
}
