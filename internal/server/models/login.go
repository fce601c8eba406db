package models

import "time"

// Login is one handshake attempt. ServerEphemeral holds the server's secret
// ephemeral value; SessionProof stays empty until phase 2 succeeds, so an
// empty proof marks an incomplete handshake. LastEdited drives expiry.
type Login struct {
	ID              int64
	Username        string
	ServerEphemeral string
	ClientEphemeral string
	SessionProof    string
	LastEdited      time.Time
}

// Completed reports whether phase 2 of the handshake has succeeded.
func (l *Login) Completed() bool {
	return l.SessionProof != ""
}
