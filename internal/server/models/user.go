// Package models defines the persisted entities of the ledger server.
package models

import "time"

// User is the identity root. Salt and Verifier are set together at
// registration (or password change) and replace any stored password; the
// key pair carries wrapped category keys between collaborators. PrivateKey
// is stored only in a form the registering client can decrypt.
type User struct {
	Username   string
	Salt       string
	Verifier   string
	PublicKey  string
	PrivateKey string
	Registered time.Time
}
