// Package services contains server-side business logic. This file implements
// UserService: registration, the two-phase SRP login handshake, credential
// rotation, and the per-request authentication gate.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finledger/finledger/internal/common"
	"github.com/finledger/finledger/internal/server/models"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
	"github.com/finledger/finledger/internal/srp"
)

// LoginChallenge is the phase 1 response: the id of the pending handshake,
// the user's salt and the server's public ephemeral.
type LoginChallenge struct {
	LoginID         int64
	Salt            string
	ServerEphemeral string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// Register creates a new user. The caller supplies the salt and verifier it
// derived locally; the server never sees a password. An already-taken
// username yields ErrorConflict, even when two registrations race: the
// insert itself detects the duplicate.
func (s *UserService) Register(ctx context.Context, user *models.User) error {
	user.Registered = time.Now().UTC()
	if err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return err
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// BeginLogin runs phase 1 of the handshake: generates a server ephemeral
// from the stored verifier and persists the attempt. The secret half of the
// ephemeral never leaves the login row.
func (s *UserService) BeginLogin(ctx context.Context, username, clientEphemeral string) (*LoginChallenge, error) {
	user, err := s.repomanager.Users(s.db).Get(ctx, username)
	if err != nil {
		return nil, err
	}

	ephemeral, err := srp.GenerateEphemeral(user.Verifier)
	if err != nil {
		return nil, fmt.Errorf("error generating ephemeral: %w", err)
	}

	login := &models.Login{
		Username:        username,
		ServerEphemeral: ephemeral.Secret,
		ClientEphemeral: clientEphemeral,
		LastEdited:      time.Now().UTC(),
	}
	id, err := s.repomanager.Logins(s.db).Create(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("error creating login: %w", err)
	}

	return &LoginChallenge{
		LoginID:         id,
		Salt:            user.Salt,
		ServerEphemeral: ephemeral.Public,
	}, nil
}

// FinishLogin runs phase 2: checks the client's proof against the pending
// handshake and, on success, stores the proof on the login row and returns
// the server's counter-proof. A wrong proof deletes the pending row so the
// attempt cannot be retried, and yields ErrInvalidProof.
func (s *UserService) FinishLogin(ctx context.Context, loginID int64, username, proofCandidate string) (string, error) {
	loginsRepo := s.repomanager.Logins(s.db)

	login, err := loginsRepo.Get(ctx, loginID)
	if err != nil {
		return "", err
	}
	if login.Username != username {
		return "", common.ErrorNotFound
	}

	user, err := s.repomanager.Users(s.db).Get(ctx, username)
	if err != nil {
		return "", err
	}

	session, err := srp.DeriveServerSession(
		login.ServerEphemeral, login.ClientEphemeral,
		user.Salt, user.Username, user.Verifier, proofCandidate)
	if err != nil {
		// any failure, including malformed values, burns the attempt
		if delErr := loginsRepo.Delete(ctx, loginID); delErr != nil {
			return "", fmt.Errorf("error deleting failed login: %w", delErr)
		}
		return "", common.ErrInvalidProof
	}

	if err := loginsRepo.SetProof(ctx, loginID, proofCandidate, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("error storing session proof: %w", err)
	}

	return session.Proof, nil
}

// Authenticate is the per-request gate. It re-runs the phase 2 derivation
// against the caller-supplied proof, so a completed proof keeps working until
// the reaper deletes the row. The gate is read-only: it never rotates or
// consumes the proof (compatibility behavior, keep as is).
func (s *UserService) Authenticate(ctx context.Context, username, proof string, loginID int64) error {
	login, err := s.repomanager.Logins(s.db).Get(ctx, loginID)
	if err != nil {
		return common.ErrorUnauthorized
	}
	if login.Username != username || !login.Completed() {
		return common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).Get(ctx, username)
	if err != nil {
		return common.ErrorUnauthorized
	}

	if _, err := srp.DeriveServerSession(
		login.ServerEphemeral, login.ClientEphemeral,
		user.Salt, user.Username, user.Verifier, proof); err != nil {
		return common.ErrorUnauthorized
	}

	return nil
}

// ChangeCredential replaces the user's salt and verifier and invalidates
// every open session of that user.
func (s *UserService) ChangeCredential(ctx context.Context, username, salt, verifier string) error {
	if err := s.repomanager.Users(s.db).UpdateCredential(ctx, username, salt, verifier); err != nil {
		return err
	}
	if err := s.repomanager.Logins(s.db).DeleteForUser(ctx, username); err != nil {
		return fmt.Errorf("error deleting logins: %w", err)
	}
	return nil
}

// Delete removes the user and all their sessions. Grants the user holds on
// shared categories survive under the dangling username.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, username); err != nil {
		return err
	}
	if err := s.repomanager.Logins(s.db).DeleteForUser(ctx, username); err != nil {
		return fmt.Errorf("error deleting logins: %w", err)
	}
	return nil
}
