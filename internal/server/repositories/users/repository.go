// Package users persists the long-term credential records: salt, verifier
// and the wrapping key pair, one row per username.
package users

import (
	"context"

	"github.com/finledger/finledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, username string) (*models.User, error)
	UpdateCredential(ctx context.Context, username, salt, verifier string) error
	Delete(ctx context.Context, username string) error
}
