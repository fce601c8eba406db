// Package logins persists the ephemeral per-handshake state. Rows are
// created at phase 1, completed at phase 2, and removed by explicit cleanup,
// password change or the session reaper.
package logins

import (
	"context"
	"time"

	"github.com/finledger/finledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, login *models.Login) (int64, error)
	Get(ctx context.Context, id int64) (*models.Login, error)
	SetProof(ctx context.Context, id int64, proof string, when time.Time) error
	Delete(ctx context.Context, id int64) error
	DeleteForUser(ctx context.Context, username string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
