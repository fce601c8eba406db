// Package permissions persists capability grants: one row per
// (category, user) pair carrying the level and the user's wrapped copy of
// the category key.
package permissions

import (
	"context"

	"github.com/finledger/finledger/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, permission *models.Permission) error
	Get(ctx context.Context, username string, categoryID int64) (*models.Permission, error)
	ListForCategory(ctx context.Context, categoryID int64) ([]*models.Permission, error)
	ListForUser(ctx context.Context, username string) ([]*models.Permission, error)
	Delete(ctx context.Context, username string, categoryID int64) error
	DeleteForCategory(ctx context.Context, categoryID int64) error
}
