// Package categories persists the shared ledgers themselves. Grant checks
// live in the services layer; this package is plain row access.
package categories

import (
	"context"
	"time"

	"github.com/finledger/finledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, category *models.Category) (int64, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Touch(ctx context.Context, id int64, when time.Time) error
	Delete(ctx context.Context, id int64) error
}
