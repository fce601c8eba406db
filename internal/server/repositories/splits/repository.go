package splits

import (
	"context"

	"github.com/finledger/finledger/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, split *models.Split) error
	ListForCategory(ctx context.Context, categoryID int64) ([]*models.Split, error)
	Delete(ctx context.Context, categoryID int64, username string) error
	DeleteForCategory(ctx context.Context, categoryID int64) error
	CountForCategory(ctx context.Context, categoryID int64) (int64, error)
}
