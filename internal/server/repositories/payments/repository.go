package payments

import (
	"context"
	"time"

	"github.com/finledger/finledger/internal/server/models"
)

type Repository interface {
	Save(ctx context.Context, payment *models.Payment) (int64, error)
	Get(ctx context.Context, id int64) (*models.Payment, error)
	ListForCategory(ctx context.Context, categoryID int64) ([]*models.Payment, error)
	MarkPayed(ctx context.Context, categoryID int64, when time.Time) error
	Delete(ctx context.Context, id int64) error
	DeleteForCategory(ctx context.Context, categoryID int64) error
}
