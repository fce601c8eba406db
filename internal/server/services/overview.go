package services

import (
	"context"
	"database/sql"

	"github.com/finledger/finledger/internal/server/models"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
)

// OverviewService assembles the caller's full view: every category they hold
// a grant on, with its payments, its splits when tracked, and the caller's
// wrapped key.
type OverviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewOverviewService(db *sql.DB, m repomanager.RepositoryManager) *OverviewService {
	return &OverviewService{db: db, repomanager: m}
}

// CategoryOverview is one category as the caller sees it.
type CategoryOverview struct {
	Category      *models.Category
	Level         int
	EncryptionKey string
	Payments      []*models.Payment
	Splits        []*models.Split
}

func (s *OverviewService) Overview(ctx context.Context, actor string) ([]*CategoryOverview, error) {
	grants, err := s.repomanager.Permissions(s.db).ListForUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	result := make([]*CategoryOverview, 0, len(grants))
	for _, grant := range grants {
		category, err := s.repomanager.Categories(s.db).Get(ctx, grant.CategoryID)
		if err != nil {
			return nil, err
		}
		entries, err := s.repomanager.Payments(s.db).ListForCategory(ctx, grant.CategoryID)
		if err != nil {
			return nil, err
		}
		item := &CategoryOverview{
			Category:      category,
			Level:         grant.Level,
			EncryptionKey: grant.EncryptionKey,
			Payments:      entries,
		}
		if category.IsSplit {
			shares, err := s.repomanager.Splits(s.db).ListForCategory(ctx, grant.CategoryID)
			if err != nil {
				return nil, err
			}
			item.Splits = shares
		}
		result = append(result, item)
	}

	return result, nil
}
