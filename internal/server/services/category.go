package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finledger/finledger/internal/dbx"
	"github.com/finledger/finledger/internal/server/models"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
)

// CategoryService manages the shared ledgers. Creation always installs the
// creator as owner in the same transaction so no category ever exists
// without a key holder.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	permissions *PermissionService
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager, permissions *PermissionService) *CategoryService {
	return &CategoryService{db: db, repomanager: m, permissions: permissions}
}

// CategoryView is a category together with the caller's grant on it.
type CategoryView struct {
	Category      *models.Category
	Level         int
	EncryptionKey string
}

// Save creates or updates a category. On create, encryptionKey is the
// category key wrapped for the actor and becomes part of the owner grant.
// When the category tracks splits, the supplied splits replace the stored
// set.
func (s *CategoryService) Save(ctx context.Context, actor string, category *models.Category, encryptionKey string, categorySplits []*models.Split) error {
	now := time.Now().UTC()
	category.LastEdited = now

	if category.ID == 0 {
		return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if _, err := s.repomanager.Categories(tx).Create(ctx, category); err != nil {
				return err
			}
			owner := &models.Permission{
				CategoryID:    category.ID,
				Username:      actor,
				Level:         models.LevelOwner,
				EncryptionKey: encryptionKey,
				LastEdited:    now,
			}
			if err := s.repomanager.Permissions(tx).Upsert(ctx, owner); err != nil {
				return err
			}
			return s.replaceSplits(ctx, tx, category, categorySplits, now)
		})
	}

	if _, err := s.permissions.RequireLevel(ctx, s.db, actor, category.ID, models.LevelOwner); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Categories(tx).Update(ctx, category); err != nil {
			return err
		}
		return s.replaceSplits(ctx, tx, category, categorySplits, now)
	})
}

func (s *CategoryService) replaceSplits(ctx context.Context, tx dbx.DBTX, category *models.Category, categorySplits []*models.Split, now time.Time) error {
	if !category.IsSplit {
		return nil
	}
	if err := s.repomanager.Splits(tx).DeleteForCategory(ctx, category.ID); err != nil {
		return err
	}
	for _, split := range categorySplits {
		split.CategoryID = category.ID
		split.LastEdited = now
		if err := s.repomanager.Splits(tx).Upsert(ctx, split); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the category together with the caller's grant. Any level may
// read.
func (s *CategoryService) Get(ctx context.Context, actor string, id int64) (*CategoryView, error) {
	grant, err := s.permissions.RequireLevel(ctx, s.db, actor, id, models.LevelReadOnly)
	if err != nil {
		return nil, err
	}
	category, err := s.repomanager.Categories(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CategoryView{
		Category:      category,
		Level:         grant.Level,
		EncryptionKey: grant.EncryptionKey,
	}, nil
}

// Delete removes a category with all its payments, splits and grants.
// Owner-only.
func (s *CategoryService) Delete(ctx context.Context, actor string, id int64) error {
	if _, err := s.permissions.RequireLevel(ctx, s.db, actor, id, models.LevelOwner); err != nil {
		return err
	}
	if _, err := s.repomanager.Categories(s.db).Get(ctx, id); err != nil {
		return err
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Splits(tx).DeleteForCategory(ctx, id); err != nil {
			return err
		}
		if err := s.repomanager.Payments(tx).DeleteForCategory(ctx, id); err != nil {
			return err
		}
		if err := s.repomanager.Permissions(tx).DeleteForCategory(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Categories(tx).Delete(ctx, id)
	}); err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}

	return nil
}
