package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finledger/finledger/internal/server/models"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
)

// SplitService manages cost shares on a category. Owner-only; the
// category's isSplit flag follows the presence of splits.
type SplitService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	permissions *PermissionService
}

func NewSplitService(db *sql.DB, m repomanager.RepositoryManager, permissions *PermissionService) *SplitService {
	return &SplitService{db: db, repomanager: m, permissions: permissions}
}

// Set adds or updates a participant's share. Participants flagged as
// platform users must exist.
func (s *SplitService) Set(ctx context.Context, actor string, split *models.Split) error {
	if _, err := s.permissions.RequireLevel(ctx, s.db, actor, split.CategoryID, models.LevelOwner); err != nil {
		return err
	}
	category, err := s.repomanager.Categories(s.db).Get(ctx, split.CategoryID)
	if err != nil {
		return err
	}
	if split.IsPlatformUser {
		if _, err := s.repomanager.Users(s.db).Get(ctx, split.Username); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	split.LastEdited = now
	if err := s.repomanager.Splits(s.db).Upsert(ctx, split); err != nil {
		return err
	}

	if !category.IsSplit {
		category.IsSplit = true
		category.LastEdited = now
		if err := s.repomanager.Categories(s.db).Update(ctx, category); err != nil {
			return fmt.Errorf("error updating category: %w", err)
		}
		return nil
	}

	if err := s.repomanager.Categories(s.db).Touch(ctx, split.CategoryID, now); err != nil {
		return fmt.Errorf("error touching category: %w", err)
	}

	return nil
}

// Delete removes a participant's share. Removing the last one clears the
// category's isSplit flag.
func (s *SplitService) Delete(ctx context.Context, actor string, categoryID int64, username string) error {
	if _, err := s.permissions.RequireLevel(ctx, s.db, actor, categoryID, models.LevelOwner); err != nil {
		return err
	}
	category, err := s.repomanager.Categories(s.db).Get(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := s.repomanager.Splits(s.db).Delete(ctx, categoryID, username); err != nil {
		return err
	}

	now := time.Now().UTC()
	remaining, err := s.repomanager.Splits(s.db).CountForCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if remaining == 0 && category.IsSplit {
		category.IsSplit = false
		category.LastEdited = now
		if err := s.repomanager.Categories(s.db).Update(ctx, category); err != nil {
			return fmt.Errorf("error updating category: %w", err)
		}
		return nil
	}

	if err := s.repomanager.Categories(s.db).Touch(ctx, categoryID, now); err != nil {
		return fmt.Errorf("error touching category: %w", err)
	}

	return nil
}
