package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finledger/finledger/internal/common"
	"github.com/finledger/finledger/internal/dbx"
	"github.com/finledger/finledger/internal/server/models"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
)

// PermissionService is the capability engine. Every grant pairs a level with
// the category key wrapped for the grantee, so access and key custody move
// together.
type PermissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPermissionService(db *sql.DB, m repomanager.RepositoryManager) *PermissionService {
	return &PermissionService{db: db, repomanager: m}
}

// RequireLevel loads the actor's grant on the category and checks it against
// the needed level. A missing grant reads as no access at all.
func (s *PermissionService) RequireLevel(ctx context.Context, db dbx.DBTX, username string, categoryID int64, level int) (*models.Permission, error) {
	grant, err := s.repomanager.Permissions(db).Get(ctx, username, categoryID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorForbidden
		}
		return nil, err
	}
	if grant.Level < level {
		return nil, common.ErrorForbidden
	}
	return grant, nil
}

// Set grants or updates a capability on a category. Only the owner can
// grant, only levels 0 and 1 can be granted, and the owner cannot regrade
// their own grant.
func (s *PermissionService) Set(ctx context.Context, actor string, permission *models.Permission) error {
	if _, err := s.repomanager.Categories(s.db).Get(ctx, permission.CategoryID); err != nil {
		return err
	}
	if _, err := s.RequireLevel(ctx, s.db, actor, permission.CategoryID, models.LevelOwner); err != nil {
		return err
	}
	if permission.Level != models.LevelReadOnly && permission.Level != models.LevelReadWrite {
		return common.ErrInvalidLevel
	}
	if permission.Username == actor {
		return common.ErrSelfOwnerProtected
	}
	if _, err := s.repomanager.Users(s.db).Get(ctx, permission.Username); err != nil {
		return err
	}

	now := time.Now().UTC()
	permission.LastEdited = now
	if err := s.repomanager.Permissions(s.db).Upsert(ctx, permission); err != nil {
		return fmt.Errorf("error saving permission: %w", err)
	}
	if err := s.repomanager.Categories(s.db).Touch(ctx, permission.CategoryID, now); err != nil {
		return fmt.Errorf("error touching category: %w", err)
	}

	return nil
}

// Revoke removes a grant. Revoking the category's last remaining grant
// deletes the category with all its payments and splits in one transaction;
// nothing may survive without at least one key holder.
func (s *PermissionService) Revoke(ctx context.Context, actor, username string, categoryID int64) error {
	if _, err := s.RequireLevel(ctx, s.db, actor, categoryID, models.LevelOwner); err != nil {
		return err
	}
	if _, err := s.repomanager.Permissions(s.db).Get(ctx, username, categoryID); err != nil {
		return err
	}

	grants, err := s.repomanager.Permissions(s.db).ListForCategory(ctx, categoryID)
	if err != nil {
		return err
	}

	if len(grants) == 1 && grants[0].Username == username {
		return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repomanager.Splits(tx).DeleteForCategory(ctx, categoryID); err != nil {
				return err
			}
			if err := s.repomanager.Payments(tx).DeleteForCategory(ctx, categoryID); err != nil {
				return err
			}
			if err := s.repomanager.Permissions(tx).DeleteForCategory(ctx, categoryID); err != nil {
				return err
			}
			return s.repomanager.Categories(tx).Delete(ctx, categoryID)
		})
	}

	if err := s.repomanager.Permissions(s.db).Delete(ctx, username, categoryID); err != nil {
		return fmt.Errorf("error deleting permission: %w", err)
	}
	if err := s.repomanager.Categories(s.db).Touch(ctx, categoryID, time.Now().UTC()); err != nil {
		return fmt.Errorf("error touching category: %w", err)
	}

	return nil
}
