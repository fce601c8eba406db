package permissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finledger/finledger/internal/common"
	"github.com/finledger/finledger/internal/dbx"
	"github.com/finledger/finledger/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, permission *models.Permission) error {
	query :=
		`INSERT INTO permissions (category_id, username, permission, encryption_key, last_edited)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (category_id, username) DO UPDATE SET
		     permission = EXCLUDED.permission,
		     encryption_key = EXCLUDED.encryption_key,
		     last_edited = EXCLUDED.last_edited
		 `

	_, err := r.db.ExecContext(ctx, query,
		permission.CategoryID, permission.Username, permission.Level,
		permission.EncryptionKey, permission.LastEdited.UnixMilli())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, username string, categoryID int64) (*models.Permission, error) {
	query :=
		`SELECT category_id, username, permission, encryption_key, last_edited FROM permissions
		 WHERE username = $1 AND category_id = $2
		 `

	permission := &models.Permission{}
	var lastEdited int64
	err := r.db.QueryRowContext(ctx, query, username, categoryID).Scan(
		&permission.CategoryID, &permission.Username, &permission.Level,
		&permission.EncryptionKey, &lastEdited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	permission.LastEdited = time.UnixMilli(lastEdited).UTC()

	return permission, nil
}

func (r *PostgresRepository) ListForCategory(ctx context.Context, categoryID int64) ([]*models.Permission, error) {
	query :=
		`SELECT category_id, username, permission, encryption_key, last_edited FROM permissions
		 WHERE category_id = $1
		 `

	return r.list(ctx, query, categoryID)
}

func (r *PostgresRepository) ListForUser(ctx context.Context, username string) ([]*models.Permission, error) {
	query :=
		`SELECT category_id, username, permission, encryption_key, last_edited FROM permissions
		 WHERE username = $1
		 `

	return r.list(ctx, query, username)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Permission
	for rows.Next() {
		permission := &models.Permission{}
		var lastEdited int64
		if err := rows.Scan(&permission.CategoryID, &permission.Username, &permission.Level,
			&permission.EncryptionKey, &lastEdited); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		permission.LastEdited = time.UnixMilli(lastEdited).UTC()
		result = append(result, permission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, username string, categoryID int64) error {
	query :=
		`DELETE FROM permissions
		 WHERE username = $1 AND category_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, username, categoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteForCategory(ctx context.Context, categoryID int64) error {
	query :=
		`DELETE FROM permissions
		 WHERE category_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, categoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
