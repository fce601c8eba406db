package splits

import (
	"context"
	"fmt"
	"time"

	"github.com/finledger/finledger/internal/dbx"
	"github.com/finledger/finledger/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, split *models.Split) error {
	query :=
		`INSERT INTO splits (category_id, username, share, is_platform_user, last_edited)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (category_id, username) DO UPDATE SET
		     share = EXCLUDED.share,
		     is_platform_user = EXCLUDED.is_platform_user,
		     last_edited = EXCLUDED.last_edited
		 `

	_, err := r.db.ExecContext(ctx, query,
		split.CategoryID, split.Username, split.Share, split.IsPlatformUser,
		split.LastEdited.UnixMilli())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListForCategory(ctx context.Context, categoryID int64) ([]*models.Split, error) {
	query :=
		`SELECT category_id, username, share, is_platform_user, last_edited FROM splits
		 WHERE category_id = $1
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Split
	for rows.Next() {
		split := &models.Split{}
		var lastEdited int64
		if err := rows.Scan(&split.CategoryID, &split.Username, &split.Share,
			&split.IsPlatformUser, &lastEdited); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		split.LastEdited = time.UnixMilli(lastEdited).UTC()
		result = append(result, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, categoryID int64, username string) error {
	query :=
		`DELETE FROM splits
		 WHERE category_id = $1 AND username = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, categoryID, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteForCategory(ctx context.Context, categoryID int64) error {
	query :=
		`DELETE FROM splits
		 WHERE category_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, categoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CountForCategory(ctx context.Context, categoryID int64) (int64, error) {
	query :=
		`SELECT COUNT(*) FROM splits
		 WHERE category_id = $1
		 `

	var count int64
	if err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
