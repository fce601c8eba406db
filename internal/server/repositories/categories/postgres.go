package categories

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

func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (int64, error) {
	query :=
		`INSERT INTO categories (name, description, is_split, last_edited)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		category.Name, category.Description, category.IsSplit,
		category.LastEdited.UnixMilli()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	category.ID = id

	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Category, error) {
	query :=
		`SELECT id, name, description, is_split, last_edited FROM categories
		 WHERE id = $1
		 `

	category := &models.Category{}
	var lastEdited int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Description, &category.IsSplit, &lastEdited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	category.LastEdited = time.UnixMilli(lastEdited).UTC()

	return category, nil
}

func (r *PostgresRepository) Update(ctx context.Context, category *models.Category) error {
	query :=
		`UPDATE categories SET name = $1, description = $2, is_split = $3, last_edited = $4
		 WHERE id = $5
		 `

	res, err := r.db.ExecContext(ctx, query,
		category.Name, category.Description, category.IsSplit,
		category.LastEdited.UnixMilli(), category.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Touch(ctx context.Context, id int64, when time.Time) error {
	query :=
		`UPDATE categories SET last_edited = $1
		 WHERE id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, when.UnixMilli(), id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM categories
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
