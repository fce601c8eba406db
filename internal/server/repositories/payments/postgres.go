package payments

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

// Save inserts when the payment has no id yet, otherwise updates in place.
func (r *PostgresRepository) Save(ctx context.Context, payment *models.Payment) (int64, error) {
	if payment.ID == 0 {
		query :=
			`INSERT INTO payments (category_id, name, description, amount, date, payer, payed, last_edited)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id
			 `

		var id int64
		err := r.db.QueryRowContext(ctx, query,
			payment.CategoryID, payment.Name, payment.Description, payment.Amount,
			payment.Date.UnixMilli(), payment.Payer, payment.Payed,
			payment.LastEdited.UnixMilli()).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
		payment.ID = id

		return id, nil
	}

	query :=
		`UPDATE payments SET name = $1, description = $2, amount = $3, date = $4, payer = $5, payed = $6, last_edited = $7
		 WHERE id = $8 AND category_id = $9
		 `

	res, err := r.db.ExecContext(ctx, query,
		payment.Name, payment.Description, payment.Amount,
		payment.Date.UnixMilli(), payment.Payer, payment.Payed,
		payment.LastEdited.UnixMilli(), payment.ID, payment.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return 0, common.ErrorNotFound
	}

	return payment.ID, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Payment, error) {
	query :=
		`SELECT id, category_id, name, description, amount, date, payer, payed, last_edited FROM payments
		 WHERE id = $1
		 `

	payment := &models.Payment{}
	var date, lastEdited int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID, &payment.CategoryID, &payment.Name, &payment.Description,
		&payment.Amount, &date, &payment.Payer, &payment.Payed, &lastEdited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	payment.Date = time.UnixMilli(date).UTC()
	payment.LastEdited = time.UnixMilli(lastEdited).UTC()

	return payment, nil
}

func (r *PostgresRepository) ListForCategory(ctx context.Context, categoryID int64) ([]*models.Payment, error) {
	query :=
		`SELECT id, category_id, name, description, amount, date, payer, payed, last_edited FROM payments
		 WHERE category_id = $1
		 ORDER BY date, id
		 `

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		var date, lastEdited int64
		if err := rows.Scan(&payment.ID, &payment.CategoryID, &payment.Name, &payment.Description,
			&payment.Amount, &date, &payment.Payer, &payment.Payed, &lastEdited); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		payment.Date = time.UnixMilli(date).UTC()
		payment.LastEdited = time.UnixMilli(lastEdited).UTC()
		result = append(result, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkPayed(ctx context.Context, categoryID int64, when time.Time) error {
	query :=
		`UPDATE payments SET payed = TRUE, last_edited = $1
		 WHERE category_id = $2 AND payed = FALSE
		 `

	if _, err := r.db.ExecContext(ctx, query, when.UnixMilli(), categoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM payments
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteForCategory(ctx context.Context, categoryID int64) error {
	query :=
		`DELETE FROM payments
		 WHERE category_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, categoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
