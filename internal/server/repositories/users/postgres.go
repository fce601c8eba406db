package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (username, salt, verifier, public_key, private_key, registered)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (username) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Salt, user.Verifier, user.PublicKey, user.PrivateKey,
		user.Registered.UnixMilli())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorConflict
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT username, salt, verifier, public_key, private_key, registered FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	var registered int64
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.Salt, &user.Verifier, &user.PublicKey, &user.PrivateKey, &registered)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.Registered = time.UnixMilli(registered).UTC()

	return user, nil
}

func (r *PostgresRepository) UpdateCredential(ctx context.Context, username, salt, verifier string) error {
	query :=
		`UPDATE users SET salt = $1, verifier = $2
		 WHERE username = $3
		 `

	res, err := r.db.ExecContext(ctx, query, salt, verifier, username)
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

func (r *PostgresRepository) Delete(ctx context.Context, username string) error {
	query :=
		`DELETE FROM users
		 WHERE username = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
