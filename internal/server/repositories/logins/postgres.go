package logins

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

func (r *PostgresRepository) Create(ctx context.Context, login *models.Login) (int64, error) {
	query :=
		`INSERT INTO logins (username, server_ephemeral, client_ephemeral, session_proof, last_edited)
		 VALUES ($1, $2, $3, NULL, $4)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		login.Username, login.ServerEphemeral, login.ClientEphemeral,
		login.LastEdited.UnixMilli()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	login.ID = id

	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Login, error) {
	query :=
		`SELECT id, username, server_ephemeral, client_ephemeral, session_proof, last_edited FROM logins
		 WHERE id = $1
		 `

	login := &models.Login{}
	var proof sql.NullString
	var lastEdited int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&login.ID, &login.Username, &login.ServerEphemeral, &login.ClientEphemeral, &proof, &lastEdited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	login.SessionProof = proof.String
	login.LastEdited = time.UnixMilli(lastEdited).UTC()

	return login, nil
}

func (r *PostgresRepository) SetProof(ctx context.Context, id int64, proof string, when time.Time) error {
	query :=
		`UPDATE logins SET session_proof = $1, last_edited = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, proof, when.UnixMilli(), id)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM logins
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteForUser(ctx context.Context, username string) error {
	query :=
		`DELETE FROM logins
		 WHERE username = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query :=
		`DELETE FROM logins
		 WHERE last_edited < $1
		 `

	res, err := r.db.ExecContext(ctx, query, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
