package repomanager

import (
	"context"
	"database/sql"

	"github.com/finledger/finledger/internal/dbx"
	"github.com/finledger/finledger/internal/server/migrations"
	"github.com/finledger/finledger/internal/server/repositories/categories"
	"github.com/finledger/finledger/internal/server/repositories/logins"
	"github.com/finledger/finledger/internal/server/repositories/payments"
	"github.com/finledger/finledger/internal/server/repositories/permissions"
	"github.com/finledger/finledger/internal/server/repositories/splits"
	"github.com/finledger/finledger/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Logins(db dbx.DBTX) logins.Repository {
	return logins.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Categories(db dbx.DBTX) categories.Repository {
	return categories.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Permissions(db dbx.DBTX) permissions.Repository {
	return permissions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Payments(db dbx.DBTX) payments.Repository {
	return payments.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Splits(db dbx.DBTX) splits.Repository {
	return splits.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
