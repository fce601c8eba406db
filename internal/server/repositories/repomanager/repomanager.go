// Package repomanager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/finledger/finledger/internal/dbx"
	"github.com/finledger/finledger/internal/server/repositories/categories"
	"github.com/finledger/finledger/internal/server/repositories/logins"
	"github.com/finledger/finledger/internal/server/repositories/payments"
	"github.com/finledger/finledger/internal/server/repositories/permissions"
	"github.com/finledger/finledger/internal/server/repositories/splits"
	"github.com/finledger/finledger/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Logins(db dbx.DBTX) logins.Repository
	Categories(db dbx.DBTX) categories.Repository
	Permissions(db dbx.DBTX) permissions.Repository
	Payments(db dbx.DBTX) payments.Repository
	Splits(db dbx.DBTX) splits.Repository
}
