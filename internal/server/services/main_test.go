package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/finledger/finledger/internal/server/models"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
	"github.com/finledger/finledger/internal/srp"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// schema mirrors the goose migration with sqlite column types.
const testSchema = `
CREATE TABLE IF NOT EXISTS users (
    username TEXT PRIMARY KEY,
    salt TEXT NOT NULL,
    verifier TEXT NOT NULL,
    public_key TEXT NOT NULL DEFAULT '',
    private_key TEXT NOT NULL DEFAULT '',
    registered INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS logins (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    server_ephemeral TEXT NOT NULL,
    client_ephemeral TEXT NOT NULL,
    session_proof TEXT,
    last_edited INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_split BOOLEAN NOT NULL DEFAULT FALSE,
    last_edited INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS permissions (
    category_id INTEGER NOT NULL,
    username TEXT NOT NULL,
    permission INTEGER NOT NULL,
    encryption_key TEXT NOT NULL,
    last_edited INTEGER NOT NULL,
    PRIMARY KEY (category_id, username)
);
CREATE TABLE IF NOT EXISTS payments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    amount REAL NOT NULL,
    date INTEGER NOT NULL,
    payer TEXT NOT NULL,
    payed BOOLEAN NOT NULL DEFAULT FALSE,
    last_edited INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS splits (
    category_id INTEGER NOT NULL,
    username TEXT NOT NULL,
    share REAL NOT NULL,
    is_platform_user BOOLEAN NOT NULL DEFAULT FALSE,
    last_edited INTEGER NOT NULL,
    PRIMARY KEY (category_id, username)
);
`

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	for _, table := range []string{"splits", "payments", "permissions", "categories", "logins", "users"} {
		_, err = db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
	return db
}

type env struct {
	db          *sql.DB
	manager     repomanager.RepositoryManager
	users       *UserService
	permissions *PermissionService
	categories  *CategoryService
	payments    *PaymentService
	splits      *SplitService
	overview    *OverviewService
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	db := setupDB(t)
	m := repomanager.NewPostgresRepositoryManager()
	permissions := NewPermissionService(db, m)
	return &env{
		db:          db,
		manager:     m,
		users:       NewUserService(db, m),
		permissions: permissions,
		categories:  NewCategoryService(db, m, permissions),
		payments:    NewPaymentService(db, m, permissions),
		splits:      NewSplitService(db, m, permissions),
		overview:    NewOverviewService(db, m),
	}
}

// registerUser derives real credentials so handshake tests run against the
// same math the CLI client uses.
func registerUser(t *testing.T, e *env, username, password string) string {
	t.Helper()
	salt, err := srp.GenerateSalt()
	require.NoError(t, err)
	privateKey, err := srp.DerivePrivateKey(salt, username, password)
	require.NoError(t, err)
	verifier, err := srp.DeriveVerifier(privateKey)
	require.NoError(t, err)
	err = e.users.Register(context.Background(), &models.User{
		Username: username, Salt: salt, Verifier: verifier,
		PublicKey: "pub-" + username, PrivateKey: "priv-" + username,
	})
	require.NoError(t, err)
	return privateKey
}

// createCategory makes username the owner of a fresh category and returns
// its id.
func createCategory(t *testing.T, e *env, username, name string) int64 {
	t.Helper()
	category := &models.Category{Name: name, Description: "test ledger"}
	err := e.categories.Save(context.Background(), username, category, "wrapped-key-"+username, nil)
	require.NoError(t, err)
	require.NotZero(t, category.ID)
	return category.ID
}
