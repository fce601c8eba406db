package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/finledger/finledger/internal/common"
	"github.com/finledger/finledger/internal/logging"
	"github.com/finledger/finledger/internal/server/models"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func insertLogin(t *testing.T, e *env, username string, age time.Duration) int64 {
	t.Helper()
	login := &models.Login{
		Username: username, ServerEphemeral: "0b", ClientEphemeral: "0a",
		LastEdited: time.Now().UTC().Add(-age),
	}
	id, err := e.manager.Logins(e.db).Create(context.Background(), login)
	require.NoError(t, err)
	return id
}

func TestReaper_DeletesOnlyExpiredSessions(t *testing.T) {
	e := setupEnv(t)
	registerUser(t, e, "alice", "pw1")

	oldID := insertLogin(t, e, "alice", 3*time.Hour)
	freshID := insertLogin(t, e, "alice", 10*time.Minute)

	r := NewReaper(e.db, e.manager, testLogger(), time.Minute, 2*time.Hour)
	r.reap(context.Background())

	_, err := e.manager.Logins(e.db).Get(context.Background(), oldID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = e.manager.Logins(e.db).Get(context.Background(), freshID)
	require.NoError(t, err)
}

func TestReaper_StopsOnContextCancel(t *testing.T) {
	e := setupEnv(t)

	r := NewReaper(e.db, e.manager, testLogger(), 5*time.Millisecond, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop on cancel")
	}
}
