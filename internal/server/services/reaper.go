package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/finledger/finledger/internal/logging"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
)

// Reaper periodically deletes login rows whose lastEdited is older than the
// session TTL. Incomplete handshakes age out the same way as completed
// sessions.
type Reaper struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	interval    time.Duration
	ttl         time.Duration
}

func NewReaper(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, interval, ttl time.Duration) *Reaper {
	return &Reaper{db: db, repomanager: m, logger: logger, interval: interval, ttl: ttl}
}

// Run blocks until ctx is cancelled. Storage errors are logged and the next
// tick proceeds as usual.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

func (r *Reaper) reap(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.ttl)
	n, err := r.repomanager.Logins(r.db).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Error(ctx, "session reaper failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info(ctx, "expired sessions removed", "count", n)
	}
}
