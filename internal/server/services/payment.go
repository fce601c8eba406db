package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finledger/finledger/internal/server/models"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
)

// PaymentService manages ledger entries. Every mutation needs a read/write
// grant on the payment's category and refreshes the category's lastEdited.
type PaymentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	permissions *PermissionService
}

func NewPaymentService(db *sql.DB, m repomanager.RepositoryManager, permissions *PermissionService) *PaymentService {
	return &PaymentService{db: db, repomanager: m, permissions: permissions}
}

// Save creates or updates a payment. An id that does not belong to the
// category fails with ErrorNotFound.
func (s *PaymentService) Save(ctx context.Context, actor string, payment *models.Payment) error {
	if _, err := s.permissions.RequireLevel(ctx, s.db, actor, payment.CategoryID, models.LevelReadWrite); err != nil {
		return err
	}
	if _, err := s.repomanager.Categories(s.db).Get(ctx, payment.CategoryID); err != nil {
		return err
	}

	now := time.Now().UTC()
	payment.LastEdited = now
	if _, err := s.repomanager.Payments(s.db).Save(ctx, payment); err != nil {
		return err
	}
	if err := s.repomanager.Categories(s.db).Touch(ctx, payment.CategoryID, now); err != nil {
		return fmt.Errorf("error touching category: %w", err)
	}

	return nil
}

// MarkPayed settles all open payments of the given categories. The grant
// check runs on every category before anything is mutated.
func (s *PaymentService) MarkPayed(ctx context.Context, actor string, categoryIDs []int64) error {
	for _, id := range categoryIDs {
		if _, err := s.permissions.RequireLevel(ctx, s.db, actor, id, models.LevelReadWrite); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	for _, id := range categoryIDs {
		if err := s.repomanager.Payments(s.db).MarkPayed(ctx, id, now); err != nil {
			return err
		}
		if err := s.repomanager.Categories(s.db).Touch(ctx, id, now); err != nil {
			return fmt.Errorf("error touching category: %w", err)
		}
	}

	return nil
}

// Delete removes a payment.
func (s *PaymentService) Delete(ctx context.Context, actor string, id int64) error {
	payment, err := s.repomanager.Payments(s.db).Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.permissions.RequireLevel(ctx, s.db, actor, payment.CategoryID, models.LevelReadWrite); err != nil {
		return err
	}

	if err := s.repomanager.Payments(s.db).Delete(ctx, id); err != nil {
		return err
	}
	if err := s.repomanager.Categories(s.db).Touch(ctx, payment.CategoryID, time.Now().UTC()); err != nil {
		return fmt.Errorf("error touching category: %w", err)
	}

	return nil
}
