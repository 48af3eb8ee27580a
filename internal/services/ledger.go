// Package services holds the application logic over the ledger store:
// validated writes, monthly aggregation, recurrence projection and the
// local credential flows.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"monetus/internal/core"
	"monetus/internal/storage"
)

// LedgerService performs validated writes against the ledger store.
type LedgerService struct {
	store *storage.Repository
}

func NewLedgerService(store *storage.Repository) *LedgerService {
	return &LedgerService{store: store}
}

// SaveTransaction validates and upserts an entry. An empty id gets a fresh
// one; a caller-supplied id replaces the existing record whole.
func (s *LedgerService) SaveTransaction(ctx context.Context, e core.TransactionEntry) (core.TransactionEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := e.Validate(); err != nil {
		return e, fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.store.PutTransaction(ctx, e); err != nil {
		return e, fmt.Errorf("save transaction: %w", err)
	}
	return e, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// SaveBudget upserts a budget target. Saving a (type, category, isExpense)
// triple that already has a budget updates that record in place instead of
// creating a second one, regardless of the id the caller passed.
func (s *LedgerService) SaveBudget(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	existing, err := s.store.FindBudget(ctx, b.Type, b.Category, b.IsExpense)
	if err != nil {
		return b, fmt.Errorf("look up budget triple: %w", err)
	}
	if existing != nil {
		b.ID = existing.ID
	} else if b.ID == "" {
		b.ID = uuid.NewString()
	}

	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("validate budget: %w", err)
	}
	if err := s.store.PutBudget(ctx, b); err != nil {
		return b, fmt.Errorf("save budget: %w", err)
	}

	slog.DebugContext(ctx, "Budget saved",
		"id", b.ID,
		"type", b.Type,
		"category", b.Category,
		"replaced", existing != nil)
	return b, nil
}

func (s *LedgerService) DeleteBudget(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

// AddCustomCategory registers a classification pair. Adding the same
// triple twice leaves exactly one stored record.
func (s *LedgerService) AddCustomCategory(ctx context.Context, c core.CategoryItem) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate category: %w", err)
	}
	if err := s.store.AddCategory(ctx, c); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}
