// Package catalog exposes the built-in classification pairs together with
// the user's custom categories as one namespace.
package catalog

import (
	"context"
	"fmt"

	"monetus/internal/core"
)

// CategoryReader is the slice of the ledger store the catalog needs.
type CategoryReader interface {
	GetCategories(ctx context.Context) ([]core.CategoryItem, error)
}

// Catalog resolves valid (type, category, isExpense) triples.
type Catalog struct {
	store CategoryReader
}

func New(store CategoryReader) *Catalog {
	return &Catalog{store: store}
}

// All returns the built-in pairs followed by the stored custom ones.
// Custom entries that shadow a built-in triple are dropped.
func (c *Catalog) All(ctx context.Context) ([]core.CategoryItem, error) {
	items := make([]core.CategoryItem, 0, len(IncomeCategories)+len(ExpenseCategories))
	items = append(items, IncomeCategories...)
	items = append(items, ExpenseCategories...)

	if c.store == nil {
		return items, nil
	}

	custom, err := c.store.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load custom categories: %w", err)
	}
	for _, cc := range custom {
		if !containsTriple(items, cc) {
			items = append(items, cc)
		}
	}
	return items, nil
}

// Contains reports whether the triple is a known classification, built-in
// or custom.
func (c *Catalog) Contains(ctx context.Context, item core.CategoryItem) (bool, error) {
	all, err := c.All(ctx)
	if err != nil {
		return false, err
	}
	return containsTriple(all, item), nil
}

func containsTriple(items []core.CategoryItem, item core.CategoryItem) bool {
	for _, it := range items {
		if it.SameTriple(item) {
			return true
		}
	}
	return false
}
