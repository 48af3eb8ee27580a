package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"monetus/internal/core"
	"monetus/internal/storage"
)

func TestProjectedEntryIDDeterministic(t *testing.T) {
	a := ProjectedEntryID("src-1", "2024-02")
	b := ProjectedEntryID("src-1", "2024-02")
	if a != b {
		t.Fatalf("same inputs must derive the same id: %s != %s", a, b)
	}
	if a == ProjectedEntryID("src-1", "2024-03") {
		t.Fatalf("different months must derive different ids")
	}
	if a == ProjectedEntryID("src-2", "2024-02") {
		t.Fatalf("different sources must derive different ids")
	}
	if a == "src-1" {
		t.Fatalf("projected id must differ from the source id")
	}
}

func TestProjectorCopiesRecurringEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	recurring := core.TransactionEntry{
		ID: "rent", Date: "2024-01-31", Type: "Moradia", Category: "Aluguel",
		Amount: decimal.NewFromInt(100), IsExpense: true, IsRecurrent: true,
	}
	oneOff := core.TransactionEntry{
		ID: "cinema", Date: "2024-01-10", Type: "Lazer", Category: "Cinema",
		Amount: decimal.NewFromInt(40), IsExpense: true,
	}
	mustPut(t, store, recurring)
	mustPut(t, store, oneOff)
	if err := store.SetMeta(ctx, storage.MetaLastProjectedMonth, "2024-01"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}

	now := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
	created, err := NewProjector(store).Run(ctx, now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 projected entry, got %d", created)
	}

	projected, err := store.GetTransaction(ctx, ProjectedEntryID("rent", "2024-02"))
	if err != nil {
		t.Fatalf("GetTransaction projected: %v", err)
	}
	// Day 31 clamps onto the leap-day.
	if projected.Date != "2024-02-29" {
		t.Fatalf("expected 2024-02-29, got %s", projected.Date)
	}
	if !projected.IsRecurrent {
		t.Fatalf("projected entry must itself be recurrent")
	}
	if !projected.Amount.Equal(recurring.Amount) {
		t.Fatalf("amount must carry over, got %s", projected.Amount)
	}
	if projected.ID == recurring.ID {
		t.Fatalf("projected entry must get a new id")
	}

	marker, ok, err := store.GetMeta(ctx, storage.MetaLastProjectedMonth)
	if err != nil || !ok {
		t.Fatalf("GetMeta: %v ok=%v", err, ok)
	}
	if marker != "2024-02" {
		t.Fatalf("marker should advance to 2024-02, got %s", marker)
	}
}

func TestProjectorSkipsWhenMarkerCurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustPut(t, store, core.TransactionEntry{
		ID: "rent", Date: "2024-01-15", Type: "Moradia", Category: "Aluguel",
		Amount: decimal.NewFromInt(100), IsExpense: true, IsRecurrent: true,
	})
	if err := store.SetMeta(ctx, storage.MetaLastProjectedMonth, "2024-02"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}

	now := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	created, err := NewProjector(store).Run(ctx, now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if created != 0 {
		t.Fatalf("marker matches the month, expected no work, got %d", created)
	}
}

func TestProjectorRerunIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustPut(t, store, core.TransactionEntry{
		ID: "rent", Date: "2024-01-15", Type: "Moradia", Category: "Aluguel",
		Amount: decimal.NewFromInt(100), IsExpense: true, IsRecurrent: true,
	})

	now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	projector := NewProjector(store)
	if _, err := projector.Run(ctx, now); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// Clear the marker to simulate a crash after the copies landed but
	// before the checkpoint was written; the rerun must not duplicate.
	if err := store.SetMeta(ctx, storage.MetaLastProjectedMonth, "2024-01"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	created, err := projector.Run(ctx, now)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if created != 0 {
		t.Fatalf("rerun must find the deterministic ids in place, got %d new", created)
	}

	all, err := store.GetTransactions(ctx)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected source + one projection, got %d entries", len(all))
	}
}

func TestProjectorRunAsync(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustPut(t, store, core.TransactionEntry{
		ID: "rent", Date: "2024-01-15", Type: "Moradia", Category: "Aluguel",
		Amount: decimal.NewFromInt(100), IsExpense: true, IsRecurrent: true,
	})

	now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	if err := <-NewProjector(store).RunAsync(ctx, now); err != nil {
		t.Fatalf("RunAsync: %v", err)
	}
	if _, err := store.GetTransaction(ctx, ProjectedEntryID("rent", "2024-02")); err != nil {
		t.Fatalf("projected entry missing: %v", err)
	}
}
