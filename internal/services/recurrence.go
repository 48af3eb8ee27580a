package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"monetus/internal/core"
	"monetus/internal/storage"
)

// projectionNamespace seeds the deterministic ids of projected entries.
var projectionNamespace = uuid.MustParse("9f2c6f5a-1d3b-4b8e-9a47-5f0e3d2c1b6a")

// ProjectedEntryID derives the id a projection of sourceID into month will
// always receive. Re-running a partially failed batch therefore upserts
// the same records instead of duplicating them.
func ProjectedEntryID(sourceID, month string) string {
	return uuid.NewSHA1(projectionNamespace, []byte(sourceID+"|"+month)).String()
}

// Projector copies the previous month's recurring entries into the current
// month, at most meaningfully once per calendar month. It runs on every
// application start and login; its failures are logged, never fatal.
type Projector struct {
	store *storage.Repository
}

func NewProjector(store *storage.Repository) *Projector {
	return &Projector{store: store}
}

// Run performs one projection pass for the month containing now and
// returns the number of entries created. When the persisted marker already
// names the current month it returns immediately.
func (p *Projector) Run(ctx context.Context, now time.Time) (int, error) {
	currentMonth := core.MonthToken(now)

	marker, ok, err := p.store.GetMeta(ctx, storage.MetaLastProjectedMonth)
	if err != nil {
		return 0, fmt.Errorf("read projection marker: %w", err)
	}
	if ok && marker == currentMonth {
		slog.DebugContext(ctx, "Recurrence projection already ran this month", "month", currentMonth)
		return 0, nil
	}

	previousMonth, err := core.PrevMonth(currentMonth)
	if err != nil {
		return 0, fmt.Errorf("previous month of %s: %w", currentMonth, err)
	}

	start, end := core.MonthBounds(previousMonth)
	entries, err := p.store.GetTransactionsByDateRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetch %s entries: %w", previousMonth, err)
	}

	created := 0
	for _, src := range entries {
		if !src.IsRecurrent {
			continue
		}

		day, err := core.DayOf(src.Date)
		if err != nil {
			slog.WarnContext(ctx, "Skipping recurring entry with bad date",
				"id", src.ID, "date", src.Date, "error", err)
			continue
		}
		date, err := core.DateInMonth(currentMonth, day)
		if err != nil {
			return created, fmt.Errorf("place day %d in %s: %w", day, currentMonth, err)
		}

		id := ProjectedEntryID(src.ID, currentMonth)
		if _, err := p.store.GetTransaction(ctx, id); err == nil {
			slog.DebugContext(ctx, "Recurring entry already projected", "source_id", src.ID, "id", id)
			continue
		} else if !errors.Is(err, core.ErrNotFound) {
			return created, fmt.Errorf("check projected entry %s: %w", id, err)
		}

		projected := src
		projected.ID = id
		projected.Date = date
		if err := p.store.PutTransaction(ctx, projected); err != nil {
			return created, fmt.Errorf("project entry %s: %w", src.ID, err)
		}
		created++
	}

	// The marker is the idempotency checkpoint: persisted only after every
	// copy landed, so an interrupted batch is retried on the next run.
	if err := p.store.SetMeta(ctx, storage.MetaLastProjectedMonth, currentMonth); err != nil {
		return created, fmt.Errorf("persist projection marker: %w", err)
	}

	slog.InfoContext(ctx, "Recurrence projection complete",
		"month", currentMonth,
		"source_month", previousMonth,
		"created", created)
	return created, nil
}

// RunAsync starts a projection pass in the background. The task logs its
// own failure; the returned channel lets a caller await the outcome but
// startup never has to.
func (p *Projector) RunAsync(ctx context.Context, now time.Time) <-chan error {
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx, now)
		if err != nil {
			slog.ErrorContext(ctx, "Recurrence projection failed", "error", err)
		}
		done <- err
		close(done)
	}()
	return done
}
