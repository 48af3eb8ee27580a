// Package export renders the ledger's collections as tabular CSV. It
// reads whole collections and holds no logic of its own.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"monetus/internal/core"
	"monetus/internal/storage"
)

type transactionRow struct {
	ID            string `csv:"id"`
	Date          string `csv:"date"`
	Kind          string `csv:"kind"`
	Type          string `csv:"type"`
	Category      string `csv:"category"`
	Amount        string `csv:"amount"`
	PaymentMethod string `csv:"payment_method"`
	Recurrent     bool   `csv:"recurrent"`
}

type budgetRow struct {
	ID           string `csv:"id"`
	Kind         string `csv:"kind"`
	Type         string `csv:"type"`
	Category     string `csv:"category"`
	TargetAmount string `csv:"target_amount"`
}

// Exporter reads full collections from the ledger store and writes CSV.
type Exporter struct {
	store *storage.Repository
}

func NewExporter(store *storage.Repository) *Exporter {
	return &Exporter{store: store}
}

func (e *Exporter) WriteTransactions(ctx context.Context, w io.Writer) error {
	entries, err := e.store.GetTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	return WriteTransactionsCSV(w, entries)
}

func (e *Exporter) WriteBudgets(ctx context.Context, w io.Writer) error {
	budgets, err := e.store.GetBudgets(ctx)
	if err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}
	return WriteBudgetsCSV(w, budgets)
}

// WriteTransactionsCSV renders entries as CSV rows.
func WriteTransactionsCSV(w io.Writer, entries []core.TransactionEntry) error {
	rows := make([]transactionRow, len(entries))
	for i, e := range entries {
		rows[i] = transactionRow{
			ID:            e.ID,
			Date:          e.Date,
			Kind:          kindLabel(e.IsExpense),
			Type:          e.Type,
			Category:      e.Category,
			Amount:        e.Amount.String(),
			PaymentMethod: string(e.PaymentMethod),
			Recurrent:     e.IsRecurrent,
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write transactions csv: %w", err)
	}
	return nil
}

// WriteBudgetsCSV renders budget items as CSV rows.
func WriteBudgetsCSV(w io.Writer, budgets []core.BudgetItem) error {
	rows := make([]budgetRow, len(budgets))
	for i, b := range budgets {
		rows[i] = budgetRow{
			ID:           b.ID,
			Kind:         kindLabel(b.IsExpense),
			Type:         b.Type,
			Category:     b.Category,
			TargetAmount: b.TargetAmount.String(),
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write budgets csv: %w", err)
	}
	return nil
}

func kindLabel(isExpense bool) string {
	if isExpense {
		return "expense"
	}
	return "income"
}
