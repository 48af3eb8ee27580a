// Package scan is the receipt-recognition collaborator: it hands an image
// plus the current classification catalog to an external model and gets a
// best-effort guess back. The guess is only ever a pre-fill suggestion;
// nothing downstream trusts it beyond normal field validation.
package scan

import (
	"context"

	"github.com/shopspring/decimal"

	"monetus/internal/core"
)

// ReceiptGuess is what the collaborator could read off a receipt. Any
// field except IsExpense may be absent.
type ReceiptGuess struct {
	Amount    *decimal.Decimal
	Date      string // YYYY-MM-DD, empty when unreadable
	IsExpense bool
	Type      string
	Category  string
}

// Scanner extracts a guess from an image. The catalog constrains which
// classification pairs the scanner may suggest.
type Scanner interface {
	ScanReceipt(ctx context.Context, image []byte, format string, catalog []core.CategoryItem) (ReceiptGuess, error)
}

// Prefill turns the guess into a draft entry for the caller to complete
// and validate. The draft has no id and no payment method.
func (g ReceiptGuess) Prefill() core.TransactionEntry {
	e := core.TransactionEntry{
		Date:      g.Date,
		Type:      g.Type,
		Category:  g.Category,
		IsExpense: g.IsExpense,
	}
	if g.Amount != nil {
		e.Amount = *g.Amount
	}
	return e
}
