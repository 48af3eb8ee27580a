package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"monetus/internal/core"
)

func TestWriteTransactionsCSV(t *testing.T) {
	entries := []core.TransactionEntry{
		{
			ID: "tx-1", Date: "2025-01-15", Type: "Moradia", Category: "Aluguel",
			Amount: decimal.RequireFromString("1234.56"), PaymentMethod: core.PaymentPix,
			IsExpense: true, IsRecurrent: true,
		},
		{
			ID: "tx-2", Date: "2025-01-01", Type: "Remuneração Fixa", Category: "Salário Base",
			Amount: decimal.NewFromInt(3000), IsExpense: false,
		},
	}

	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, entries); err != nil {
		t.Fatalf("WriteTransactionsCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "id,date,kind,type,category,amount,payment_method,recurrent" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "1234.56") || !strings.Contains(lines[1], "expense") {
		t.Fatalf("unexpected expense row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "income") || !strings.Contains(lines[2], "Salário Base") {
		t.Fatalf("unexpected income row: %s", lines[2])
	}
}

func TestWriteBudgetsCSV(t *testing.T) {
	budgets := []core.BudgetItem{
		{ID: "b-1", Type: "Moradia", Category: "Aluguel", TargetAmount: decimal.NewFromInt(1500), IsExpense: true},
	}

	var buf bytes.Buffer
	if err := WriteBudgetsCSV(&buf, budgets); err != nil {
		t.Fatalf("WriteBudgetsCSV: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "id,kind,type,category,target_amount") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "b-1,expense,Moradia,Aluguel,1500") {
		t.Fatalf("unexpected row:\n%s", out)
	}
}

func TestWriteTransactionsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteTransactionsCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "id,date,kind,type,category,amount,payment_method,recurrent" {
		t.Fatalf("expected header only, got %q", got)
	}
}
