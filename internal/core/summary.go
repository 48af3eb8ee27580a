package core

import "github.com/shopspring/decimal"

// CategorySummary is the summed amount for one classification pair within
// a month, with the matching budget target attached when one exists.
// Derived, never persisted.
type CategorySummary struct {
	Type         string           `json:"type"`
	Category     string           `json:"category"`
	Amount       decimal.Decimal  `json:"amount"`
	TargetAmount *decimal.Decimal `json:"targetAmount,omitempty"`
}

// MonthlySummary aggregates one calendar month of entries.
type MonthlySummary struct {
	Month             string            `json:"month"` // YYYY-MM
	TotalIncome       decimal.Decimal   `json:"totalIncome"`
	TotalExpense      decimal.Decimal   `json:"totalExpense"`
	Available         decimal.Decimal   `json:"available"`
	IncomeCategories  []CategorySummary `json:"incomeCategories"`
	ExpenseCategories []CategorySummary `json:"expenseCategories"`
}

// Snapshot is a full copy of the ledger's three collections. It exists
// only as the sync wire payload.
type Snapshot struct {
	Transactions []TransactionEntry `json:"transactions"`
	Budgets      []BudgetItem       `json:"budgets"`
	Categories   []CategoryItem     `json:"categories"`
}

// Counts returns the collection sizes, handy for sync logging.
func (s Snapshot) Counts() (transactions, budgets, categories int) {
	return len(s.Transactions), len(s.Budgets), len(s.Categories)
}
