package services

import (
	"context"
	"fmt"
	"sort"

	"monetus/internal/core"
	"monetus/internal/storage"
)

// Summarizer derives monthly summaries from the ledger store. The summary
// is transaction-driven: a budgeted category with no entries in the month
// does not appear at all.
type Summarizer struct {
	store *storage.Repository
}

func NewSummarizer(store *storage.Repository) *Summarizer {
	return &Summarizer{store: store}
}

type pairKey struct {
	entryType string
	category  string
}

// SummarizeMonth aggregates one calendar month (YYYY-MM token) into per
// category sums with budget targets attached where one exists.
func (s *Summarizer) SummarizeMonth(ctx context.Context, month string) (core.MonthlySummary, error) {
	summary := core.MonthlySummary{Month: month}
	if err := core.ValidateMonth(month); err != nil {
		return summary, err
	}

	start, end := core.MonthBounds(month)
	entries, err := s.store.GetTransactionsByDateRange(ctx, start, end)
	if err != nil {
		return summary, fmt.Errorf("fetch month entries: %w", err)
	}
	budgets, err := s.store.GetBudgets(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch budgets: %w", err)
	}

	income := make(map[pairKey]*core.CategorySummary)
	expense := make(map[pairKey]*core.CategorySummary)

	for _, e := range entries {
		groups := income
		if e.IsExpense {
			groups = expense
			summary.TotalExpense = summary.TotalExpense.Add(e.Amount)
		} else {
			summary.TotalIncome = summary.TotalIncome.Add(e.Amount)
		}

		key := pairKey{entryType: e.Type, category: e.Category}
		if cs, ok := groups[key]; ok {
			cs.Amount = cs.Amount.Add(e.Amount)
		} else {
			groups[key] = &core.CategorySummary{
				Type:     e.Type,
				Category: e.Category,
				Amount:   e.Amount,
			}
		}
	}

	summary.IncomeCategories = collect(income, budgets, false)
	summary.ExpenseCategories = collect(expense, budgets, true)
	summary.Available = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

// collect attaches budget targets and orders the groups descending by
// amount, breaking ties by (type, category) so output is deterministic.
func collect(groups map[pairKey]*core.CategorySummary, budgets []core.BudgetItem, isExpense bool) []core.CategorySummary {
	out := make([]core.CategorySummary, 0, len(groups))
	for _, cs := range groups {
		for _, b := range budgets {
			if b.IsExpense == isExpense && b.Type == cs.Type && b.Category == cs.Category {
				target := b.TargetAmount
				cs.TargetAmount = &target
				break
			}
		}
		out = append(out, *cs)
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Category < out[j].Category
	})
	return out
}
