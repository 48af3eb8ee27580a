package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PaymentCredito  PaymentMethod = "Crédito"
	PaymentDebito   PaymentMethod = "Débito"
	PaymentBoleto   PaymentMethod = "Boleto"
	PaymentPix      PaymentMethod = "PIX"
	PaymentDinheiro PaymentMethod = "Dinheiro"
)

type (
	// PaymentMethod is how an expense was paid. It carries no meaning on
	// income entries.
	PaymentMethod string

	// TransactionEntry is a posted financial event. The id is generated by
	// the caller and never reused; records are replaced whole on update.
	TransactionEntry struct {
		ID            string          `json:"id"`
		Date          string          `json:"date"` // YYYY-MM-DD, no time zone
		Type          string          `json:"type"`
		Category      string          `json:"category"`
		Amount        decimal.Decimal `json:"amount"`
		PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
		IsExpense     bool            `json:"isExpense"`
		IsRecurrent   bool            `json:"isRecurrent,omitempty"`
	}

	// BudgetItem is a target ceiling for one (type, category, isExpense)
	// triple. At most one exists per triple.
	BudgetItem struct {
		ID           string          `json:"id"`
		Type         string          `json:"type"`
		Category     string          `json:"category"`
		TargetAmount decimal.Decimal `json:"targetAmount"`
		IsExpense    bool            `json:"isExpense"`
	}

	// CategoryItem is a user-defined classification pair. Built-in and
	// custom categories form one namespace, unique per triple.
	CategoryItem struct {
		Type      string `json:"type"`
		Category  string `json:"category"`
		IsExpense bool   `json:"isExpense"`
	}
)

var (
	ErrEmptyID              = errors.New("empty id")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidMonth         = errors.New("invalid month token")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyType            = errors.New("empty type")
	ErrEmptyCategory        = errors.New("empty category")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrDuplicate            = errors.New("duplicate record")
	ErrNotFound             = errors.New("record not found")
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCredito, PaymentDebito, PaymentBoleto, PaymentPix, PaymentDinheiro:
		return true
	}
	return false
}

func (t TransactionEntry) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := ValidateDate(t.Date); err != nil {
		return err
	}
	if strings.TrimSpace(t.Type) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.IsExpense && t.PaymentMethod != "" && !t.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

func (b BudgetItem) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(b.Type) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !b.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (c CategoryItem) Validate() error {
	if strings.TrimSpace(c.Type) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(c.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// SameTriple reports whether two classification pairs share the
// (type, category, isExpense) identity.
func (c CategoryItem) SameTriple(other CategoryItem) bool {
	return c.Type == other.Type && c.Category == other.Category && c.IsExpense == other.IsExpense
}
