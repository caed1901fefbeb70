package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind tells the two transaction variants apart. Both share storage shape
// and CRUD contract.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

const (
	MaxCategoryLen    = 50
	MaxDescriptionLen = 255
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Label is the capitalised name used in client-facing messages.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindExpense:
		return "Expense"
	default:
		return "Transaction"
	}
}

// NotFound returns the kind-specific not-found error.
func (k Kind) NotFound() error {
	return newError(ErrTransactionNotFound, k.Label()+" not found")
}

// Transaction is a single income or expense owned by exactly one user.
type Transaction struct {
	ID            string
	Kind          Kind
	Amount        float64
	Category      string
	Description   string
	Date          Date
	Emoji         string
	UserID        string
	OwnerUsername string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OwnedBy reports whether username owns t.
func (t *Transaction) OwnedBy(username string) bool {
	return t.OwnerUsername == username
}

// Validate enforces the field constraints shared by both kinds.
func (t *Transaction) Validate() error {
	if t.Amount < 0 {
		return ValidationError("amount must be zero or positive")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ValidationError("category is required")
	}
	if utf8.RuneCountInString(t.Category) > MaxCategoryLen {
		return ValidationError(fmt.Sprintf("category must be at most %d characters", MaxCategoryLen))
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLen {
		return ValidationError(fmt.Sprintf("description must be at most %d characters", MaxDescriptionLen))
	}
	if t.Date.IsZero() {
		return ValidationError("date is required")
	}
	return nil
}

// View flattens t into the dashboard feed entry.
func (t *Transaction) View() TransactionView {
	return TransactionView{
		ID:          t.ID,
		Type:        t.Kind,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
		Emoji:       t.Emoji,
	}
}
