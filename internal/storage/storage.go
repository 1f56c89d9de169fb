package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

// Storage owns the durable per-user ledgers and budgets. Every mutating call
// is durable by the time it returns: file-backed implementations persist
// synchronously inside the call, so an acknowledged operation survives a
// crash immediately after.
//
// Delete operations return a nil expense (and nil error) when there is
// nothing at the requested position; an empty ledger is not an error.
type Storage interface {
	// GetUser returns the user's current state, creating the user lazily
	// with the configured default currency on first sight.
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	AppendExpense(ctx context.Context, userID int64, expense models.Expense) error
	DeleteLastExpense(ctx context.Context, userID int64) (*models.Expense, error)
	// DeleteExpenseAt removes the expense at a 1-based position in ledger
	// order. Out-of-range positions mutate nothing.
	DeleteExpenseAt(ctx context.Context, userID int64, position int) (*models.Expense, error)

	SetBudget(ctx context.Context, userID int64, currency string, amount decimal.Decimal) error
	SetDefaultCurrency(ctx context.Context, userID int64, currency string) error

	Close() error
}
