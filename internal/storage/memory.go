package storage

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

// MemoryStorage keeps ledgers in process memory only. It backs tests and the
// use_in_memory configuration.
type MemoryStorage struct {
	mu              sync.RWMutex
	defaultCurrency string
	users           map[int64]*models.User
}

func NewMemoryStorage(defaultCurrency string) *MemoryStorage {
	return &MemoryStorage{
		defaultCurrency: defaultCurrency,
		users:           make(map[int64]*models.User),
	}
}

// user returns the stored user, creating one lazily. Callers must hold mu.
func (s *MemoryStorage) user(userID int64) *models.User {
	u, exists := s.users[userID]
	if !exists {
		u = &models.User{
			ID:              userID,
			DefaultCurrency: s.defaultCurrency,
			Budgets:         make(map[string]decimal.Decimal),
		}
		s.users[userID] = u
	}
	return u
}

func (s *MemoryStorage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotUser(s.user(userID)), nil
}

func (s *MemoryStorage) AppendExpense(ctx context.Context, userID int64, expense models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.Expenses = append(u.Expenses, expense)
	return nil
}

func (s *MemoryStorage) DeleteLastExpense(ctx context.Context, userID int64) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if len(u.Expenses) == 0 {
		return nil, nil
	}
	removed := u.Expenses[len(u.Expenses)-1]
	u.Expenses = u.Expenses[:len(u.Expenses)-1]
	return &removed, nil
}

func (s *MemoryStorage) DeleteExpenseAt(ctx context.Context, userID int64, position int) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if position < 1 || position > len(u.Expenses) {
		return nil, nil
	}
	removed := u.Expenses[position-1]
	u.Expenses = append(u.Expenses[:position-1], u.Expenses[position:]...)
	return &removed, nil
}

func (s *MemoryStorage) SetBudget(ctx context.Context, userID int64, currency string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if u.Budgets == nil {
		u.Budgets = make(map[string]decimal.Decimal)
	}
	u.Budgets[currency] = amount
	return nil
}

func (s *MemoryStorage) SetDefaultCurrency(ctx context.Context, userID int64, currency string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user(userID).DefaultCurrency = currency
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// snapshotUser copies a user so callers cannot mutate stored state through
// the returned pointer.
func snapshotUser(u *models.User) *models.User {
	out := &models.User{
		ID:              u.ID,
		DefaultCurrency: u.DefaultCurrency,
		Budgets:         make(map[string]decimal.Decimal, len(u.Budgets)),
		Expenses:        make([]models.Expense, len(u.Expenses)),
	}
	for c, b := range u.Budgets {
		out.Budgets[c] = b
	}
	copy(out.Expenses, u.Expenses)
	return out
}
