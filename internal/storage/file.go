package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

// FileStorage keeps all ledgers in one JSON document keyed by user id. The
// whole document is rewritten on every mutation, via a temp file swapped in
// with os.Rename, so a reader never observes a partial write.
type FileStorage struct {
	mu              sync.Mutex
	path            string
	defaultCurrency string
	users           map[int64]*models.User
	logger          *zap.Logger
}

func NewFileStorage(path, defaultCurrency string, logger *zap.Logger) (*FileStorage, error) {
	s := &FileStorage{
		path:            path,
		defaultCurrency: defaultCurrency,
		users:           make(map[int64]*models.User),
		logger:          logger,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the document at startup. A missing file means an empty store;
// an unparsable file also means an empty store, surfaced in the log rather
// than crashing the process.
func (s *FileStorage) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read ledger file: %w", err)
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		s.logger.Warn("Ledger file is corrupt, starting with an empty store",
			zap.String("path", s.path),
			zap.Error(err))
		s.users = make(map[int64]*models.User)
	}
	return nil
}

// persist writes the full document and atomically replaces the previous one.
// Callers must hold mu. A persist failure is returned to the caller: the
// operation must not be acknowledged as durable.
func (s *FileStorage) persist() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}

func (s *FileStorage) user(userID int64) *models.User {
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

func (s *FileStorage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotUser(s.user(userID)), nil
}

func (s *FileStorage) AppendExpense(ctx context.Context, userID int64, expense models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.Expenses = append(u.Expenses, expense)
	if err := s.persist(); err != nil {
		u.Expenses = u.Expenses[:len(u.Expenses)-1]
		return err
	}
	return nil
}

func (s *FileStorage) DeleteLastExpense(ctx context.Context, userID int64) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if len(u.Expenses) == 0 {
		return nil, nil
	}
	removed := u.Expenses[len(u.Expenses)-1]
	u.Expenses = u.Expenses[:len(u.Expenses)-1]
	if err := s.persist(); err != nil {
		u.Expenses = append(u.Expenses, removed)
		return nil, err
	}
	return &removed, nil
}

func (s *FileStorage) DeleteExpenseAt(ctx context.Context, userID int64, position int) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if position < 1 || position > len(u.Expenses) {
		return nil, nil
	}
	removed := u.Expenses[position-1]
	rest := make([]models.Expense, 0, len(u.Expenses)-1)
	rest = append(rest, u.Expenses[:position-1]...)
	rest = append(rest, u.Expenses[position:]...)
	prev := u.Expenses
	u.Expenses = rest
	if err := s.persist(); err != nil {
		u.Expenses = prev
		return nil, err
	}
	return &removed, nil
}

func (s *FileStorage) SetBudget(ctx context.Context, userID int64, currency string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if u.Budgets == nil {
		u.Budgets = make(map[string]decimal.Decimal)
	}
	prev, had := u.Budgets[currency]
	u.Budgets[currency] = amount
	if err := s.persist(); err != nil {
		if had {
			u.Budgets[currency] = prev
		} else {
			delete(u.Budgets, currency)
		}
		return err
	}
	return nil
}

func (s *FileStorage) SetDefaultCurrency(ctx context.Context, userID int64, currency string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	prev := u.DefaultCurrency
	u.DefaultCurrency = currency
	if err := s.persist(); err != nil {
		u.DefaultCurrency = prev
		return err
	}
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}
