package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStorage implements Storage on PostgreSQL. Ledger order is the
// insertion order of the expenses.seq column; durability comes from the
// database, so no extra persist step exists.
type PostgresStorage struct {
	db              *sql.DB
	defaultCurrency string
}

func NewPostgresStorage(config DatabaseConfig, defaultCurrency string) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	s := &PostgresStorage{db: db, defaultCurrency: defaultCurrency}
	if err := s.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStorage) initializeSchema() error {
	schema, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

// ensureUser creates the user row lazily with the configured default
// currency.
func (s *PostgresStorage) ensureUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, default_currency) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		userID, s.defaultCurrency)
	return err
}

func (s *PostgresStorage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	u := &models.User{ID: userID, Budgets: make(map[string]decimal.Decimal)}
	err := s.db.QueryRowContext(ctx,
		`SELECT default_currency FROM users WHERE id = $1`, userID).Scan(&u.DefaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT currency, amount FROM budgets WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading budgets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var currency, amount string
		if err := rows.Scan(&currency, &amount); err != nil {
			return nil, fmt.Errorf("error scanning budget: %w", err)
		}
		v, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("error parsing budget amount: %w", err)
		}
		u.Budgets[currency] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	expRows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, currency, category, spent_on FROM expenses WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading expenses: %w", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		e, err := scanExpense(expRows)
		if err != nil {
			return nil, err
		}
		u.Expenses = append(u.Expenses, e)
	}
	if err := expRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var (
		e      models.Expense
		amount string
		spent  time.Time
	)
	if err := row.Scan(&e.ID, &amount, &e.Currency, &e.Category, &spent); err != nil {
		return models.Expense{}, fmt.Errorf("error scanning expense: %w", err)
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Expense{}, fmt.Errorf("error parsing expense amount: %w", err)
	}
	e.Amount = v
	e.Date = models.Day(spent)
	return e, nil
}

func (s *PostgresStorage) AppendExpense(ctx context.Context, userID int64, expense models.Expense) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, amount, currency, category, spent_on) VALUES ($1, $2, $3, $4, $5, $6)`,
		expense.ID, userID, expense.Amount.String(), expense.Currency, expense.Category,
		expense.Date.Format(models.DateLayout))
	if err != nil {
		return fmt.Errorf("error inserting expense: %w", err)
	}
	return nil
}

func (s *PostgresStorage) DeleteLastExpense(ctx context.Context, userID int64) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM expenses WHERE seq = (SELECT MAX(seq) FROM expenses WHERE user_id = $1)
		 RETURNING id, amount, currency, category, spent_on`, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStorage) DeleteExpenseAt(ctx context.Context, userID int64, position int) (*models.Expense, error) {
	if position < 1 {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM expenses WHERE seq = (
		     SELECT seq FROM expenses WHERE user_id = $1 ORDER BY seq OFFSET $2 LIMIT 1
		 ) RETURNING id, amount, currency, category, spent_on`, userID, position-1)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStorage) SetBudget(ctx context.Context, userID int64, currency string, amount decimal.Decimal) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, currency, amount) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, currency) DO UPDATE SET amount = EXCLUDED.amount`,
		userID, currency, amount.String())
	if err != nil {
		return fmt.Errorf("error setting budget: %w", err)
	}
	return nil
}

func (s *PostgresStorage) SetDefaultCurrency(ctx context.Context, userID int64, currency string) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET default_currency = $1 WHERE id = $2`, currency, userID)
	if err != nil {
		return fmt.Errorf("error setting default currency: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
