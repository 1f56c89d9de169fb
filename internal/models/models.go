package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the day-granular format used everywhere an expense date is
// persisted or rendered.
const DateLayout = "2006-01-02"

// Expense represents a single logged spending event. It is immutable once
// stored; removal happens only through the positional delete operations.
type Expense struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

type expenseJSON struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

// MarshalJSON persists the date at day granularity, without a time of day.
func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(expenseJSON{
		ID:       e.ID,
		Amount:   e.Amount,
		Currency: e.Currency,
		Category: e.Category,
		Date:     e.Date.Format(DateLayout),
	})
}

func (e *Expense) UnmarshalJSON(data []byte) error {
	var raw expenseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.ParseInLocation(DateLayout, raw.Date, time.Local)
	if err != nil {
		return err
	}
	*e = Expense{ID: raw.ID, Amount: raw.Amount, Currency: raw.Currency, Category: raw.Category, Date: date}
	return nil
}

// Day truncates t to calendar-day granularity in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// User represents a bot user with their ledger and budget settings.
// Users are created lazily on first interaction and never deleted.
type User struct {
	ID              int64                      `json:"id"`
	DefaultCurrency string                     `json:"default_currency"`
	Budgets         map[string]decimal.Decimal `json:"budgets"`
	Expenses        []Expense                  `json:"expenses"`
}

// Budget returns the user's budget for a currency. A zero value means no
// budget is set for that currency.
func (u *User) Budget(currency string) decimal.Decimal {
	if u.Budgets == nil {
		return decimal.Zero
	}
	return u.Budgets[currency]
}
