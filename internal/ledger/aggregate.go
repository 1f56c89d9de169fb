// Package ledger contains the pure aggregation and reporting logic over a
// user's expense sequence. Nothing here mutates state or touches storage.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

// DailyExpenses returns the expenses resolved to the given calendar day, in
// ledger order.
func DailyExpenses(expenses []models.Expense, day time.Time) []models.Expense {
	var out []models.Expense
	for _, e := range expenses {
		if models.SameDay(e.Date, day) {
			out = append(out, e)
		}
	}
	return out
}

// DailyTotal sums the given day's expenses per currency. Amounts in different
// currencies are never combined.
func DailyTotal(expenses []models.Expense, day time.Time) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range DailyExpenses(expenses, day) {
		totals[e.Currency] = totals[e.Currency].Add(e.Amount)
	}
	return totals
}

// MonthlyTotal sums expenses of one currency falling in the given calendar
// month. Matching is on full year+month identity, so last year's January
// never leaks into this year's.
func MonthlyTotal(expenses []models.Expense, year int, month time.Month, currency string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Currency == currency && e.Date.Year() == year && e.Date.Month() == month {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// MonthlyTotals sums one calendar month per currency.
func MonthlyTotals(expenses []models.Expense, year int, month time.Month) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if e.Date.Year() == year && e.Date.Month() == month {
			totals[e.Currency] = totals[e.Currency].Add(e.Amount)
		}
	}
	return totals
}

// CategoryTotal is one row of a category breakdown, scoped to a currency.
type CategoryTotal struct {
	Category string
	Currency string
	Total    decimal.Decimal
}

// CategoryBreakdown sums all expenses per (category, currency) pair. Rows are
// ordered by first appearance of each pair in the ledger.
func CategoryBreakdown(expenses []models.Expense) []CategoryTotal {
	type key struct{ category, currency string }
	index := make(map[key]int)
	var rows []CategoryTotal
	for _, e := range expenses {
		k := key{e.Category, e.Currency}
		if i, ok := index[k]; ok {
			rows[i].Total = rows[i].Total.Add(e.Amount)
			continue
		}
		index[k] = len(rows)
		rows = append(rows, CategoryTotal{Category: e.Category, Currency: e.Currency, Total: e.Amount})
	}
	return rows
}
