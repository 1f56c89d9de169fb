package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

func TestToCSV(t *testing.T) {
	expenses := []models.Expense{
		exp(300, "MMK", "food", day(2026, time.March, 15)),
		exp(120, "INR", "transport", day(2026, time.March, 14)),
	}

	out := ToCSV(expenses)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3, "header plus one row per expense")

	assert.Equal(t, "amount,currency,category,date", lines[0])
	assert.Equal(t, "300,MMK,food,2026-03-15", lines[1])
	assert.Equal(t, "120,INR,transport,2026-03-14", lines[2])
}

func TestToCSVEmptyLedger(t *testing.T) {
	out := ToCSV(nil)
	assert.Equal(t, "amount,currency,category,date\n", out)
}

func TestToCSVRowCountMatchesLedger(t *testing.T) {
	var expenses []models.Expense
	for i := 0; i < 25; i++ {
		expenses = append(expenses, exp(int64(i+1), "MMK", "food", day(2026, time.March, 15)))
	}

	out := ToCSV(expenses)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, len(expenses)+1)
	assert.Equal(t, "1,MMK,food,2026-03-15", lines[1], "rows come out in append order")
	assert.Equal(t, "25,MMK,food,2026-03-15", lines[25])
}
