package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/interpreter"
	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/storage"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	kw, err := interpreter.DefaultKeywords()
	require.NoError(t, err)

	in := interpreter.New(kw)
	in.Now = func() time.Time { return testNow }

	return &Bot{
		storage:     storage.NewMemoryStorage("MMK"),
		interpreter: in,
		logger:      zap.NewNop(),
		now:         func() time.Time { return testNow },
	}
}

func (b *Bot) mustText(t *testing.T, userID int64, text string) string {
	t.Helper()
	return b.dispatch(context.Background(), userID, text).text
}

func TestDispatchStartShowsMenu(t *testing.T) {
	b := newTestBot(t)
	r := b.dispatch(context.Background(), 1, "/start")
	assert.Equal(t, "Choose:", r.text)
	assert.True(t, r.menu)
}

func TestDispatchAddExpense(t *testing.T) {
	b := newTestBot(t)
	out := b.mustText(t, 1, "add 300 tea")
	assert.Equal(t, "✅ Added 300 MMK → food", out)

	user, err := b.storage.GetUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, user.Expenses, 1)
	assert.Equal(t, "300", user.Expenses[0].Amount.String())
	assert.Equal(t, "food", user.Expenses[0].Category)
	assert.Equal(t, "MMK", user.Expenses[0].Currency)
	assert.NotEmpty(t, user.Expenses[0].ID)
}

func TestDispatchHelpOnNoMatch(t *testing.T) {
	b := newTestBot(t)
	out := b.mustText(t, 1, "hello there")
	assert.Equal(t, helpText, out)

	// A non-expense message changes nothing.
	user, err := b.storage.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, user.Expenses)
}

func TestDispatchShowToday(t *testing.T) {
	b := newTestBot(t)
	assert.Equal(t, "No expenses today", b.mustText(t, 1, "show today"))

	b.mustText(t, 1, "add 300 tea")
	b.mustText(t, 1, "add 200 bus")
	b.mustText(t, 1, "add 100 tea yesterday")

	out := b.mustText(t, 1, "show today")
	assert.Contains(t, out, "1. food - 300 MMK")
	assert.Contains(t, out, "2. transport - 200 MMK")
	assert.Contains(t, out, "Total: 500 MMK")
	assert.NotContains(t, out, "100")
}

func TestDispatchShowMonth(t *testing.T) {
	b := newTestBot(t)
	assert.Equal(t, "No expenses this month", b.mustText(t, 1, "show month"))

	b.mustText(t, 1, "add 300 tea")
	b.mustText(t, 1, "add 50 rupees lunch")

	out := b.mustText(t, 1, "show month")
	assert.Equal(t, "This month total: 300 MMK, 50 INR", out)
}

func TestDispatchAnalytics(t *testing.T) {
	b := newTestBot(t)
	assert.Equal(t, "No expenses yet", b.mustText(t, 1, "analytics"))

	b.mustText(t, 1, "add 300 tea")
	b.mustText(t, 1, "add 200 tea")
	b.mustText(t, 1, "add 120 bus")

	out := b.mustText(t, 1, "analytics")
	assert.Equal(t, "Category Wise:\nfood: 500 MMK\ntransport: 120 MMK", out)
}

func TestDispatchBudgetFlow(t *testing.T) {
	b := newTestBot(t)
	assert.Equal(t, "No budget set. Use: set budget 1000", b.mustText(t, 1, "budget"))

	assert.Equal(t, "✅ Monthly budget set to 1000 MMK", b.mustText(t, 1, "set budget 1000"))

	b.mustText(t, 1, "add 500 tea")
	out := b.mustText(t, 1, "add 350 bus")
	assert.Contains(t, out, "✅ Added 350 MMK → transport")
	assert.Contains(t, out, "⚠ You used 85% of budget!")

	report := b.mustText(t, 1, "budget")
	assert.Contains(t, report, "Budget: 1000 MMK")
	assert.Contains(t, report, "Used: 850 MMK")
	assert.Contains(t, report, "Left: 150 MMK")
	assert.Contains(t, report, "Usage: 85%")
	assert.Contains(t, report, "⚠ Warning: Near budget limit!")
}

func TestDispatchNoWarningBelowThreshold(t *testing.T) {
	b := newTestBot(t)
	b.mustText(t, 1, "set budget 1000")

	out := b.mustText(t, 1, "add 790 tea")
	assert.NotContains(t, out, "⚠")

	report := b.mustText(t, 1, "budget")
	assert.Contains(t, report, "Usage: 79%")
	assert.NotContains(t, report, "Warning")
}

func TestDispatchNoWarningWithoutBudget(t *testing.T) {
	b := newTestBot(t)
	out := b.mustText(t, 1, "add 99999 tea")
	assert.NotContains(t, out, "⚠")
}

func TestDispatchSetBudgetWithCurrency(t *testing.T) {
	b := newTestBot(t)
	assert.Equal(t, "✅ Monthly budget set to 500 INR", b.mustText(t, 1, "set budget 500 inr"))
	assert.Equal(t, "Use: set budget 1000 [mmk|inr]", b.mustText(t, 1, "set budget abc"))
	assert.Contains(t, b.mustText(t, 1, "set budget 500 usd"), "Unknown currency")
}

func TestDispatchDeleteLast(t *testing.T) {
	b := newTestBot(t)
	assert.Equal(t, "Nothing to delete", b.mustText(t, 1, "delete last"))

	b.mustText(t, 1, "add 300 tea")
	assert.Equal(t, "Removed 300 MMK → food", b.mustText(t, 1, "delete last"))
	assert.Equal(t, "Nothing to delete", b.mustText(t, 1, "delete last"))
}

func TestDispatchDeleteAt(t *testing.T) {
	b := newTestBot(t)
	b.mustText(t, 1, "add 100 tea")
	b.mustText(t, 1, "add 200 bus")
	b.mustText(t, 1, "add 300 wifi")

	assert.Equal(t, "No expense #9", b.mustText(t, 1, "delete 9"))
	assert.Equal(t, "Use: delete 2", b.mustText(t, 1, "delete everything"))
	assert.Equal(t, "Deleted 200 MMK transport", b.mustText(t, 1, "delete 2"))

	// Remaining expenses re-index.
	assert.Equal(t, "Deleted 300 MMK bills", b.mustText(t, 1, "delete 2"))
}

func TestDispatchDeleteLastIsPerUser(t *testing.T) {
	b := newTestBot(t)
	b.mustText(t, 1, "add 100 tea")
	b.mustText(t, 2, "add 200 bus")

	b.mustText(t, 1, "delete last")

	u2, err := b.storage.GetUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, u2.Expenses, 1)
	assert.Equal(t, "transport", u2.Expenses[0].Category)
}

func TestDispatchExport(t *testing.T) {
	b := newTestBot(t)
	assert.Equal(t, "Nothing to export", b.mustText(t, 1, "export"))

	b.mustText(t, 1, "add 300 tea")
	b.mustText(t, 1, "add 120 bus yesterday")

	r := b.dispatch(context.Background(), 1, "export")
	require.NotNil(t, r.document)
	assert.Equal(t, "report.csv", r.docName)

	lines := strings.Split(strings.TrimRight(string(r.document), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "amount,currency,category,date", lines[0])
	assert.Equal(t, "300,MMK,food,2026-03-15", lines[1])
	assert.Equal(t, "120,MMK,transport,2026-03-14", lines[2])
}

func TestDispatchSetCurrency(t *testing.T) {
	b := newTestBot(t)
	assert.Equal(t, "✅ Default currency is now INR", b.mustText(t, 1, "set currency inr"))

	out := b.mustText(t, 1, "add 300 tea")
	assert.Equal(t, "✅ Added 300 INR → food", out)

	assert.Contains(t, b.mustText(t, 1, "set currency usd"), "Unknown currency")
}

func TestDispatchBurmeseMessage(t *testing.T) {
	b := newTestBot(t)
	out := b.mustText(t, 1, "ထည့် ၃၀၀ ကား")
	assert.Equal(t, "✅ Added 300 MMK → transport", out)
}

func TestDispatchUnknownSlashCommand(t *testing.T) {
	b := newTestBot(t)
	assert.Contains(t, b.mustText(t, 1, "/frobnicate"), "Unknown command")
}
