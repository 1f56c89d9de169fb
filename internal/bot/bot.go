package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/interpreter"
	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/ledger"
	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/storage"
)

const helpText = `Type:
add 300 tea
add 300 tea yesterday
show today
show month
analytics
set budget 1000
budget
delete last
delete 2
export`

type Bot struct {
	api         *tgbotapi.BotAPI
	storage     storage.Storage
	interpreter *interpreter.Interpreter
	logger      *zap.Logger
	locks       userLocks
	now         func() time.Time
}

func New(token string, store storage.Storage, in *interpreter.Interpreter, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:         api,
		storage:     store,
		interpreter: in,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

// reply is everything a handled message sends back: text, an optional
// document, and an optional reply keyboard.
type reply struct {
	text     string
	document []byte
	docName  string
	menu     bool
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()
	r := b.dispatch(ctx, message.From.ID, message.Text)

	if r.document != nil {
		doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
			Name:  r.docName,
			Bytes: r.document,
		})
		if _, err := b.api.Send(doc); err != nil {
			b.logger.Error("Failed to send document",
				zap.Error(err),
				zap.Int64("chat_id", message.Chat.ID))
		}
	}

	if r.text == "" {
		return
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, r.text)
	if r.menu {
		msg.ReplyMarkup = menuKeyboard()
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("show today"),
			tgbotapi.NewKeyboardButton("show month"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("analytics"),
			tgbotapi.NewKeyboardButton("export"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("budget"),
			tgbotapi.NewKeyboardButton("delete last"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// dispatch routes one message and runs its full read-mutate-persist cycle.
// The cycle is serialized per user id so two quick messages from the same
// user cannot lose one another's update.
func (b *Bot) dispatch(ctx context.Context, userID int64, text string) reply {
	lock := b.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	text = strings.TrimSpace(strings.ToLower(text))

	switch {
	case text == "/start":
		return reply{text: "Choose:", menu: true}
	case text == "/help":
		return reply{text: helpText}
	case strings.HasPrefix(text, "/"):
		return reply{text: "Unknown command. Use /help to see what I understand."}
	case strings.Contains(text, "today"):
		return b.handleToday(ctx, userID)
	case text == "show month":
		return b.handleMonth(ctx, userID)
	case text == "analytics":
		return b.handleAnalytics(ctx, userID)
	case strings.HasPrefix(text, "set currency"):
		return b.handleSetCurrency(ctx, userID, text)
	case strings.HasPrefix(text, "set budget") || strings.HasPrefix(text, "budget "):
		return b.handleSetBudget(ctx, userID, text)
	case text == "budget":
		return b.handleBudgetStatus(ctx, userID)
	case text == "delete last":
		return b.handleDeleteLast(ctx, userID)
	case strings.HasPrefix(text, "delete "):
		return b.handleDeleteAt(ctx, userID, text)
	case text == "export":
		return b.handleExport(ctx, userID)
	default:
		return b.handleAdd(ctx, userID, text)
	}
}

func (b *Bot) handleAdd(ctx context.Context, userID int64, text string) reply {
	user, err := b.storage.GetUser(ctx, userID)
	if err != nil {
		return b.storageFailure(err, userID)
	}

	expense, ok := b.interpreter.Interpret(text, user.DefaultCurrency)
	if !ok {
		return reply{text: helpText}
	}
	expense.ID = uuid.New().String()

	if err := b.storage.AppendExpense(ctx, userID, expense); err != nil {
		return b.storageFailure(err, userID)
	}

	response := fmt.Sprintf("✅ Added %s → %s", formatAmount(expense.Amount, expense.Currency), expense.Category)

	used := ledger.MonthlyTotal(append(user.Expenses, expense), expense.Date.Year(), expense.Date.Month(), expense.Currency)
	if percent, ok := ledger.UsagePercent(used, user.Budget(expense.Currency)); ok && ledger.ShouldWarn(percent) {
		response += fmt.Sprintf("\n⚠ You used %d%% of budget!", percent)
	}
	return reply{text: response}
}

func (b *Bot) handleToday(ctx context.Context, userID int64) reply {
	user, err := b.storage.GetUser(ctx, userID)
	if err != nil {
		return b.storageFailure(err, userID)
	}

	today := models.Day(b.now())
	list := ledger.DailyExpenses(user.Expenses, today)
	if len(list) == 0 {
		return reply{text: "No expenses today"}
	}

	var sb strings.Builder
	sb.WriteString("Today:\n")
	for i, e := range list {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, e.Category, formatAmount(e.Amount, e.Currency))
	}
	sb.WriteString("Total: " + formatTotals(ledger.DailyTotal(user.Expenses, today), b.currencyOrder()))
	return reply{text: sb.String()}
}

func (b *Bot) handleMonth(ctx context.Context, userID int64) reply {
	user, err := b.storage.GetUser(ctx, userID)
	if err != nil {
		return b.storageFailure(err, userID)
	}

	now := b.now()
	totals := ledger.MonthlyTotals(user.Expenses, now.Year(), now.Month())
	if len(totals) == 0 {
		return reply{text: "No expenses this month"}
	}
	return reply{text: "This month total: " + formatTotals(totals, b.currencyOrder())}
}

func (b *Bot) handleAnalytics(ctx context.Context, userID int64) reply {
	user, err := b.storage.GetUser(ctx, userID)
	if err != nil {
		return b.storageFailure(err, userID)
	}

	rows := ledger.CategoryBreakdown(user.Expenses)
	if len(rows) == 0 {
		return reply{text: "No expenses yet"}
	}

	var sb strings.Builder
	sb.WriteString("Category Wise:\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "%s: %s\n", row.Category, formatAmount(row.Total, row.Currency))
	}
	return reply{text: strings.TrimRight(sb.String(), "\n")}
}

func (b *Bot) handleSetBudget(ctx context.Context, userID int64, text string) reply {
	fields := strings.Fields(text)
	if fields[0] == "set" {
		fields = fields[1:]
	}
	// fields[0] == "budget"
	if len(fields) < 2 {
		return reply{text: "Use: set budget 1000 [mmk|inr]"}
	}

	amount, err := decimal.NewFromString(fields[1])
	if err != nil || amount.IsNegative() {
		return reply{text: "Use: set budget 1000 [mmk|inr]"}
	}

	user, err := b.storage.GetUser(ctx, userID)
	if err != nil {
		return b.storageFailure(err, userID)
	}

	currency := user.DefaultCurrency
	if len(fields) > 2 {
		code, ok := b.interpreter.Currencies().Resolve(fields[2:])
		if !ok && b.interpreter.Currencies().Known(fields[2]) {
			code, ok = strings.ToUpper(fields[2]), true
		}
		if !ok {
			return reply{text: fmt.Sprintf("Unknown currency %q", fields[2])}
		}
		currency = code
	}

	if err := b.storage.SetBudget(ctx, userID, currency, amount); err != nil {
		return b.storageFailure(err, userID)
	}
	return reply{text: fmt.Sprintf("✅ Monthly budget set to %s", formatAmount(amount, currency))}
}

func (b *Bot) handleBudgetStatus(ctx context.Context, userID int64) reply {
	user, err := b.storage.GetUser(ctx, userID)
	if err != nil {
		return b.storageFailure(err, userID)
	}

	now := b.now()
	var sections []string
	for _, currency := range b.currencyOrder() {
		budget := user.Budget(currency)
		if !budget.IsPositive() {
			continue
		}
		used := ledger.MonthlyTotal(user.Expenses, now.Year(), now.Month(), currency)
		section := fmt.Sprintf("Budget: %s\nUsed: %s\nLeft: %s",
			formatAmount(budget, currency),
			formatAmount(used, currency),
			formatAmount(budget.Sub(used), currency))
		if percent, ok := ledger.UsagePercent(used, budget); ok {
			section += fmt.Sprintf("\nUsage: %d%%", percent)
			if ledger.ShouldWarn(percent) {
				section += "\n⚠ Warning: Near budget limit!"
			}
		}
		sections = append(sections, section)
	}

	if len(sections) == 0 {
		return reply{text: "No budget set. Use: set budget 1000"}
	}
	return reply{text: strings.Join(sections, "\n\n")}
}

func (b *Bot) handleSetCurrency(ctx context.Context, userID int64, text string) reply {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return reply{text: "Use: set currency mmk"}
	}

	code, ok := b.interpreter.Currencies().Resolve(fields[2:3])
	if !ok && b.interpreter.Currencies().Known(fields[2]) {
		code, ok = strings.ToUpper(fields[2]), true
	}
	if !ok {
		return reply{text: fmt.Sprintf("Unknown currency %q", fields[2])}
	}

	if err := b.storage.SetDefaultCurrency(ctx, userID, code); err != nil {
		return b.storageFailure(err, userID)
	}
	return reply{text: fmt.Sprintf("✅ Default currency is now %s", code)}
}

func (b *Bot) handleDeleteLast(ctx context.Context, userID int64) reply {
	removed, err := b.storage.DeleteLastExpense(ctx, userID)
	if err != nil {
		return b.storageFailure(err, userID)
	}
	if removed == nil {
		return reply{text: "Nothing to delete"}
	}
	return reply{text: fmt.Sprintf("Removed %s → %s", formatAmount(removed.Amount, removed.Currency), removed.Category)}
}

func (b *Bot) handleDeleteAt(ctx context.Context, userID int64, text string) reply {
	arg := strings.TrimSpace(strings.TrimPrefix(text, "delete "))
	position, err := strconv.Atoi(arg)
	if err != nil {
		return reply{text: "Use: delete 2"}
	}

	removed, err := b.storage.DeleteExpenseAt(ctx, userID, position)
	if err != nil {
		return b.storageFailure(err, userID)
	}
	if removed == nil {
		return reply{text: fmt.Sprintf("No expense #%d", position)}
	}
	return reply{text: fmt.Sprintf("Deleted %s %s", formatAmount(removed.Amount, removed.Currency), removed.Category)}
}

func (b *Bot) handleExport(ctx context.Context, userID int64) reply {
	user, err := b.storage.GetUser(ctx, userID)
	if err != nil {
		return b.storageFailure(err, userID)
	}
	if len(user.Expenses) == 0 {
		return reply{text: "Nothing to export"}
	}
	return reply{
		document: []byte(ledger.ToCSV(user.Expenses)),
		docName:  "report.csv",
	}
}

func (b *Bot) storageFailure(err error, userID int64) reply {
	b.logger.Error("Storage operation failed",
		zap.Error(err),
		zap.Int64("user_id", userID))
	return reply{text: "⚠️ Sorry, I couldn't save that. Please try again."}
}

func (b *Bot) currencyOrder() []string {
	return b.interpreter.Currencies().Codes()
}

func formatAmount(amount decimal.Decimal, currency string) string {
	return amount.String() + " " + currency
}

// formatTotals renders per-currency totals in the configured currency order.
// Totals in different currencies are listed, never combined.
func formatTotals(totals map[string]decimal.Decimal, order []string) string {
	var parts []string
	for _, currency := range order {
		if total, ok := totals[currency]; ok {
			parts = append(parts, formatAmount(total, currency))
		}
	}
	return strings.Join(parts, ", ")
}

// userLocks hands out one mutex per user id.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (l *userLocks) forUser(userID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks == nil {
		l.locks = make(map[int64]*sync.Mutex)
	}
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}
