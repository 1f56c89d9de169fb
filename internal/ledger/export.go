package ledger

import (
	"fmt"
	"strings"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

// CSVHeader is the first line of every export.
const CSVHeader = "amount,currency,category,date"

// ToCSV renders expenses as comma-separated text in ledger order, one row
// per expense after the header. Fields are written verbatim, without quoting:
// category words come from whitespace splitting and cannot contain commas.
func ToCSV(expenses []models.Expense) string {
	var b strings.Builder
	b.WriteString(CSVHeader + "\n")
	for _, e := range expenses {
		fmt.Fprintf(&b, "%s,%s,%s,%s\n", e.Amount.String(), e.Currency, e.Category, e.Date.Format(models.DateLayout))
	}
	return b.String()
}
