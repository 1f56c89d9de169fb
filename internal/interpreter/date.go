package interpreter

import (
	"strings"
	"time"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

// DateResolver resolves the calendar day a message refers to.
type DateResolver struct {
	yesterday []string
}

func NewDateResolver(yesterdayAliases []string) *DateResolver {
	aliases := make([]string, len(yesterdayAliases))
	for i, a := range yesterdayAliases {
		aliases[i] = strings.ToLower(a)
	}
	return &DateResolver{yesterday: aliases}
}

// Resolve returns the day the raw text refers to: now's calendar day, or one
// day earlier when the text contains a "yesterday" keyword in any supported
// language. No other relative expressions are recognized.
func (r *DateResolver) Resolve(rawText string, now time.Time) time.Time {
	text := strings.ToLower(rawText)
	for _, alias := range r.yesterday {
		if strings.Contains(text, alias) {
			return models.Day(now.AddDate(0, 0, -1))
		}
	}
	return models.Day(now)
}
