// Package interpreter turns free-text chat messages into structured expense
// records. The grammar is three pure pieces composed by Interpret: numeric
// token detection, stopword removal and keyword classification, all driven by
// the bilingual tables in keywords.yaml.
package interpreter

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

// Interpreter extracts an Expense from raw message text. It is a pure
// function of its inputs and the loaded keyword tables; it never touches
// storage.
type Interpreter struct {
	currencies *CurrencyResolver
	classifier *Classifier
	dates      *DateResolver
	stopwords  map[string]struct{}

	// Now supplies the reference clock for relative dates. Tests override it.
	Now func() time.Time
}

func New(kw *Keywords) *Interpreter {
	stop := make(map[string]struct{}, len(kw.Stopwords))
	for _, w := range kw.Stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Interpreter{
		currencies: NewCurrencyResolver(kw.Currencies),
		classifier: NewClassifier(kw.Categories),
		dates:      NewDateResolver(kw.Yesterday),
		stopwords:  stop,
		Now:        time.Now,
	}
}

// Currencies exposes the resolver so callers can validate currency codes.
func (in *Interpreter) Currencies() *CurrencyResolver {
	return in.currencies
}

// Classifier exposes the keyword classifier.
func (in *Interpreter) Classifier() *Classifier {
	return in.classifier
}

// Interpret parses rawText into an Expense. The second return value is false
// when the text contains no positive numeric token, meaning the message is
// not an expense at all; callers fall back to help text, never to an error.
func (in *Interpreter) Interpret(rawText, defaultCurrency string) (models.Expense, bool) {
	tokens := strings.Fields(strings.ToLower(rawText))

	amount, ok := firstAmount(tokens)
	if !ok {
		return models.Expense{}, false
	}

	currency, found := in.currencies.Resolve(tokens)
	if !found {
		currency = defaultCurrency
	}

	// Strip the amount, every other numeric token, currency keywords and
	// stopwords; the first survivor names the category.
	var remaining []string
	for _, tok := range tokens {
		if isNumeric(tok) || in.currencies.isAlias(tok) {
			continue
		}
		if _, stop := in.stopwords[tok]; stop {
			continue
		}
		remaining = append(remaining, tok)
	}

	category := DefaultCategory
	if len(remaining) > 0 {
		category = in.classifier.Classify(remaining[0])
	}

	return models.Expense{
		Amount:   amount,
		Currency: currency,
		Category: category,
		Date:     in.dates.Resolve(rawText, in.Now()),
	}, true
}

// firstAmount returns the value of the first token that parses as a positive
// numeric literal. Zero is not an amount: a logged expense is always strictly
// positive. Later numeric tokens are ignored as amount candidates.
func firstAmount(tokens []string) (decimal.Decimal, bool) {
	for _, tok := range tokens {
		if v, ok := parseNumeric(tok); ok && v.IsPositive() {
			return v, true
		}
	}
	return decimal.Decimal{}, false
}

func isNumeric(token string) bool {
	_, ok := parseNumeric(token)
	return ok
}

// parseNumeric accepts unsigned decimal literals in ASCII or Myanmar digits.
func parseNumeric(token string) (decimal.Decimal, bool) {
	normalized := normalizeDigits(token)
	dots := 0
	for _, r := range normalized {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
		default:
			return decimal.Decimal{}, false
		}
	}
	if normalized == "" || normalized == "." || dots > 1 {
		return decimal.Decimal{}, false
	}
	v, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return v, true
}

// normalizeDigits rewrites Myanmar digits (U+1040..U+1049) to ASCII so that
// amounts written as ၃၀၀ parse like 300.
func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '၀' && r <= '၉' {
			return '0' + (r - '၀')
		}
		return r
	}, s)
}
