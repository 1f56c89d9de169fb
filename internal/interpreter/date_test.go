package interpreter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/models"
)

func TestResolveDate(t *testing.T) {
	r := NewDateResolver([]string{"yesterday", "မနေ့က"})
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.Local)

	tests := []struct {
		text string
		want time.Time
	}{
		{"add 300 tea", models.Day(now)},
		{"add 300 tea yesterday", models.Day(now).AddDate(0, 0, -1)},
		{"မနေ့က ၃၀၀ ကား", models.Day(now).AddDate(0, 0, -1)},
		{"add 300 tea 2 days ago", models.Day(now)}, // only "yesterday" is understood
		{"add 300 tea on monday", models.Day(now)},
	}

	for _, tc := range tests {
		got := r.Resolve(tc.text, now)
		assert.True(t, got.Equal(tc.want), "%q resolved to %v, want %v", tc.text, got, tc.want)
	}
}

func TestResolveDateCrossesMonthBoundary(t *testing.T) {
	r := NewDateResolver([]string{"yesterday"})
	firstOfMarch := time.Date(2026, time.March, 1, 23, 59, 0, 0, time.Local)

	got := r.Resolve("100 tea yesterday", firstOfMarch)
	assert.Equal(t, time.February, got.Month())
	assert.Equal(t, 28, got.Day())
}
