package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUsagePercent(t *testing.T) {
	tests := []struct {
		name    string
		used    int64
		budget  int64
		percent int
		defined bool
	}{
		{"no budget set", 100, 0, 0, false},
		{"negative budget is also unset", 100, -5, 0, false},
		{"zero used with unset budget", 0, 0, 0, false},
		{"exactly at warning boundary", 80, 100, 80, true},
		{"just below warning boundary", 79, 100, 79, true},
		{"over budget", 150, 100, 150, true},
		{"nothing used", 0, 100, 0, true},
		{"rounds to nearest integer", 850, 1000, 85, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			percent, ok := UsagePercent(decimal.NewFromInt(tc.used), decimal.NewFromInt(tc.budget))
			assert.Equal(t, tc.defined, ok)
			if tc.defined {
				assert.Equal(t, tc.percent, percent)
			}
		})
	}
}

func TestUsagePercentRounding(t *testing.T) {
	// 1/3 of budget used -> 33.33..% -> 33
	percent, ok := UsagePercent(decimal.NewFromInt(1), decimal.NewFromInt(3))
	assert.True(t, ok)
	assert.Equal(t, 33, percent)

	// 2/3 -> 66.66..% -> 67
	percent, ok = UsagePercent(decimal.NewFromInt(2), decimal.NewFromInt(3))
	assert.True(t, ok)
	assert.Equal(t, 67, percent)
}

func TestShouldWarn(t *testing.T) {
	assert.False(t, ShouldWarn(0))
	assert.False(t, ShouldWarn(79))
	assert.True(t, ShouldWarn(80))
	assert.True(t, ShouldWarn(100))
	assert.True(t, ShouldWarn(150))
}
