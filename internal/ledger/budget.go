package ledger

import "github.com/shopspring/decimal"

// WarnThreshold is the usage percentage at or above which a budget warning
// is issued.
const WarnThreshold = 80

// UsagePercent returns used/budget as a rounded integer percentage. The
// second return value is false when budget is zero or negative: a zero
// budget means "no budget set", never a zero allowance, so no percentage
// exists and no warning can fire.
func UsagePercent(used, budget decimal.Decimal) (int, bool) {
	if !budget.IsPositive() {
		return 0, false
	}
	percent := used.Div(budget).Mul(decimal.NewFromInt(100)).Round(0)
	return int(percent.IntPart()), true
}

// ShouldWarn reports whether a defined usage percentage warrants a warning.
func ShouldWarn(percent int) bool {
	return percent >= WarnThreshold
}
