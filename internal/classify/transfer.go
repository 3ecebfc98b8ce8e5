package classify

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTransferPhrases are internal-transfer phrasings matched as
// case-insensitive substrings of the description.
var DefaultTransferPhrases = []string{
	"transfer to pot",
	"transfer from pot",
	"pot transfer",
	"internal transfer",
	"self transfer",
	"own account",
	"transfer to savings",
	"transfer from savings",
	"neft-self",
	"imps-self",
	"credit card payment",
	"cc payment",
	"autopay payment",
	"sweep to deposit",
	"sweep from deposit",
}

// TransferFilter flags transactions that move money between a user's own
// accounts so they can be excluded from expense totals.
//
// Besides the phrase denylist it applies a magnitude heuristic: anything at
// or above largeThreshold is flagged on the assumption that large round-sum
// movements are usually self-transfers. That is an approximation, not ground
// truth, which is why the threshold is configuration and a zero threshold
// disables it.
type TransferFilter struct {
	phrases        []string
	largeThreshold decimal.Decimal
}

// NewTransferFilter builds a filter. phrases may be nil to use the defaults.
func NewTransferFilter(phrases []string, largeThreshold decimal.Decimal) *TransferFilter {
	if phrases == nil {
		phrases = DefaultTransferPhrases
	}
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &TransferFilter{phrases: lowered, largeThreshold: largeThreshold}
}

// IsInternal reports whether the transaction should be treated as an
// internal transfer.
func (f *TransferFilter) IsInternal(description string, amount decimal.Decimal) bool {
	desc := strings.ToLower(description)
	for _, p := range f.phrases {
		if strings.Contains(desc, p) {
			return true
		}
	}
	if f.largeThreshold.IsPositive() && amount.Abs().GreaterThanOrEqual(f.largeThreshold) {
		return true
	}
	return false
}
