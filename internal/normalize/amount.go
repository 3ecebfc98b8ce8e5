package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/statemint-dev/statemint/internal/model"
)

// ErrAmbiguousAmount marks a row with both debit and credit populated.
var ErrAmbiguousAmount = errors.New("both debit and credit present")

// ErrBadAmount marks an amount field that is not a number after cleanup.
var ErrBadAmount = errors.New("unparseable amount")

// ParseAmount strips the currency symbol, thousands separators and
// whitespace, then parses the remainder. Parenthesized values and a leading
// minus both read as negative.
func ParseAmount(s, symbol string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrBadAmount)
	}

	neg := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		neg = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	if symbol != "" {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	for _, sym := range []string{"₹", "$", "€", "£", "Rs.", "Rs", "INR", "USD", "EUR", "GBP"} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	if strings.HasPrefix(cleaned, "-") {
		neg = true
		cleaned = cleaned[1:]
	} else if strings.HasPrefix(cleaned, "+") {
		cleaned = cleaned[1:]
	}
	cleaned = strings.TrimSpace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// ResolveAmount turns raw amount fields into a non-negative amount plus a
// direction. Exactly one of two shapes is expected: a single signed amount
// column, or separate debit/credit columns.
//
// ok is false for zero-value rows; statements include zero-amount
// informational lines and those are dropped silently.
func ResolveAmount(amount, debit, credit, symbol string) (decimal.Decimal, model.Direction, bool, error) {
	hasDebit := strings.TrimSpace(debit) != ""
	hasCredit := strings.TrimSpace(credit) != ""

	if hasDebit || hasCredit {
		var dr, cr decimal.Decimal
		var err error
		if hasDebit {
			if dr, err = ParseAmount(debit, symbol); err != nil {
				return decimal.Zero, "", false, err
			}
		}
		if hasCredit {
			if cr, err = ParseAmount(credit, symbol); err != nil {
				return decimal.Zero, "", false, err
			}
		}
		if !dr.IsZero() && !cr.IsZero() {
			return decimal.Zero, "", false, ErrAmbiguousAmount
		}
		if !dr.IsZero() {
			return dr.Abs(), model.Debit, true, nil
		}
		if !cr.IsZero() {
			return cr.Abs(), model.Credit, true, nil
		}
		return decimal.Zero, "", false, nil
	}

	v, err := ParseAmount(amount, symbol)
	if err != nil {
		return decimal.Zero, "", false, err
	}
	if v.IsZero() {
		return decimal.Zero, "", false, nil
	}
	if v.IsNegative() {
		return v.Abs(), model.Debit, true, nil
	}
	return v, model.Credit, true, nil
}
