package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/statemint-dev/statemint/internal/model"
	"github.com/statemint-dev/statemint/internal/normalize"
)

// Manual expense logs are date-prefixed lines like:
//
//	23/07 - auto to office - 45
//	24/07 - groceries dmart - ₹1,250.50 total
var (
	manualLineRe = regexp.MustCompile(
		`(?i)^\s*(\d{1,2}/\d{1,2})\s*[-–—]\s*(.+?)\s*[-–—]\s*(?:rs\.?|inr|₹|\$|€|£)?\s*([\d,]+(?:\.\d+)?)\s*(?:/-)?\s*(?:total)?\s*$`)
	manualPrefixRe = regexp.MustCompile(`^\s*\d{1,2}/\d{1,2}\s*[-–—]`)
)

// ManualOptions configures manual expense parsing.
type ManualOptions struct {
	// ReferenceYear anchors the year-less DD/MM dates. Required; there is no
	// implicit current-year default.
	ReferenceYear int
	Currency      string
}

// ParseManual converts a manual expense log into debit transactions. Lines
// that do not start with a DD/MM prefix are ignored as notes; lines that
// start like an entry but fail to parse produce warnings.
func ParseManual(text string, opts ManualOptions) ([]model.Transaction, []model.Warning, error) {
	if opts.ReferenceYear == 0 {
		return nil, nil, fmt.Errorf("reference year is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("empty input")
	}

	var txs []model.Transaction
	var warnings []model.Warning

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		m := manualLineRe.FindStringSubmatch(line)
		if m == nil {
			if manualPrefixRe.MatchString(line) {
				warnings = append(warnings, model.Warning{
					Source:  model.SourceManual,
					Line:    i + 1,
					Message: fmt.Sprintf("unparseable entry %q", strings.TrimSpace(line)),
				})
			}
			continue
		}

		date, err := normalize.ParseDayMonth(m[1], opts.ReferenceYear)
		if err != nil {
			warnings = append(warnings, model.Warning{
				Source:  model.SourceManual,
				Line:    i + 1,
				Message: fmt.Sprintf("bad date %q", m[1]),
			})
			continue
		}

		amount, err := normalize.ParseAmount(m[3], "")
		if err != nil || amount.IsZero() {
			warnings = append(warnings, model.Warning{
				Source:  model.SourceManual,
				Line:    i + 1,
				Message: fmt.Sprintf("bad amount %q", m[3]),
			})
			continue
		}

		txs = append(txs, model.Transaction{
			Date:        date,
			Amount:      amount.Abs(),
			Currency:    opts.Currency,
			Direction:   model.Debit,
			Description: m[2],
			Source:      model.SourceManual,
			SourceLine:  i + 1,
		})
	}

	return txs, warnings, nil
}
