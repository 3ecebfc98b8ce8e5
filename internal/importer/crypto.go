package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/statemint-dev/statemint/internal/model"
	"github.com/statemint-dev/statemint/internal/normalize"
)

// Crypto portfolio dumps are repeated blocks of the shape:
//
//	1. USDC (Base)
//	   Price: $0.99 | Change: -0.0%
//	   Quantity: 62.192612 | Value: $62.18
var (
	holdingHeaderRe = regexp.MustCompile(`^\s*\d+\.\s+([A-Za-z0-9]+)\s*\(([^)]+)\)`)
	holdingPriceRe  = regexp.MustCompile(`(?i)price:\s*\$?\s*([\d,]+(?:\.\d+)?)\s*\|\s*change:\s*(-?[\d.]+)\s*%`)
	holdingQtyRe    = regexp.MustCompile(`(?i)quantity:\s*([\d,]+(?:\.\d+)?)\s*\|\s*value:\s*\$?\s*([\d,]+(?:\.\d+)?)`)
)

// maxBlockLines bounds how far below a block header its detail lines may sit.
const maxBlockLines = 4

// ParseHoldings extracts crypto positions from a freeform portfolio dump.
// Blocks missing their quantity/value line are reported as warnings.
func ParseHoldings(text string) ([]model.CryptoHolding, []model.Warning) {
	lines := strings.Split(text, "\n")

	var holdings []model.CryptoHolding
	var warnings []model.Warning

	for i := 0; i < len(lines); i++ {
		m := holdingHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		h := model.CryptoHolding{Symbol: m[1], Network: strings.TrimSpace(m[2])}
		haveQty := false

		end := i + maxBlockLines
		for j := i + 1; j < len(lines) && j <= end; j++ {
			if holdingHeaderRe.MatchString(lines[j]) {
				break
			}
			if pm := holdingPriceRe.FindStringSubmatch(lines[j]); pm != nil {
				h.Price = mustDecimal(pm[1])
				h.ChangePct = mustDecimal(pm[2])
			}
			if qm := holdingQtyRe.FindStringSubmatch(lines[j]); qm != nil {
				h.Quantity = mustDecimal(qm[1])
				h.Value = mustDecimal(qm[2])
				haveQty = true
			}
		}

		if !haveQty {
			warnings = append(warnings, model.Warning{
				Source:  model.SourceCrypto,
				Line:    i + 1,
				Message: fmt.Sprintf("holding %s missing quantity/value line", h.Symbol),
			})
			continue
		}
		holdings = append(holdings, h)
	}

	return holdings, warnings
}

// ParseCrypto converts a portfolio dump into snapshot transactions dated
// asOf: one credit per holding, valued in USD, with the category pinned to
// CategoryCrypto so the snapshots bypass rule scoring downstream.
func ParseCrypto(text string, asOf time.Time) ([]model.Transaction, []model.Warning, error) {
	holdings, warnings := ParseHoldings(text)
	if len(holdings) == 0 && len(warnings) == 0 {
		return nil, nil, fmt.Errorf("no holdings found")
	}

	var txs []model.Transaction
	for _, h := range holdings {
		if h.Value.IsZero() {
			continue
		}
		txs = append(txs, model.Transaction{
			Date:        asOf,
			Amount:      h.Value,
			Currency:    "USD",
			Direction:   model.Credit,
			Description: fmt.Sprintf("%s (%s) holding", h.Symbol, h.Network),
			Category:    model.CategoryCrypto,
			Subcategory: "Holdings",
			Confidence:  1,
			Reference:   h.Symbol,
			Source:      model.SourceCrypto,
		})
	}
	return txs, warnings, nil
}

// mustDecimal parses an amount already vetted by a regexp capture.
func mustDecimal(s string) decimal.Decimal {
	d, err := normalize.ParseAmount(s, "")
	if err != nil {
		return decimal.Zero
	}
	return d
}
