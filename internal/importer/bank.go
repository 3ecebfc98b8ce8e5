// Package importer runs the ingestion pipeline: tokenize, detect format,
// normalize, gate through transfer/dedup filters, classify, persist.
package importer

import (
	"fmt"
	"strings"

	"github.com/statemint-dev/statemint/internal/format"
	"github.com/statemint-dev/statemint/internal/model"
	"github.com/statemint-dev/statemint/internal/normalize"
	"github.com/statemint-dev/statemint/internal/tokenize"
)

// BankOptions configures bank statement parsing.
type BankOptions struct {
	Formats *format.Registry
	// ForceFormat skips detection and uses the named layout.
	ForceFormat string
	// FallbackOrder is the date ordering assumed by the generic descriptor
	// when no registered layout matches. Never guessed per row.
	FallbackOrder normalize.DateOrder
	// DefaultCurrency applies when the layout does not pin one.
	DefaultCurrency string
}

// ParseBank converts raw bank CSV text into candidate transactions.
// Row-level problems become warnings; the returned error is source-level
// (unknown format, empty input) and abandons this source only.
func ParseBank(text string, opts BankOptions) ([]model.Transaction, []model.Warning, error) {
	tok := tokenize.New()
	records := tok.Records(text)
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty input")
	}

	var desc format.Descriptor
	body := records
	if opts.ForceFormat != "" {
		d, ok := opts.Formats.Get(opts.ForceFormat)
		if !ok {
			return nil, nil, fmt.Errorf("%w: no format named %q", format.ErrUnknownFormat, opts.ForceFormat)
		}
		desc = d
		// A forced format may still have a header row on top.
		if format.LooksLikeHeader(records[0].Fields) {
			body = records[1:]
		}
	} else {
		if !format.LooksLikeHeader(records[0].Fields) {
			return nil, nil, fmt.Errorf("%w: first record is not a recognizable header", format.ErrUnknownFormat)
		}
		d, err := format.Detect(records[0].Fields, opts.Formats, opts.FallbackOrder)
		if err != nil {
			return nil, nil, err
		}
		desc = d
		body = records[1:]
	}

	currency := desc.Currency
	if currency == "" {
		currency = opts.DefaultCurrency
	}

	var txs []model.Transaction
	var warnings []model.Warning

	warn := func(line int, msg string) {
		warnings = append(warnings, model.Warning{Source: model.SourceBank, Line: line, Message: msg})
	}

	for _, rec := range body {
		if len(rec.Fields) < desc.MinFields() {
			warn(rec.Line, fmt.Sprintf("expected at least %d fields, got %d", desc.MinFields(), len(rec.Fields)))
			continue
		}

		dateStr := rec.Fields[desc.Col(format.FieldDate)]
		date, err := normalize.ParseDate(dateStr, desc.DateOrder)
		if err != nil {
			warn(rec.Line, fmt.Sprintf("bad date %q", dateStr))
			continue
		}

		amountField := fieldAt(rec.Fields, desc.Col(format.FieldAmount))
		debitField := fieldAt(rec.Fields, desc.Col(format.FieldDebit))
		creditField := fieldAt(rec.Fields, desc.Col(format.FieldCredit))

		amount, direction, ok, err := normalize.ResolveAmount(amountField, debitField, creditField, desc.Symbol)
		if err != nil {
			warn(rec.Line, fmt.Sprintf("bad amount: %v", err))
			continue
		}
		if !ok {
			// Zero-amount informational row: dropped, no warning.
			continue
		}

		// An explicit DR/CR indicator column outranks the sign.
		if d, found := typeDirection(fieldAt(rec.Fields, desc.Col(format.FieldType))); found {
			direction = d
		}

		tx := model.Transaction{
			Date:        date,
			Amount:      amount,
			Currency:    currency,
			Direction:   direction,
			Description: rec.Fields[desc.Col(format.FieldDescription)],
			Reference:   fieldAt(rec.Fields, desc.Col(format.FieldReference)),
			Source:      model.SourceBank,
			SourceLine:  rec.Line,
		}

		if balStr := fieldAt(rec.Fields, desc.Col(format.FieldBalance)); balStr != "" {
			if bal, err := normalize.ParseAmount(balStr, desc.Symbol); err == nil {
				tx.Balance = bal
			}
		}

		txs = append(txs, tx)
	}

	return txs, warnings, nil
}

// fieldAt returns fields[idx] or "" when the layout lacks the column.
func fieldAt(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

// typeDirection maps DR/CR indicator values to a direction.
func typeDirection(v string) (model.Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "DR", "DEBIT", "D", "ACH_DEBIT", "DEBIT_CARD":
		return model.Debit, true
	case "CR", "CREDIT", "C", "ACH_CREDIT":
		return model.Credit, true
	}
	return "", false
}
