package format

import (
	"errors"
	"strings"

	"github.com/statemint-dev/statemint/internal/normalize"
)

// ErrUnknownFormat means no registered layout matches the header and the
// header lacks the three universal concepts needed for the generic fallback.
// This is a hard stop for the input that produced it.
var ErrUnknownFormat = errors.New("unknown statement format")

// synonyms maps normalized header cell text to a semantic field.
var synonyms = map[string]Field{
	"date":             FieldDate,
	"txn date":         FieldDate,
	"transaction date": FieldDate,
	"posting date":     FieldDate,
	"tran date":        FieldDate,

	"value date": FieldValueDate,
	"value dt":   FieldValueDate,

	"description":         FieldDescription,
	"narration":           FieldDescription,
	"particulars":         FieldDescription,
	"transaction remarks": FieldDescription,
	"remarks":             FieldDescription,
	"transaction details": FieldDescription,

	"amount":             FieldAmount,
	"value":              FieldAmount,
	"transaction amount": FieldAmount,
	"amount (inr)":       FieldAmount,

	"debit":            FieldDebit,
	"debit amount":     FieldDebit,
	"withdrawal":       FieldDebit,
	"withdrawal amt":   FieldDebit,
	"withdrawal amount": FieldDebit,
	"paid out":         FieldDebit,
	"money out":        FieldDebit,

	"credit":         FieldCredit,
	"credit amount":  FieldCredit,
	"deposit":        FieldCredit,
	"deposit amt":    FieldCredit,
	"deposit amount": FieldCredit,
	"paid in":        FieldCredit,
	"money in":       FieldCredit,

	"balance":         FieldBalance,
	"closing balance": FieldBalance,
	"running balance": FieldBalance,
	"balance amt":     FieldBalance,

	"reference":       FieldReference,
	"ref no":          FieldReference,
	"ref":             FieldReference,
	"cheque no":       FieldReference,
	"chq no":          FieldReference,
	"chq/ref no":      FieldReference,
	"chq/refno":       FieldReference,
	"cheque number":   FieldReference,
	"transaction id":  FieldReference,
	"check or slip #": FieldReference,

	"type":     FieldType,
	"dr/cr":    FieldType,
	"cr/dr":    FieldType,
	"details":  FieldType, // Chase exports: DEBIT/CREDIT indicator column
	"txn type": FieldType,
}

// normalizeHeaderCell lowercases, collapses whitespace and strips the
// punctuation banks sprinkle over header names ("Chq./Ref.No." etc).
func normalizeHeaderCell(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, `"'`)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// headerFields maps each semantic field found in the header to its column
// position. First occurrence wins.
func headerFields(header []string) map[Field]int {
	out := make(map[Field]int)
	for i, cell := range header {
		if f, ok := synonyms[normalizeHeaderCell(cell)]; ok {
			if _, seen := out[f]; !seen {
				out[f] = i
			}
		}
	}
	return out
}

// LooksLikeHeader reports whether a record reads as column names rather than
// data: at least two cells resolve to known semantic fields.
func LooksLikeHeader(record []string) bool {
	return len(headerFields(record)) >= 2
}

// Detect picks the best-matching descriptor for a header row. A registered
// layout matches when every semantic column it declares is present in the
// header; the most specific match (longest column list) wins, earlier
// registration breaking ties. When nothing matches but the header carries
// date, description and an amount concept, a generic descriptor is built
// from the header positions using fallbackOrder for its dates.
func Detect(header []string, reg *Registry, fallbackOrder normalize.DateOrder) (Descriptor, error) {
	found := headerFields(header)

	best := -1
	bestCols := 0
	for i, d := range reg.descriptors {
		match := true
		for f := range d.Columns {
			if _, ok := found[f]; !ok {
				match = false
				break
			}
		}
		if match && len(d.Columns) > bestCols {
			best = i
			bestCols = len(d.Columns)
		}
	}
	if best >= 0 {
		return reg.descriptors[best], nil
	}

	// Generic fallback: the three universal concepts must be present, with
	// either a single amount column or a debit/credit pair.
	_, hasDate := found[FieldDate]
	_, hasDesc := found[FieldDescription]
	_, hasAmount := found[FieldAmount]
	_, hasDebit := found[FieldDebit]
	_, hasCredit := found[FieldCredit]

	if hasDate && hasDesc && (hasAmount || (hasDebit && hasCredit)) {
		cols := make(map[Field]int, len(found))
		for f, idx := range found {
			cols[f] = idx
		}
		return Descriptor{
			Name:      "generic",
			DateOrder: fallbackOrder,
			Columns:   cols,
		}, nil
	}

	return Descriptor{}, ErrUnknownFormat
}
