// Package tokenize splits raw statement text into logical CSV records,
// tolerating the malformed exports real banks produce: quoted fields that
// spill across physical lines, doubled quotes, and trailer junk after the
// last transaction. encoding/csv is deliberately not used here; it aborts on
// exactly the inputs this package has to survive.
package tokenize

import "strings"

// Record is one logical row. Line is the 1-based physical line the record
// started on.
type Record struct {
	Fields []string
	Line   int
}

// Tokenizer assembles logical records from physical lines.
type Tokenizer struct {
	sep      rune
	trailers []string
}

// defaultTrailers end tokenization when seen at the start of a line
// (case-insensitive). Banks append these after the transaction table.
var defaultTrailers = []string{
	"end of statement",
	"closing balance",
	"statement summary",
	"*** end",
	"computer generated",
}

// New returns a comma-separated Tokenizer with the default trailer set.
func New() *Tokenizer {
	return &Tokenizer{sep: ',', trailers: defaultTrailers}
}

// NewWithSeparator returns a Tokenizer for a non-comma separator.
func NewWithSeparator(sep rune) *Tokenizer {
	return &Tokenizer{sep: sep, trailers: defaultTrailers}
}

// Next returns the next logical record starting at lines[start] and the index
// of the first unconsumed line. ok is false when input is exhausted or a
// trailer line was reached.
//
// A record is complete once its accumulated text holds an even number of
// quote characters and at least one separator. While the quote count is odd,
// following physical lines are folded in with a single space: a wrapped bank
// narration reads as one field, not several.
//
// A quote-balanced line with no separator is skipped rather than folded into
// a neighbor: it is preamble or trailer prose ("Account Statement"), and
// folding it would glue unrelated text onto a real record.
func (t *Tokenizer) Next(lines []string, start int) (rec Record, next int, ok bool) {
	i := start
	for i < len(lines) {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			return Record{}, i, false
		}
		if t.isTrailer(line) {
			return Record{}, i, false
		}

		buf := line
		first := i
		i++
		for strings.Count(buf, `"`)%2 == 1 && i < len(lines) {
			buf += " " + strings.TrimSpace(strings.TrimRight(lines[i], "\r"))
			i++
		}

		if !strings.ContainsRune(buf, t.sep) {
			// No separator at all: not a record, keep scanning.
			continue
		}
		return Record{Fields: t.splitFields(buf), Line: first + 1}, i, true
	}
	return Record{}, i, false
}

// Records tokenizes an entire text.
func (t *Tokenizer) Records(text string) []Record {
	lines := strings.Split(text, "\n")
	var recs []Record
	i := 0
	for {
		rec, next, ok := t.Next(lines, i)
		if !ok {
			// A blank or trailer line ends this block; skip past blank
			// lines so a later block can still be reached, but a trailer
			// is terminal.
			if next < len(lines) && strings.TrimSpace(strings.TrimRight(lines[next], "\r")) == "" {
				i = next + 1
				if i >= len(lines) {
					return recs
				}
				continue
			}
			return recs
		}
		recs = append(recs, rec)
		i = next
	}
}

func (t *Tokenizer) isTrailer(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, tr := range t.trailers {
		if strings.HasPrefix(lower, tr) {
			return true
		}
	}
	return false
}

// unwrapRow undoes whole-row quoting, where an exporter wrapped the entire
// line in quotes and doubled every interior quote. Only unwraps when every
// interior quote is doubled; otherwise the outer quotes belong to ordinary
// first and last fields.
func unwrapRow(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	inner := s[1 : len(s)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] == '"' {
			if i+1 >= len(inner) || inner[i+1] != '"' {
				return s
			}
			i++
		}
	}
	return strings.ReplaceAll(inner, `""`, `"`)
}

// splitFields splits on the separator outside quotes, unescapes doubled
// quotes and trims each field.
func (t *Tokenizer) splitFields(s string) []string {
	s = unwrapRow(s)
	var fields []string
	var cur strings.Builder
	inQuote := false

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuote && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuote = !inQuote
		case r == t.sep && !inQuote:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}
