// Package rates defines the exchange-rate collaborator boundary. Retrieval
// itself lives outside this core; callers plug in whatever source they have.
package rates

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Source looks up the rate that converts one unit of `from` into `to` at a
// point in time.
type Source interface {
	Rate(from, to string, at time.Time) (decimal.Decimal, error)
}

// Static is an in-memory Source backed by a fixed (from, to) table. Rates
// are not dated; the same rate answers every timestamp. Reverse pairs are
// derived by inversion.
type Static struct {
	table map[string]decimal.Decimal
}

// NewStatic builds a Static source from "FROM/TO" keyed rates.
func NewStatic(table map[string]decimal.Decimal) *Static {
	norm := make(map[string]decimal.Decimal, len(table))
	for k, v := range table {
		norm[strings.ToUpper(k)] = v
	}
	return &Static{table: norm}
}

// Rate implements Source.
func (s *Static) Rate(from, to string, _ time.Time) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if r, ok := s.table[from+"/"+to]; ok {
		return r, nil
	}
	if r, ok := s.table[to+"/"+from]; ok && !r.IsZero() {
		return decimal.NewFromInt(1).Div(r), nil
	}
	return decimal.Zero, fmt.Errorf("no rate for %s/%s", from, to)
}

// Convert is a convenience wrapper: amount in `from` converted to `to`.
func Convert(src Source, amount decimal.Decimal, from, to string, at time.Time) (decimal.Decimal, error) {
	r, err := src.Rate(from, to, at)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(r), nil
}
