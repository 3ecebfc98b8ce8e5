package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says whether a transaction decreases or increases the account.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// SourceKind identifies which kind of export a transaction came from.
type SourceKind string

const (
	SourceBank   SourceKind = "bank"
	SourceCrypto SourceKind = "crypto"
	SourceManual SourceKind = "manual"
)

// Transaction is one fully normalized financial record. Amount is always
// non-negative; Direction alone encodes sign. A Transaction that reaches the
// store has a valid date, a resolved direction and a confidence in [0,1].
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal
	Currency    string // ISO code, e.g. "INR"
	Direction   Direction
	Description string
	Merchant    string // empty if no merchant was recognized
	Category    string
	Subcategory string
	Confidence  float64
	Balance     decimal.Decimal // zero if the source had no balance column
	Reference   string
	Source      SourceKind
	SourceLine  int
	Fingerprint string // set by the deduplicator before persistence

	// AmountBase is Amount converted into the base currency, when an
	// exchange-rate source was available. Zero otherwise.
	AmountBase   decimal.Decimal
	BaseCurrency string
}

// IsTransfer reports whether the transaction was flagged as an internal
// transfer. Transfers keep their classification but are excluded from
// expense totals.
func (t Transaction) IsTransfer() bool { return t.Category == CategoryTransfer }

// CategoryCrypto is pinned on crypto snapshot records at parse time; the
// source kind already identifies them, so they never go through rule scoring.
const CategoryCrypto = "Crypto"

// CategoryTransfer marks internal movements between a user's own accounts.
const CategoryTransfer = "Transfer"

// CryptoHolding is one position from a crypto portfolio dump.
type CryptoHolding struct {
	Symbol    string
	Network   string
	Price     decimal.Decimal
	ChangePct decimal.Decimal
	Quantity  decimal.Decimal
	Value     decimal.Decimal
}
