// Package dedupe suppresses re-import of transactions already seen, either
// in previous runs (seeded from the store) or earlier in the same batch.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/statemint-dev/statemint/internal/model"
)

// DefaultDescriptionPrefix is how many description characters participate in
// the fingerprint. Long narrations often carry per-import noise (session ids,
// timestamps) in the tail.
const DefaultDescriptionPrefix = 24

// Fingerprint derives the stable dedup key for a transaction: date, a
// truncated lowercased description, the absolute amount and the source tag.
// Two transactions with equal fingerprints are the same economic event no
// matter which import produced them.
func Fingerprint(tx model.Transaction, descPrefix int) string {
	if descPrefix <= 0 {
		descPrefix = DefaultDescriptionPrefix
	}
	desc := strings.ToLower(strings.TrimSpace(tx.Description))
	if len(desc) > descPrefix {
		desc = desc[:descPrefix]
	}
	h := sha256.New()
	h.Write([]byte(tx.Date.Format("2006-01-02")))
	h.Write([]byte{'|'})
	h.Write([]byte(desc))
	h.Write([]byte{'|'})
	h.Write([]byte(tx.Amount.Abs().StringFixed(2)))
	h.Write([]byte{'|'})
	h.Write([]byte(tx.Source))
	return hex.EncodeToString(h.Sum(nil))
}

// Set is a fingerprint set for one orchestration run. Insertion is
// serialized so sources may be processed in parallel.
type Set struct {
	mu         sync.Mutex
	seen       map[string]struct{}
	descPrefix int
}

// NewSet creates a Set seeded with previously persisted fingerprints.
func NewSet(seed []string, descPrefix int) *Set {
	s := &Set{
		seen:       make(map[string]struct{}, len(seed)),
		descPrefix: descPrefix,
	}
	for _, fp := range seed {
		s.seen[fp] = struct{}{}
	}
	return s
}

// Check computes the transaction's fingerprint and reports whether it was
// already seen. New fingerprints are recorded immediately, so within-batch
// duplicates are suppressed too.
func (s *Set) Check(tx model.Transaction) (fp string, duplicate bool) {
	fp = Fingerprint(tx, s.descPrefix)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[fp]; ok {
		return fp, true
	}
	s.seen[fp] = struct{}{}
	return fp, false
}

// Len returns the number of known fingerprints.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
