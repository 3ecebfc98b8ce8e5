package store

import (
	"context"
	"sync"

	"github.com/statemint-dev/statemint/internal/model"
)

// Memory is an in-process Store used for tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	byOwner map[string][]model.Transaction

	// FailInsert, when set, makes every InsertBatch return this error. Lets
	// tests exercise the orchestrator's fatal path.
	FailInsert error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byOwner: make(map[string][]model.Transaction)}
}

// InsertBatch implements Store.
func (m *Memory) InsertBatch(_ context.Context, owner string, txs []model.Transaction) error {
	if owner == "" {
		return ErrEmptyOwner
	}
	if m.FailInsert != nil {
		return m.FailInsert
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byOwner[owner] = append(m.byOwner[owner], txs...)
	return nil
}

// Fingerprints implements Store.
func (m *Memory) Fingerprints(_ context.Context, owner string, sources []model.SourceKind) ([]string, error) {
	if owner == "" {
		return nil, ErrEmptyOwner
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[model.SourceKind]bool, len(sources))
	for _, s := range sources {
		want[s] = true
	}

	var out []string
	for _, tx := range m.byOwner[owner] {
		if len(want) > 0 && !want[tx.Source] {
			continue
		}
		if tx.Fingerprint != "" {
			out = append(out, tx.Fingerprint)
		}
	}
	return out, nil
}

// All returns every stored transaction for an owner, in insert order.
func (m *Memory) All(owner string) []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Transaction, len(m.byOwner[owner]))
	copy(out, m.byOwner[owner])
	return out
}
