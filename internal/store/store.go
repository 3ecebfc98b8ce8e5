// Package store is the persistence collaborator boundary. The pipeline only
// needs two operations: batch-insert normalized transactions and fetch the
// fingerprints of what an owner already has, to seed deduplication.
package store

import (
	"context"
	"errors"

	"github.com/statemint-dev/statemint/internal/model"
)

// ErrEmptyOwner rejects operations without an owner identity; per-user
// isolation is the store's one hard rule.
var ErrEmptyOwner = errors.New("owner must not be empty")

// Store is implemented by the persistence collaborator.
type Store interface {
	// InsertBatch persists a batch of transactions for an owner. The batch
	// either fully lands or fails as a unit; the orchestrator retries or
	// surfaces the failure per source.
	InsertBatch(ctx context.Context, owner string, txs []model.Transaction) error

	// Fingerprints returns the dedup fingerprints of the owner's existing
	// records, optionally filtered by source tags. Empty tags mean all.
	Fingerprints(ctx context.Context, owner string, sources []model.SourceKind) ([]string, error)
}
