package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statemint-dev/statemint/internal/model"
)

func sampleTx(fp string, source model.SourceKind) model.Transaction {
	return model.Transaction{
		Date:        time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(250),
		Currency:    "INR",
		Direction:   model.Debit,
		Description: "Payment to Zepto Online",
		Source:      source,
		Fingerprint: fp,
	}
}

func TestMemory_InsertAndFetch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.InsertBatch(ctx, "alice", []model.Transaction{
		sampleTx("fp1", model.SourceBank),
		sampleTx("fp2", model.SourceManual),
	})
	require.NoError(t, err)

	fps, err := m.Fingerprints(ctx, "alice", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fp1", "fp2"}, fps)
}

func TestMemory_FingerprintsFilteredBySource(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.InsertBatch(ctx, "alice", []model.Transaction{
		sampleTx("fp1", model.SourceBank),
		sampleTx("fp2", model.SourceManual),
	}))

	fps, err := m.Fingerprints(ctx, "alice", []model.SourceKind{model.SourceBank})
	require.NoError(t, err)
	assert.Equal(t, []string{"fp1"}, fps)
}

func TestMemory_OwnerIsolation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.InsertBatch(ctx, "alice", []model.Transaction{sampleTx("fp1", model.SourceBank)}))

	fps, err := m.Fingerprints(ctx, "bob", nil)
	require.NoError(t, err)
	assert.Empty(t, fps)
}

func TestMemory_EmptyOwnerRejected(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	assert.ErrorIs(t, m.InsertBatch(ctx, "", nil), ErrEmptyOwner)
	_, err := m.Fingerprints(ctx, "", nil)
	assert.ErrorIs(t, err, ErrEmptyOwner)
}

func TestMemory_FailInsert(t *testing.T) {
	m := NewMemory()
	m.FailInsert = assert.AnError

	err := m.InsertBatch(context.Background(), "alice", []model.Transaction{sampleTx("fp1", model.SourceBank)})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, m.All("alice"))
}
