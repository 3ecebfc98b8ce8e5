package store

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statemint-dev/statemint/internal/model"
)

func TestPostgres_InsertBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO transactions")
	prep.ExpectExec().
		WithArgs("alice", "fp1", sqlmock.AnyArg(), "250", "INR", "debit",
			"Payment to Zepto Online", "Zepto", "Food & Grocery", "Groceries",
			0.54, "", "bank").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := NewPostgres(db)
	err = p.InsertBatch(context.Background(), "alice", []model.Transaction{{
		Date:        time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(250),
		Currency:    "INR",
		Direction:   model.Debit,
		Description: "Payment to Zepto Online",
		Merchant:    "Zepto",
		Category:    "Food & Grocery",
		Subcategory: "Groceries",
		Confidence:  0.54,
		Source:      model.SourceBank,
		Fingerprint: "fp1",
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_InsertBatch_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO transactions")
	prep.ExpectExec().WillReturnError(assert.AnError)
	mock.ExpectRollback()

	p := NewPostgres(db)
	err = p.InsertBatch(context.Background(), "alice", []model.Transaction{{
		Fingerprint: "fp1", Amount: decimal.NewFromInt(1),
	}})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_InsertBatch_EmptyBatchNoQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := NewPostgres(db)
	require.NoError(t, p.InsertBatch(context.Background(), "alice", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Fingerprints(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"fingerprint"}).AddRow("fp1").AddRow("fp2")
	mock.ExpectQuery("SELECT fingerprint FROM transactions").
		WithArgs("alice").
		WillReturnRows(rows)

	p := NewPostgres(db)
	fps, err := p.Fingerprints(context.Background(), "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"fp1", "fp2"}, fps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Fingerprints_SourceFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"fingerprint"}).AddRow("fp1")
	mock.ExpectQuery("SELECT fingerprint FROM transactions").
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnRows(rows)

	p := NewPostgres(db)
	fps, err := p.Fingerprints(context.Background(), "alice", []model.SourceKind{model.SourceBank})
	require.NoError(t, err)
	assert.Equal(t, []string{"fp1"}, fps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_EmptyOwnerRejected(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := NewPostgres(db)
	assert.ErrorIs(t, p.InsertBatch(context.Background(), "", nil), ErrEmptyOwner)
	_, err = p.Fingerprints(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrEmptyOwner)
}
