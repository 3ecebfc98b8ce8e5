package auditlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statemint-dev/statemint/internal/model"
)

var testTime = time.Date(2025, 4, 20, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:  testTime,
		RunID:      "3f6c1f0e-1b2a-4c3d-9e8f-abcdef012345",
		Sources:    "bank crypto",
		Processed:  12,
		Imported:   9,
		Transfers:  1,
		Duplicates: 1,
		Skipped:    1,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	err := Append(dir, []Entry{testEntry()})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 9, entries[0].Imported)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.RunID = "second-run"
	e2.Imported = 0
	e2.Duplicates = 9
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 9, entries[0].Imported)
	assert.Equal(t, "second-run", entries[1].RunID)
	assert.Equal(t, 9, entries[1].Duplicates)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.RunID, got.RunID)
	assert.Equal(t, original.Sources, got.Sources)
	assert.Equal(t, original.Processed, got.Processed)
	assert.Equal(t, original.Imported, got.Imported)
	assert.Equal(t, original.Transfers, got.Transfers)
	assert.Equal(t, original.Duplicates, got.Duplicates)
	assert.Equal(t, original.Skipped, got.Skipped)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "import-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestFromSummary(t *testing.T) {
	s := &model.Summary{
		RunID:      "run-1",
		Processed:  6,
		Imported:   4,
		Transfers:  1,
		Duplicates: 0,
		Skipped:    1,
	}
	e := FromSummary(s, testTime)
	assert.Equal(t, "run-1", e.RunID)
	assert.Equal(t, 6, e.Processed)
	assert.Equal(t, 4, e.Imported)
	assert.True(t, testTime.Equal(e.Timestamp))
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected 8 fields")
}

func TestUnmarshalEntry_BadCount(t *testing.T) {
	row := MarshalEntry(testEntry())
	row[colImported] = "many"
	_, err := UnmarshalEntry(row)
	assert.Error(t, err)
}

func TestTimestampFormat(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2025-04-20T10:30:00Z", row[0])
}
