package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statemint-dev/statemint/internal/auditlog"
)

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runCommand(t, "init", dir, "--owner", "asha")
	require.NoError(t, err)
	return dir
}

func bankFixture(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs("../../testdata/icici_statement.csv")
	require.NoError(t, err)
	return path
}

func TestImport_BankStatement(t *testing.T) {
	dir := initProject(t)

	out, err := runCommand(t, "import", "--dir", dir, "--bank", bankFixture(t))
	require.NoError(t, err)

	// The 85000 salary credit trips the default large-transfer threshold, so
	// two rows are gated as transfers.
	assert.Contains(t, out, "imported:   3")
	assert.Contains(t, out, "transfers:  2")
	assert.Contains(t, out, "skipped:    1")
	assert.Contains(t, out, "range:      2025-04-15 to 2025-04-19")
	assert.Contains(t, out, "bad date")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Imported)
	assert.Equal(t, "bank", entries[0].Sources)
	assert.NotEmpty(t, entries[0].RunID)
}

func TestImport_DryRunSkipsAuditLog(t *testing.T) {
	dir := initProject(t)

	_, err := runCommand(t, "import", "--dir", dir, "--bank", bankFixture(t), "--dry-run")
	require.NoError(t, err)

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImport_NoInputs(t *testing.T) {
	dir := initProject(t)
	_, err := runCommand(t, "import", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to import")
}

func TestImport_MissingProject(t *testing.T) {
	_, err := runCommand(t, "import", "--dir", t.TempDir(), "--bank", bankFixture(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading project")
}

func TestImport_ManualRefYearFlag(t *testing.T) {
	dir := initProject(t)
	manual := filepath.Join(dir, "expenses.txt")
	require.NoError(t, os.WriteFile(manual, []byte("23/07 - chai - 20\n"), 0o644))

	out, err := runCommand(t, "import", "--dir", dir, "--manual", manual, "--ref-year", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "imported:   1")
	assert.Contains(t, out, "range:      2025-07-23 to 2025-07-23")
}

func TestImport_ManualWithoutRefYearIsSourceError(t *testing.T) {
	dir := initProject(t)
	manual := filepath.Join(dir, "expenses.txt")
	require.NoError(t, os.WriteFile(manual, []byte("23/07 - chai - 20\n"), 0o644))

	// The default config carries no reference year, so the manual source is
	// abandoned with a source error rather than guessing the current year.
	out, err := runCommand(t, "import", "--dir", dir, "--manual", manual)
	require.NoError(t, err)
	assert.Contains(t, out, "source error: manual")
	assert.Contains(t, out, "imported:   0")
}

func TestImport_FormatDropIn(t *testing.T) {
	dir := initProject(t)

	dropIn := `formats:
  - name: toybank
    region: XX
    date_order: day-first
    currency: EUR
    columns:
      date: 0
      description: 1
      amount: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formats", "toybank.yaml"), []byte(dropIn), 0o644))

	statement := filepath.Join(dir, "toy.csv")
	require.NoError(t, os.WriteFile(statement, []byte("01/05/2025,BAKERY,-3.20\n"), 0o644))

	out, err := runCommand(t, "import", "--dir", dir, "--bank", statement, "--format", "toybank")
	require.NoError(t, err)
	assert.Contains(t, out, "imported:   1")
}

func TestFormats_ListsBuiltins(t *testing.T) {
	dir := initProject(t)
	out, err := runCommand(t, "formats", "--dir", dir)
	require.NoError(t, err)

	for _, name := range []string{"icici-in", "hdfc-in", "chase-us", "monzo-uk"} {
		assert.Contains(t, out, name)
	}
}
