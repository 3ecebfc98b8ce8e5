package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statemint-dev/statemint/internal/model"
)

func TestParseManual_ExpenseLog(t *testing.T) {
	text := strings.Join([]string{
		"July expenses",
		"23/07 - auto to office - 45",
		"24/07 - groceries dmart - ₹1,250.50 total",
		"25/07 - netflix - Rs. 649/-",
		"",
		"remember to check the gym bill",
	}, "\n")

	txs, warnings, err := ParseManual(text, ManualOptions{ReferenceYear: 2025, Currency: "INR"})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Empty(t, warnings)

	first := txs[0]
	assert.Equal(t, time.Date(2025, 7, 23, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "auto to office", first.Description)
	assert.Equal(t, "45", first.Amount.String())
	assert.Equal(t, model.Debit, first.Direction)
	assert.Equal(t, "INR", first.Currency)
	assert.Equal(t, 2, first.SourceLine)

	assert.Equal(t, "1250.50", txs[1].Amount.StringFixed(2))
	assert.Equal(t, "649.00", txs[2].Amount.StringFixed(2))
}

func TestParseManual_UnparseableEntryWarns(t *testing.T) {
	text := "23/07 - lunch with no amount\n24/07 - chai - 20\n"

	txs, warnings, err := ParseManual(text, ManualOptions{ReferenceYear: 2025, Currency: "INR"})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Line)
	assert.Contains(t, warnings[0].Message, "unparseable entry")
}

func TestParseManual_BadDayMonthWarns(t *testing.T) {
	txs, warnings, err := ParseManual("31/02 - impossible - 10\n", ManualOptions{ReferenceYear: 2025})
	require.NoError(t, err)
	assert.Empty(t, txs)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "bad date")
}

func TestParseManual_RequiresReferenceYear(t *testing.T) {
	_, _, err := ParseManual("23/07 - chai - 20\n", ManualOptions{})
	assert.Error(t, err)
}

func TestParseManual_EmptyInput(t *testing.T) {
	_, _, err := ParseManual("  \n ", ManualOptions{ReferenceYear: 2025})
	assert.Error(t, err)
}
