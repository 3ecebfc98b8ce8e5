// Package auditlog keeps an append-only CSV history of import runs so a user
// can answer "when did I last import and what did it do" without a database.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/statemint-dev/statemint/internal/model"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	Sources    string // space-separated source kinds, e.g. "bank manual"
	Processed  int
	Imported   int
	Transfers  int
	Duplicates int
	Skipped    int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,sources,processed,imported,transfers,duplicates,skipped"

const (
	numFields     = 8
	logDir        = "logs"
	logFile       = "logs/import-log.csv"
	colTimestamp  = 0
	colRunID      = 1
	colSources    = 2
	colProcessed  = 3
	colImported   = 4
	colTransfers  = 5
	colDuplicates = 6
	colSkipped    = 7
)

// FromSummary builds an Entry for a completed run.
func FromSummary(s *model.Summary, at time.Time) Entry {
	return Entry{
		Timestamp:  at,
		RunID:      s.RunID,
		Processed:  s.Processed,
		Imported:   s.Imported,
		Transfers:  s.Transfers,
		Duplicates: s.Duplicates,
		Skipped:    s.Skipped,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSources] = e.Sources
	row[colProcessed] = strconv.Itoa(e.Processed)
	row[colImported] = strconv.Itoa(e.Imported)
	row[colTransfers] = strconv.Itoa(e.Transfers)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{Timestamp: ts, RunID: record[colRunID], Sources: record[colSources]}
	for _, c := range []struct {
		idx int
		dst *int
	}{
		{colProcessed, &e.Processed},
		{colImported, &e.Imported},
		{colTransfers, &e.Transfers},
		{colDuplicates, &e.Duplicates},
		{colSkipped, &e.Skipped},
	} {
		n, err := strconv.Atoi(record[c.idx])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[c.idx], err)
		}
		*c.dst = n
	}
	return e, nil
}

// Append writes entries to <root>/logs/import-log.csv, creating the file and
// header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
