package model

import "time"

// Warning is one non-fatal problem encountered during an import run.
type Warning struct {
	Source  SourceKind
	Line    int // 1-based physical line, 0 if not line-scoped
	Message string
}

// SourceError records a source that had to be abandoned entirely
// (unrecognized format, empty input). Other sources continue.
type SourceError struct {
	Source  SourceKind
	Message string
}

// Summary is the structured result of one orchestration run.
type Summary struct {
	RunID      string
	Processed  int // logical records seen across all sources
	Imported   int // handed to the store
	Transfers  int // flagged as internal transfers
	Duplicates int
	Skipped    int // malformed rows dropped with a warning

	MinDate time.Time // zero if nothing was imported
	MaxDate time.Time

	Warnings     []Warning
	SourceErrors []SourceError
}

// ObserveDate widens the summary's date range to include d.
func (s *Summary) ObserveDate(d time.Time) {
	if s.MinDate.IsZero() || d.Before(s.MinDate) {
		s.MinDate = d
	}
	if s.MaxDate.IsZero() || d.After(s.MaxDate) {
		s.MaxDate = d
	}
}

// Warn appends a row-level warning.
func (s *Summary) Warn(source SourceKind, line int, msg string) {
	s.Warnings = append(s.Warnings, Warning{Source: source, Line: line, Message: msg})
}
