package ports

import (
	"context"

	"eegitpc/domain/eeg"
	"eegitpc/domain/run"
)

// Source describes where the raw trial table lives
type Source struct {
	Path  string
	Sheet string // xlsx only; empty means the first sheet
}

// TableReader loads the raw trial table. Implementations release every
// file handle before returning, on success and failure alike.
type TableReader interface {
	ReadTable(ctx context.Context, src Source) (*eeg.RawTable, error)
}

// ResultsWriter persists the results table and its run manifest
type ResultsWriter interface {
	WriteResults(ctx context.Context, path string, rows []eeg.ResultRow) error
	WriteManifest(ctx context.Context, path string, manifest *run.Manifest) error
}

// ResultsReader loads a previously written results table
type ResultsReader interface {
	ReadResults(ctx context.Context, path string) ([]eeg.ResultRow, error)
}

// Logger is the leveled logging surface components depend on
type Logger interface {
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}
