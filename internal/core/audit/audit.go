// Package audit defines the transition record type and the append-only log
// contract. Records are grouped into one JSON file per calendar day; once
// written they are never edited.
package audit

import (
	"context"
	"time"
)

// DefaultActor is recorded when no actor identity is configured.
const DefaultActor = "local_user"

// Record is one immutable audit entry describing a completed transition.
// Source and destination are captured by value at transition time and are
// never updated if the item later moves again.
type Record struct {
	Timestamp            string `json:"timestamp"`
	Action               string `json:"action"`
	Filename             string `json:"filename"`
	SourceDirectory      string `json:"source_directory"`
	DestinationDirectory string `json:"destination_directory"`
	User                 string `json:"user"`
}

// NewRecord builds a record stamped with the given wall-clock time in
// RFC 3339 format. RFC 3339 timestamps from a single host sort
// lexicographically in chronological order, which Recent relies on.
func NewRecord(at time.Time, action, filename, sourceDir, destDir, user string) Record {
	if user == "" {
		user = DefaultActor
	}
	return Record{
		Timestamp:            at.Format(time.RFC3339),
		Action:               action,
		Filename:             filename,
		SourceDirectory:      sourceDir,
		DestinationDirectory: destDir,
		User:                 user,
	}
}

// Log persists transition records.
type Log interface {
	// Append adds the record to today's daily log file. Read-phase
	// failures on the existing file (missing, unparseable, wrong shape)
	// are absorbed by starting from an empty day; only a failed final
	// write returns an error.
	Append(ctx context.Context, rec Record) error

	// Recent returns up to limit records across all daily files, sorted
	// by timestamp descending. Ordering among equal timestamps is
	// unspecified.
	Recent(ctx context.Context, limit int) ([]Record, error)
}
