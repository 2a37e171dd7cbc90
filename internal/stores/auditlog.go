package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/vaultflow/internal/core/audit"
)

// dailyFileSuffix is appended to the calendar date to form a log filename,
// e.g. "2026-08-30_actions.json".
const dailyFileSuffix = "_actions.json"

// AuditLog implements audit.Log with one JSON array file per calendar day.
// Appends rewrite the whole day's file, so the read-append-write cycle is
// guarded by a mutex. That serializes writers within this process only;
// cross-process writers are out of scope for the single-process model.
type AuditLog struct {
	dir    string
	clock  func() time.Time
	logger zerolog.Logger

	mu sync.Mutex
}

var _ audit.Log = (*AuditLog)(nil)

// NewAuditLog creates a log writing daily files under dir.
func NewAuditLog(dir string, logger zerolog.Logger) *AuditLog {
	return &AuditLog{
		dir:    dir,
		clock:  time.Now,
		logger: logger.With().Str("component", "auditlog").Logger(),
	}
}

// WithClock overrides the wall clock used to pick the daily file. Tests use
// this to pin the calendar date.
func (l *AuditLog) WithClock(clock func() time.Time) *AuditLog {
	l.clock = clock
	return l
}

// Append adds rec to today's log file. A missing, unparseable, or
// wrong-shaped existing file starts the day from an empty sequence rather
// than failing; corruption must not block transitions.
func (l *AuditLog) Append(ctx context.Context, rec audit.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create logs dir %s: %w", l.dir, err)
	}

	path := filepath.Join(l.dir, l.clock().Format("2006-01-02")+dailyFileSuffix)

	records := l.loadDay(path)
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write log file %s: %w", path, err)
	}
	return nil
}

// loadDay reads the existing records for one daily file. Any failure is
// treated as an empty day.
func (l *AuditLog) loadDay(path string) []audit.Record {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn().Err(err).Str("file", path).Msg("unreadable daily log, starting fresh")
		}
		return nil
	}

	var records []audit.Record
	if err := json.Unmarshal(data, &records); err != nil {
		l.logger.Warn().Str("file", path).Msg("malformed daily log, starting fresh")
		return nil
	}
	return records
}

// Recent returns up to limit records across all daily files, newest first.
// A file may hold either a JSON array or a single object; both are
// tolerated, and files that parse as neither are skipped.
func (l *AuditLog) Recent(ctx context.Context, limit int) ([]audit.Record, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read logs dir %s: %w", l.dir, err)
	}

	var records []audit.Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Debug().Err(err).Str("file", path).Msg("skipping unreadable log file")
			continue
		}

		var day []audit.Record
		if err := json.Unmarshal(data, &day); err == nil {
			records = append(records, day...)
			continue
		}
		var single audit.Record
		if err := json.Unmarshal(data, &single); err == nil {
			records = append(records, single)
			continue
		}
		l.logger.Debug().Str("file", path).Msg("skipping malformed log file")
	}

	// Stable sort: order among equal timestamps follows scan order and is
	// not part of the contract.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})

	if limit >= 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
