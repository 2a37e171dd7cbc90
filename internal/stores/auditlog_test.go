package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/vaultflow/internal/core/audit"
)

func newTestLog(t *testing.T) (*AuditLog, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Logs")
	return NewAuditLog(dir, zerolog.Nop()), dir
}

func record(ts time.Time, action, filename string) audit.Record {
	return audit.NewRecord(ts, action, filename, "/vault/Needs_Action", "/vault/Approved", "")
}

func TestAppendIsCumulative(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := record(base.Add(time.Duration(i)*time.Minute), "approve", fmt.Sprintf("f%d.md", i))
		require.NoError(t, log.Append(ctx, rec))
	}

	records, err := log.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, records, 5)

	// Newest first.
	assert.Equal(t, "f4.md", records[0].Filename)
	assert.Equal(t, "f0.md", records[4].Filename)
	for _, rec := range records {
		assert.Equal(t, "approve", rec.Action)
		assert.Equal(t, audit.DefaultActor, rec.User)
	}
}

func TestAppendUsesDailyFile(t *testing.T) {
	log, dir := newTestLog(t)
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	log.WithClock(func() time.Time { return day })

	require.NoError(t, log.Append(context.Background(), record(day, "approve", "a.md")))

	data, err := os.ReadFile(filepath.Join(dir, "2026-08-30_actions.json"))
	require.NoError(t, err)

	var recs []audit.Record
	require.NoError(t, json.Unmarshal(data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "a.md", recs[0].Filename)
}

func TestAppendToleratesMalformedFile(t *testing.T) {
	log, dir := newTestLog(t)
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	log.WithClock(func() time.Time { return day })

	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "2026-08-30_actions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	require.NoError(t, log.Append(context.Background(), record(day, "reject", "b.md")))

	// Corruption does not propagate: the file becomes a one-element array.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var recs []audit.Record
	require.NoError(t, json.Unmarshal(data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "b.md", recs[0].Filename)
}

func TestAppendToleratesNonArrayFile(t *testing.T) {
	log, dir := newTestLog(t)
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	log.WithClock(func() time.Time { return day })

	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "2026-08-30_actions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timestamp":"t"}`), 0o644))

	require.NoError(t, log.Append(context.Background(), record(day, "approve", "c.md")))

	var recs []audit.Record
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &recs))
	require.Len(t, recs, 1)
}

func TestRecentMergesAcrossDays(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	log.WithClock(func() time.Time { return day1 })
	require.NoError(t, log.Append(ctx, record(day1, "approve", "old.md")))

	log.WithClock(func() time.Time { return day2 })
	require.NoError(t, log.Append(ctx, record(day2, "reject", "new.md")))

	records, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new.md", records[0].Filename)
	assert.Equal(t, "old.md", records[1].Filename)
}

func TestRecentHonorsLimit(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, log.Append(ctx, record(base.Add(time.Duration(i)*time.Second), "approve", fmt.Sprintf("f%d.md", i))))
	}

	records, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "f3.md", records[0].Filename)
	assert.Equal(t, "f2.md", records[1].Filename)
}

func TestRecentToleratesSingleObjectFile(t *testing.T) {
	log, dir := newTestLog(t)

	require.NoError(t, os.MkdirAll(dir, 0o755))
	single := record(time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC), "approve", "solo.md")
	data, err := json.Marshal(single)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-08-28_actions.json"), data, 0o644))

	records, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "solo.md", records[0].Filename)
}

func TestRecentMissingDirIsEmpty(t *testing.T) {
	log, _ := newTestLog(t)

	records, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
