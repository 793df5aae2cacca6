package sqlite

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"prodtrack/internal/domain"
)

func syntheticRecords(n int) []domain.LogRecord {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.LogRecord, n)
	for i := range records {
		records[i] = domain.LogRecord{
			Timestamp:  domain.FormatTimestamp(start.Add(time.Duration(i) * 5 * time.Minute)),
			CharsAdded: i%97 + 1,
			FileName:   fmt.Sprintf("/work/pkg%d/file%d.go", i%13, i%41),
		}
	}
	return records
}

// BenchmarkSync benchmarks a full rebuild (DB already open)
func BenchmarkSync(b *testing.B) {
	dir := b.TempDir()
	idx := NewIndex(WithDatabasePath(filepath.Join(dir, "bench.db")))
	if err := idx.Open(filepath.Join(dir, "productivity_log.json")); err != nil {
		b.Fatalf("failed to open index: %v", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			b.Fatalf("failed to close index: %v", err)
		}
	}()

	records := syntheticRecords(10_000)

	b.ResetTimer()
	for i := 0; b.Loop(); i++ {
		if _, err := idx.Sync(records, domain.LogStamp{Size: int64(i), Mtime: int64(i)}); err != nil {
			b.Fatalf("sync failed: %v", err)
		}
	}
}

// BenchmarkFileTotals benchmarks the per-file aggregate query
func BenchmarkFileTotals(b *testing.B) {
	dir := b.TempDir()
	idx := NewIndex(WithDatabasePath(filepath.Join(dir, "bench.db")))
	if err := idx.Open(filepath.Join(dir, "productivity_log.json")); err != nil {
		b.Fatalf("failed to open index: %v", err)
	}
	defer idx.Close()

	if _, err := idx.Sync(syntheticRecords(10_000), domain.LogStamp{Size: 1, Mtime: 1}); err != nil {
		b.Fatalf("sync failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := idx.FileTotals(10); err != nil {
			b.Fatalf("query failed: %v", err)
		}
	}
}
