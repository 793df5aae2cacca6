package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodtrack/internal/domain"
)

var flushTime = time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)

func TestFlushCommand_EmptyPendingDoesNoIO(t *testing.T) {
	log := newMemoryLog("[]")
	tracker := domain.NewTracker(log.Path())
	tracker.Open("/work/a.txt", "hello")
	tracker.Save("/work/a.txt", "hell") // shrink: nothing pending

	result, err := NewFlushCommand(tracker, log, discardLogger()).Execute(context.Background(), flushTime)
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.Equal(t, 0, log.appends, "no append expected")
	assert.Equal(t, 0, log.reads, "no read expected")
}

func TestFlushCommand_HelloWorldScenario(t *testing.T) {
	log := &memoryLog{path: "/work/productivity_log.json"}
	tracker := domain.NewTracker(log.Path())

	tracker.Open("/work/a.txt", "hello")
	tracker.Save("/work/a.txt", "hello world")

	result, err := NewFlushCommand(tracker, log, discardLogger()).Execute(context.Background(), flushTime)
	require.NoError(t, err)

	want := domain.LogRecord{Timestamp: "2024-05-06T09:30:00.000Z", CharsAdded: 5, FileName: "/work/a.txt"}
	require.Len(t, result.Records, 1)
	assert.Equal(t, want, result.Records[0])

	records, err := log.Load()
	require.NoError(t, err)
	assert.Equal(t, []domain.LogRecord{want}, records)
}

func TestFlushCommand_AppendsAfterExistingRecords(t *testing.T) {
	prior := []domain.LogRecord{
		{Timestamp: "2024-05-06T09:00:00.000Z", CharsAdded: 9, FileName: "/work/old.go"},
		{Timestamp: "2024-05-06T09:05:00.000Z", CharsAdded: 1, FileName: "/work/older.go"},
	}
	log := newMemoryLog(string(mustJSON(prior)))
	tracker := domain.NewTracker(log.Path())
	tracker.Save("/work/x.go", "abc")
	tracker.Save("/work/x.go", "abcde")
	tracker.Save("/work/y.go", "z")

	_, err := NewFlushCommand(tracker, log, discardLogger()).Execute(context.Background(), flushTime)
	require.NoError(t, err)

	records, err := log.Load()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, prior, records[:2], "prior records must be untouched and in order")
	assert.Equal(t, "/work/x.go", records[2].FileName)
	assert.Equal(t, 5, records[2].CharsAdded, "two saves merge into one record")
	assert.Equal(t, "/work/y.go", records[3].FileName)
	assert.Equal(t, 0, tracker.PendingFiles())
}

func TestFlushCommand_WriteFailureDropsBatch(t *testing.T) {
	log := newMemoryLog("[]")
	log.appendErr = errors.New("disk full")
	tracker := domain.NewTracker(log.Path())
	tracker.Save("/work/a.txt", "hello")

	_, err := NewFlushCommand(tracker, log, discardLogger()).Execute(context.Background(), flushTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, log.appendErr)
	assert.Equal(t, 0, tracker.PendingFiles(), "pending is cleared even when the write fails")
}

func TestFlushCommand_MalformedLogPropagates(t *testing.T) {
	log := newMemoryLog("{not json")
	tracker := domain.NewTracker(log.Path())
	tracker.Save("/work/a.txt", "hello")

	_, err := NewFlushCommand(tracker, log, discardLogger()).Execute(context.Background(), flushTime)
	assert.ErrorIs(t, err, domain.ErrMalformedLog)
}
