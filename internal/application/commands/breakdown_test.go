package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodtrack/internal/application"
)

const breakdownLog = `[
  {"timestamp": "2024-01-01T09:00:00.000Z", "charsAdded": 10, "fileName": "a.go"},
  {"timestamp": "2024-01-01T09:30:00.000Z", "charsAdded": 30, "fileName": "b.go"},
  {"timestamp": "2024-01-02T14:00:00.000Z", "charsAdded": 5, "fileName": "a.go"}
]`

func TestFileBreakdownCommand(t *testing.T) {
	log := newMemoryLog(breakdownLog)
	index := &memoryIndex{}

	totals, err := NewFileBreakdownCommand(log, index, 0, discardLogger()).Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.Equal(t, "b.go", totals[0].FileName)
	assert.Equal(t, 30, totals[0].CharsAdded)
	assert.Equal(t, 15, totals[1].CharsAdded)
	assert.Equal(t, 2, totals[1].Records)
}

func TestFileBreakdownCommand_SyncsOnlyWhenLogChanged(t *testing.T) {
	log := newMemoryLog(breakdownLog)
	index := &memoryIndex{}
	cmd := NewFileBreakdownCommand(log, index, 5, discardLogger())

	_, err := cmd.Execute(context.Background())
	require.NoError(t, err)
	_, err = cmd.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, index.syncs)

	log.raw = []byte(`[{"timestamp": "2024-01-03T08:00:00.000Z", "charsAdded": 99, "fileName": "c.go"}]`)
	totals, err := cmd.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, index.syncs)
	require.Len(t, totals, 1)
	assert.Equal(t, "c.go", totals[0].FileName)
}

func TestHourlyBreakdownCommand(t *testing.T) {
	totals, err := NewHourlyBreakdownCommand(newMemoryLog(breakdownLog), &memoryIndex{}, discardLogger()).Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, totals, 3)
	assert.Equal(t, 1, totals[0].Weekday) // 2024-01-01 is a Monday
	assert.Equal(t, 9, totals[0].Hour)
}

func TestBreakdown_MissingLog(t *testing.T) {
	log := &memoryLog{path: "/work/productivity_log.json"}

	_, err := NewFileBreakdownCommand(log, &memoryIndex{}, 3, nil).Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrLogMissing)
}
