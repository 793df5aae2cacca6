package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodtrack/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.ConfigEnv, "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeLog(t *testing.T, ws, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(ws, config.DefaultLogFile), []byte(content), 0o644))
}

const sampleLog = `[
  {"timestamp": "2024-01-01T09:00:00.000Z", "charsAdded": 1500, "fileName": "/ws/a.go"},
  {"timestamp": "2024-01-02T14:00:00.000Z", "charsAdded": 5, "fileName": "/ws/b.go"}
]`

func TestSummary(t *testing.T) {
	ws := t.TempDir()

	out, err := runCLI(t, "-w", ws, "summary")
	require.NoError(t, err)
	assert.Equal(t, "No log data found.\n", out)

	writeLog(t, ws, sampleLog)
	out, err = runCLI(t, "-w", ws, "summary")
	require.NoError(t, err)
	assert.Equal(t, "Activity Summary:\nFiles Saved: 2\nTotal Characters Added: 1,505\n", out)
}

func TestFiles(t *testing.T) {
	ws := t.TempDir()
	writeLog(t, ws, sampleLog)

	out, err := runCLI(t, "-w", ws, "files", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "/ws/a.go")
	assert.NotContains(t, out, "/ws/b.go")
}

func TestHours(t *testing.T) {
	ws := t.TempDir()
	writeLog(t, ws, sampleLog)

	out, err := runCLI(t, "-w", ws, "hours")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon 09:00")
	assert.Contains(t, out, "Tue 14:00")
}

func TestInsights_EmptyLog(t *testing.T) {
	ws := t.TempDir()
	writeLog(t, ws, "   ")

	_, err := runCLI(t, "-w", ws, "insights")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
