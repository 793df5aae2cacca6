package lsp

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"prodtrack/internal/app"
	"prodtrack/internal/config"
	"prodtrack/internal/domain"
)

type notification struct {
	method string
	params protocol.ShowMessageParams
}

type recorder struct {
	mu    sync.Mutex
	notes []notification
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			msg, _ := params.(protocol.ShowMessageParams)
			r.notes = append(r.notes, notification{method: method, params: msg})
		},
	}
}

func (r *recorder) last(t *testing.T) protocol.ShowMessageParams {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.notes)
	n := r.notes[len(r.notes)-1]
	assert.Equal(t, "window/showMessage", n.method)
	return n.params
}

type fakeViewer struct {
	opened []string
}

func (v *fakeViewer) OpenFile(path string) error {
	v.opened = append(v.opened, path)
	return nil
}

func (v *fakeViewer) Command(path string) (*exec.Cmd, error) {
	return exec.Command("true", path), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, viewer *fakeViewer) *Server {
	t.Helper()
	load := func(workspace string) (*app.App, error) {
		cfg := config.Default(workspace)
		cfg.Runtime = "/bin/sh"
		return app.New(cfg, discardLogger(), app.WithViewer(viewer)), nil
	}
	return NewServer("prodtrack-lsp", "test", load, discardLogger())
}

func fileURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

func initialize(t *testing.T, srv *Server, rec *recorder, workspace string) {
	t.Helper()
	params := &protocol.InitializeParams{}
	if workspace != "" {
		params.WorkspaceFolders = []protocol.WorkspaceFolder{{URI: fileURI(workspace), Name: "ws"}}
	}
	_, err := srv.initialize(rec.context(), params)
	require.NoError(t, err)
	require.NoError(t, srv.initialized(rec.context(), &protocol.InitializedParams{}))
}

func TestServer_ActivationMessage(t *testing.T) {
	srv := newTestServer(t, &fakeViewer{})
	rec := &recorder{}

	initialize(t, srv, rec, t.TempDir())
	t.Cleanup(func() { srv.shutdown(rec.context()) })

	msg := rec.last(t)
	assert.Equal(t, protocol.MessageTypeInfo, msg.Type)
	assert.Equal(t, "Productivity Tracker is now active!", msg.Message)
}

func TestServer_NoWorkspace(t *testing.T) {
	srv := newTestServer(t, &fakeViewer{})
	rec := &recorder{}

	initialize(t, srv, rec, "")

	msg := rec.last(t)
	assert.Equal(t, protocol.MessageTypeError, msg.Type)
	assert.Equal(t, "Please open a folder to enable logging.", msg.Message)

	// Events are ignored and shutdown has nothing to flush
	require.NoError(t, srv.didOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///tmp/a.go", Text: "abc"},
	}))
	require.NoError(t, srv.shutdown(rec.context()))
}

func TestServer_SaveThenShutdownWritesLog(t *testing.T) {
	ws := t.TempDir()
	srv := newTestServer(t, &fakeViewer{})
	rec := &recorder{}
	initialize(t, srv, rec, ws)

	doc := filepath.Join(ws, "main.go")
	uri := fileURI(doc)
	saved := "hello world"

	require.NoError(t, srv.didOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "hello"},
	}))
	require.NoError(t, srv.didSave(rec.context(), &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Text:         &saved,
	}))
	require.NoError(t, srv.shutdown(rec.context()))

	data, err := os.ReadFile(filepath.Join(ws, config.DefaultLogFile))
	require.NoError(t, err)

	var records []domain.LogRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, 5, records[0].CharsAdded)
	assert.Equal(t, doc, records[0].FileName)
}

func TestServer_PeriodicFlushOutlivesInitialize(t *testing.T) {
	ws := t.TempDir()
	load := func(workspace string) (*app.App, error) {
		cfg := config.Default(workspace)
		cfg.FlushInterval = config.Duration{Duration: 20 * time.Millisecond}
		return app.New(cfg, discardLogger()), nil
	}
	srv := NewServer("prodtrack-lsp", "test", load, discardLogger())
	rec := &recorder{}
	initialize(t, srv, rec, ws)
	t.Cleanup(func() { srv.shutdown(rec.context()) })

	doc := filepath.Join(ws, "main.go")
	saved := "abcd"
	require.NoError(t, srv.didSave(rec.context(), &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: fileURI(doc)},
		Text:         &saved,
	}))

	logPath := filepath.Join(ws, config.DefaultLogFile)
	require.Eventually(t, func() bool {
		_, err := os.Stat(logPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "ticker should flush without a request in flight")
}

func TestServer_SaveWithoutTextReadsDisk(t *testing.T) {
	ws := t.TempDir()
	srv := newTestServer(t, &fakeViewer{})
	rec := &recorder{}
	initialize(t, srv, rec, ws)

	doc := filepath.Join(ws, "notes.md")
	require.NoError(t, os.WriteFile(doc, []byte("abc def"), 0o644))

	require.NoError(t, srv.didSave(rec.context(), &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: fileURI(doc)},
	}))

	assert.Equal(t, 6, srv.current().Tracker().Pending(doc))
	require.NoError(t, srv.shutdown(rec.context()))
}

func TestServer_ShowLog(t *testing.T) {
	ws := t.TempDir()
	srv := newTestServer(t, &fakeViewer{})
	rec := &recorder{}
	initialize(t, srv, rec, ws)
	t.Cleanup(func() { srv.shutdown(rec.context()) })

	_, err := srv.executeCommand(rec.context(), &protocol.ExecuteCommandParams{Command: CommandShowLog})
	require.NoError(t, err)
	assert.Equal(t, "No log data found.", rec.last(t).Message)

	log := `[{"timestamp":"2024-01-01T00:00:00.000Z","charsAdded":1200,"fileName":"a"},{"timestamp":"2024-01-01T00:05:00.000Z","fileName":"b"}]`
	require.NoError(t, os.WriteFile(filepath.Join(ws, config.DefaultLogFile), []byte(log), 0o644))

	_, err = srv.executeCommand(rec.context(), &protocol.ExecuteCommandParams{Command: CommandShowLog})
	require.NoError(t, err)
	msg := rec.last(t)
	assert.Equal(t, protocol.MessageTypeInfo, msg.Type)
	assert.Equal(t, "Activity Summary:\nFiles Saved: 2\nTotal Characters Added: 1,200", msg.Message)
}

func TestServer_ShowLogMalformed(t *testing.T) {
	ws := t.TempDir()
	srv := newTestServer(t, &fakeViewer{})
	rec := &recorder{}
	initialize(t, srv, rec, ws)
	t.Cleanup(func() { srv.shutdown(rec.context()) })

	require.NoError(t, os.WriteFile(filepath.Join(ws, config.DefaultLogFile), []byte("{not json"), 0o644))

	_, err := srv.executeCommand(rec.context(), &protocol.ExecuteCommandParams{Command: CommandShowLog})
	require.NoError(t, err)
	msg := rec.last(t)
	assert.Equal(t, protocol.MessageTypeError, msg.Type)
	assert.Equal(t, "Error reading log file. Check the output log for more details.", msg.Message)
}

func TestServer_GenerateInsights(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh scripts")
	}

	ws := t.TempDir()
	viewer := &fakeViewer{}
	srv := newTestServer(t, viewer)
	rec := &recorder{}
	initialize(t, srv, rec, ws)
	t.Cleanup(func() { srv.shutdown(rec.context()) })

	scripts := filepath.Join(ws, config.DefaultScriptsDir)
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	// argv: --log L --model M
	require.NoError(t, os.WriteFile(filepath.Join(scripts, config.DefaultTrainScript), []byte("touch \"$4\"\n"), 0o755))
	// argv: --model M --log L --output O
	require.NoError(t, os.WriteFile(filepath.Join(scripts, config.DefaultInsightScript), []byte("touch \"$6\"\n"), 0o755))

	log := `[{"timestamp":"2024-01-01T00:00:00.000Z","charsAdded":3,"fileName":"a"}]`
	require.NoError(t, os.WriteFile(filepath.Join(ws, config.DefaultLogFile), []byte(log), 0o644))

	_, err := srv.executeCommand(rec.context(), &protocol.ExecuteCommandParams{Command: CommandGenerateInsights})
	require.NoError(t, err)

	plot := filepath.Join(ws, config.DefaultPlotFile)
	msg := rec.last(t)
	assert.Equal(t, protocol.MessageTypeInfo, msg.Type)
	assert.Equal(t, "Insights generated! Plot saved at: "+plot, msg.Message)
	assert.Equal(t, []string{plot}, viewer.opened)
	assert.FileExists(t, filepath.Join(ws, config.DefaultModelFile))
}

func TestServer_GenerateInsightsEmptyLog(t *testing.T) {
	ws := t.TempDir()
	viewer := &fakeViewer{}
	srv := newTestServer(t, viewer)
	rec := &recorder{}
	initialize(t, srv, rec, ws)
	t.Cleanup(func() { srv.shutdown(rec.context()) })

	require.NoError(t, os.WriteFile(filepath.Join(ws, config.DefaultLogFile), []byte("[]"), 0o644))

	_, err := srv.executeCommand(rec.context(), &protocol.ExecuteCommandParams{Command: CommandGenerateInsights})
	require.NoError(t, err)

	msg := rec.last(t)
	assert.Equal(t, protocol.MessageTypeError, msg.Type)
	assert.Equal(t, "No data in log. Keep coding to collect some activity first.", msg.Message)
	assert.Empty(t, viewer.opened)
	assert.NoFileExists(t, filepath.Join(ws, config.DefaultModelFile))
}

func TestServer_UnknownCommand(t *testing.T) {
	srv := newTestServer(t, &fakeViewer{})
	rec := &recorder{}
	initialize(t, srv, rec, t.TempDir())
	t.Cleanup(func() { srv.shutdown(rec.context()) })

	_, err := srv.executeCommand(rec.context(), &protocol.ExecuteCommandParams{Command: "other"})
	assert.Error(t, err)
}

func TestURIToPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix paths")
	}

	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"file:///home/me/project", "/home/me/project", false},
		{"file:///home/me/my%20project/", "/home/me/my project", false},
		{"untitled:Untitled-1", "", true},
		{"https://example.com/a", "", true},
	}

	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if tt.wantErr {
			assert.Error(t, err, tt.uri)
			continue
		}
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.want, got)
	}
}

func TestWorkspaceRoot(t *testing.T) {
	root := "file:///srv/root"
	rootPath := "/srv/legacy"

	assert.Equal(t, "", workspaceRoot(&protocol.InitializeParams{}))
	assert.Equal(t, "/srv/legacy", workspaceRoot(&protocol.InitializeParams{RootPath: &rootPath}))
	assert.Equal(t, "/srv/root", workspaceRoot(&protocol.InitializeParams{RootURI: &root, RootPath: &rootPath}))
	assert.Equal(t, "/srv/first", workspaceRoot(&protocol.InitializeParams{
		RootURI:          &root,
		WorkspaceFolders: []protocol.WorkspaceFolder{{URI: "file:///srv/first"}, {URI: "file:///srv/second"}},
	}))
}
