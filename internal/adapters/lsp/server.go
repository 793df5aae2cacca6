// Package lsp is the editor add-on: a language server that feeds document
// open/save notifications to the tracking session and exposes the log
// commands through workspace/executeCommand.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"prodtrack/internal/app"
	"prodtrack/internal/application"
	"prodtrack/internal/application/session"
)

// Editor commands
const (
	CommandShowLog          = "productivityTracker.showLog"
	CommandGenerateInsights = "productivityTracker.generateInsights"
)

const activeMessage = "Productivity Tracker is now active!"

// Loader builds the App for a workspace root
type Loader func(workspace string) (*app.App, error)

// Server implements the productivity tracker language server
type Server struct {
	name    string
	version string
	load    Loader
	logger  *slog.Logger
	handler protocol.Handler

	// ctx outlives every request; the session ticker runs under it
	ctx context.Context

	readFile func(path string) ([]byte, error)

	mu       sync.Mutex
	app      *app.App
	session  *session.Session
	startErr error
}

// NewServer creates a new server. load is called once, on initialize.
func NewServer(name, version string, load Loader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		name:     name,
		version:  version,
		load:     load,
		logger:   logger,
		ctx:      context.Background(),
		readFile: os.ReadFile,
	}

	srv.handler = protocol.Handler{
		Initialize:              srv.initialize,
		Initialized:             srv.initialized,
		Shutdown:                srv.shutdown,
		SetTrace:                srv.setTrace,
		TextDocumentDidOpen:     srv.didOpen,
		TextDocumentDidSave:     srv.didSave,
		WorkspaceExecuteCommand: srv.executeCommand,
	}

	return srv
}

// RunStdio serves the protocol on stdin/stdout until the client exits
func (srv *Server) RunStdio() error {
	lspServer := server.NewServer(&srv.handler, srv.name, false)
	return lspServer.RunStdio()
}

// Deactivate stops the session if the client went away without shutdown
func (srv *Server) Deactivate(ctx context.Context) error {
	srv.mu.Lock()
	s := srv.session
	srv.session = nil
	srv.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Deactivate(ctx)
}

func (srv *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	srv.activate(srv.ctx, workspaceRoot(params))

	capabilities := srv.handler.CreateServerCapabilities()
	openClose := true
	includeText := true
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    ptr(protocol.TextDocumentSyncKindNone),
		Save:      &protocol.SaveOptions{IncludeText: &includeText},
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandShowLog, CommandGenerateInsights},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    srv.name,
			Version: &srv.version,
		},
	}, nil
}

// activate resolves the workspace and starts tracking. Failures are kept for
// initialized, which reports them to the user.
func (srv *Server) activate(ctx context.Context, workspace string) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.session != nil {
		return
	}
	if workspace == "" {
		srv.startErr = application.ErrNoWorkspace
		srv.logger.Warn("no workspace folder, tracking disabled")
		return
	}

	a, err := srv.load(workspace)
	if err != nil {
		srv.startErr = err
		srv.logger.Error("failed to load workspace", "workspace", workspace, "error", err)
		return
	}

	s, err := a.NewSession()
	if err == nil {
		err = s.Activate(ctx)
	}
	if err != nil {
		srv.startErr = err
		srv.logger.Error("failed to start tracking", "workspace", workspace, "error", err)
		return
	}

	srv.app = a
	srv.session = s
	srv.startErr = nil
	srv.logger.Info("log file resolved", "path", a.Log.Path())
}

func (srv *Server) initialized(ctx *glsp.Context, _ *protocol.InitializedParams) error {
	srv.mu.Lock()
	err := srv.startErr
	srv.mu.Unlock()

	if err != nil {
		showMessage(ctx, protocol.MessageTypeError, application.UserMessage(err))
		return nil
	}
	showMessage(ctx, protocol.MessageTypeInfo, activeMessage)
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	if err := srv.Deactivate(srv.ctx); err != nil {
		srv.logger.Error("final flush failed", "error", err)
	}
	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (srv *Server) didOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s := srv.current()
	if s == nil {
		return nil
	}

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		srv.logger.Debug("ignoring document", "uri", params.TextDocument.URI, "error", err)
		return nil
	}
	s.DidOpen(path, params.TextDocument.Text)
	return nil
}

func (srv *Server) didSave(_ *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s := srv.current()
	if s == nil {
		return nil
	}

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		srv.logger.Debug("ignoring document", "uri", params.TextDocument.URI, "error", err)
		return nil
	}

	var text string
	if params.Text != nil {
		text = *params.Text
	} else {
		data, err := srv.readFile(path)
		if err != nil {
			srv.logger.Warn("could not read saved document", "file", path, "error", err)
			return nil
		}
		text = string(data)
	}

	s.DidSave(path, text)
	return nil
}

func (srv *Server) executeCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	srv.mu.Lock()
	a := srv.app
	srv.mu.Unlock()

	if a == nil {
		showMessage(ctx, protocol.MessageTypeError, application.UserMessage(application.ErrNoWorkspace))
		return nil, nil
	}

	switch params.Command {
	case CommandShowLog:
		srv.showLog(ctx, a)
	case CommandGenerateInsights:
		srv.generateInsights(ctx, a)
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	return nil, nil
}

func (srv *Server) showLog(ctx *glsp.Context, a *app.App) {
	result, err := a.SummaryCommand().Execute(srv.ctx)
	if err != nil {
		srv.logger.Error("failed to show log summary", "error", err)
		showMessage(ctx, protocol.MessageTypeError, application.UserMessage(err))
		return
	}
	showMessage(ctx, protocol.MessageTypeInfo, result.Message)
}

func (srv *Server) generateInsights(ctx *glsp.Context, a *app.App) {
	result, err := a.InsightsCommand(a.Viewer).Execute(srv.ctx)
	if err != nil {
		srv.logger.Error("failed to generate insights", "error", err)
		showMessage(ctx, protocol.MessageTypeError, application.UserMessage(err))
		return
	}

	showMessage(ctx, protocol.MessageTypeInfo, result.Message)
	if result.OpenErr != nil {
		showMessage(ctx, protocol.MessageTypeWarning,
			fmt.Sprintf("Could not open %s: %v", result.PlotPath, result.OpenErr))
	}
}

func (srv *Server) current() *session.Session {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.session
}

func showMessage(ctx *glsp.Context, kind protocol.MessageType, message string) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify("window/showMessage", protocol.ShowMessageParams{
		Type:    kind,
		Message: message,
	})
}

// workspaceRoot picks the first workspace folder, then the legacy root fields
func workspaceRoot(params *protocol.InitializeParams) string {
	if params == nil {
		return ""
	}
	if len(params.WorkspaceFolders) > 0 {
		if path, err := uriToPath(params.WorkspaceFolders[0].URI); err == nil {
			return path
		}
	}
	if params.RootURI != nil {
		if path, err := uriToPath(*params.RootURI); err == nil {
			return path
		}
	}
	if params.RootPath != nil {
		return *params.RootPath
	}
	return ""
}

// uriToPath converts a file:// URI into a local path
func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}

	path := u.Path
	// file:///C:/dir arrives as /C:/dir
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	if path == "" {
		return "", fmt.Errorf("empty path in uri %q", uri)
	}
	return filepath.Clean(filepath.FromSlash(strings.TrimSuffix(path, "/"))), nil
}

func ptr[T any](v T) *T {
	return &v
}
