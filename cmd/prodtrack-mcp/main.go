package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "prodtrack/internal/adapters/mcp"
	"prodtrack/internal/app"
	"prodtrack/internal/config"
)

func main() {
	workspaceFlag := flag.String("workspace", config.WorkspacePath(), "workspace root")
	flag.Parse()

	a, err := app.Load(*workspaceFlag, os.Stderr)
	if err != nil {
		log.Fatalf("prodtrack-mcp: %v", err)
	}

	idx, err := a.OpenIndex()
	if err != nil {
		log.Fatalf("prodtrack-mcp: %v", err)
	}
	defer idx.Close()

	mcpServer := server.NewMCPServer(
		"prodtrack-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, a, idx)
	mcpadapter.RegisterWriteTools(mcpServer, a)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Printf("prodtrack-mcp: %v", err)
		idx.Close()
		os.Exit(1)
	}
}
