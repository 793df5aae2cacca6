package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"prodtrack/internal/app"
)

// RegisterWriteTools adds tools that run the insight pipeline. They write the
// model and plot artifacts, never the log.
func RegisterWriteTools(s *server.MCPServer, a *app.App) {
	s.AddTool(insightsTool(), insightsHandler(a))
}

// --- generate_insights ---

func insightsTool() mcp.Tool {
	return mcp.NewTool("generate_insights",
		mcp.WithDescription("Train the productivity model on the log and render the insight plot. Returns the plot path."),
		mcp.WithBoolean("open",
			mcp.Description("Open the plot with the system viewer after it is generated (default false)"),
		),
	)
}

func insightsHandler(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := a.InsightsCommand(nil)
		if req.GetBool("open", false) {
			cmd = a.InsightsCommand(a.Viewer)
		}

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		msg := fmt.Sprintf("%s\nRecords used: %d", result.Message, result.Records)
		if result.OpenErr != nil {
			msg += fmt.Sprintf("\nCould not open plot: %v", result.OpenErr)
		}
		return mcp.NewToolResultText(msg), nil
	}
}
