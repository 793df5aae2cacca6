package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"prodtrack/internal/app"
	"prodtrack/internal/application"
	"prodtrack/internal/application/commands"
	"prodtrack/internal/domain"
	"prodtrack/internal/ports"
)

// RegisterReadTools adds the read-only activity tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, a *app.App, index ports.ActivityIndex) {
	s.AddTool(summaryTool(), summaryHandler(a))
	s.AddTool(fileBreakdownTool(), fileBreakdownHandler(a, index))
	s.AddTool(hourlyBreakdownTool(), hourlyBreakdownHandler(a, index))
}

// --- activity_summary ---

func summaryTool() mcp.Tool {
	return mcp.NewTool("activity_summary",
		mcp.WithDescription("Summarize the productivity log: number of records, total characters added, distinct files and the covered time range."),
	)
}

func summaryHandler(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := a.SummaryCommand().Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.NoData {
			return mcp.NewToolResultText(result.Message), nil
		}

		s := result.Summary
		var sb strings.Builder
		fmt.Fprintf(&sb, "Records: %s\n", humanize.Comma(int64(s.Count)))
		fmt.Fprintf(&sb, "Total characters added: %s\n", humanize.Comma(int64(s.TotalCharsAdded)))
		fmt.Fprintf(&sb, "Distinct files: %d\n", s.DistinctFiles)
		if s.First != "" {
			fmt.Fprintf(&sb, "First record: %s\n", s.First)
			fmt.Fprintf(&sb, "Last record: %s\n", s.Last)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- file_breakdown ---

func fileBreakdownTool() mcp.Tool {
	return mcp.NewTool("file_breakdown",
		mcp.WithDescription("List the files with the most characters added, largest first."),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of files to list (default %d)", commands.DefaultFileLimit)),
		),
	)
}

func fileBreakdownHandler(a *app.App, index ports.ActivityIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", commands.DefaultFileLimit)

		totals, err := a.FileBreakdownCommand(index, limit).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(totals) == 0 {
			return mcp.NewToolResultText("No records found."), nil
		}

		var sb strings.Builder
		for _, ft := range totals {
			fmt.Fprintf(&sb, "%10s  %4d saves  %s\n", humanize.Comma(int64(ft.CharsAdded)), ft.Records, ft.FileName)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- hourly_breakdown ---

func hourlyBreakdownTool() mcp.Tool {
	return mcp.NewTool("hourly_breakdown",
		mcp.WithDescription("Characters added per weekday and hour of day (UTC), the features the insight model is trained on."),
	)
}

func hourlyBreakdownHandler(a *app.App, index ports.ActivityIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		totals, err := a.HourlyBreakdownCommand(index).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatHours(totals)), nil
	}
}

func formatHours(totals []domain.HourTotal) string {
	if len(totals) == 0 {
		return "No records found."
	}
	var sb strings.Builder
	for _, ht := range totals {
		fmt.Fprintf(&sb, "%s  %s\n", ht.Slot(), humanize.Comma(int64(ht.CharsAdded)))
	}
	return sb.String()
}

// toolError reports err to the agent, using the user-facing text for known
// conditions.
func toolError(err error) (*mcp.CallToolResult, error) {
	var pipeErr *application.PipelineError
	if errors.As(err, &pipeErr) && pipeErr.Output != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s\n%s", application.UserMessage(err), pipeErr.Output)), nil
	}
	if commands.IsPrecondition(err) || errors.Is(err, application.ErrPipelineFailed) {
		return mcp.NewToolResultError(application.UserMessage(err)), nil
	}
	return mcp.NewToolResultError(err.Error()), nil
}
