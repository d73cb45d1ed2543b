package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"codelens"
)

// MCP tool server exposing the classification engine to external
// collaborators (dashboards, assistants) over stdio.
func main() {
	s := server.NewMCPServer("codelens", "1.0.0")

	scanTool := mcp.NewTool("scan_repository",
		mcp.WithDescription("Scan a source repository for demographic data fields and integration patterns"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Root directory of the repository to scan"),
		),
		mcp.WithString("app_name",
			mcp.Description("Application name used in the report metadata"),
		),
	)
	s.AddTool(scanTool, handleScanRepository)

	extractTool := mcp.NewTool("extract_spreadsheet",
		mcp.WithDescription("Classify a CSV spreadsheet's rows against the demographic keyword list"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the CSV file"),
		),
		mcp.WithString("app_name",
			mcp.Description("Application name used in the extraction metadata"),
		),
	)
	s.AddTool(extractTool, handleExtractSpreadsheet)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func handleScanRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, appName, err := toolArgs(request)
	if err != nil {
		return nil, err
	}

	report, err := codelens.ScanRepository(path, appName)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

func handleExtractSpreadsheet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, appName, err := toolArgs(request)
	if err != nil {
		return nil, err
	}

	extraction, err := codelens.ExtractSpreadsheet(path, appName)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	data, err := json.MarshalIndent(extraction, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize extraction: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

func toolArgs(request mcp.CallToolRequest) (path, appName string, err error) {
	path, _ = request.Params.Arguments["path"].(string)
	if path == "" {
		return "", "", fmt.Errorf("missing required argument: path")
	}

	appName, _ = request.Params.Arguments["app_name"].(string)
	if appName == "" {
		appName = "app"
	}

	return path, appName, nil
}
