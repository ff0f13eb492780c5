// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the bfhaxis MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"bfhaxis Axis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: compute_axis ---
	s.AddTool(mcp.NewTool("compute_axis",
		mcp.WithDescription("Compute calendar-aligned breaks and Danish labels for a time (or numeric) axis of an SPC chart."),
		mcp.WithArray("values", mcp.Description("Raw x values, e.g. ISO dates. Missing entries (NA, empty) are dropped."), mcp.Required(), mcp.WithStringItems()),
		mcp.WithString("breaks", mcp.Description("Explicit break spacing such as '2 weeks' or 'quarter'. Omit for the adaptive plan.")),
		mcp.WithString("label_format", mcp.Description("Fixed strftime label pattern, e.g. '%b %Y'.")),
		mcp.WithNumber("target", mcp.Description("Approximate number of breaks; used with pretty breaks when no spacing is given.")),
		mcp.WithString("source", mcp.Description("Name recorded for the series when record is set.")),
		mcp.WithBoolean("record", mcp.Description("Store the computed axis in run history.")),
	), h.handleComputeAxis)

	// --- 2. Tool: classify_intervals ---
	s.AddTool(mcp.NewTool("classify_intervals",
		mcp.WithDescription("Classify the spacing of a temporal series and return the format plan it would get."),
		mcp.WithArray("values", mcp.Description("Raw timestamps or dates."), mcp.Required(), mcp.WithStringItems()),
	), h.handleClassifyIntervals)

	// --- 3. Tool: history_status ---
	s.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Report the run-history backend and how many axis runs it holds."),
	), h.handleHistoryStatus)

	return s
}

// StartMCPServer starts the bfhaxis MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
