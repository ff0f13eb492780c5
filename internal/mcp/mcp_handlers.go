package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/johanreventlow/BFHcharts-sub001/core"
	"github.com/johanreventlow/BFHcharts-sub001/core/algo"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// classification is the classify_intervals payload.
type classification struct {
	Profile schema.IntervalProfile `json:"profile"`
	Plan    schema.FormatPlan      `json:"plan"`
	Dropped int                    `json:"dropped"`
}

func (h *toolHandler) handleComputeAxis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values := request.GetStringSlice("values", nil)
	if len(values) == 0 {
		return mcp.NewToolResultError("values is required and must be a non-empty array of strings"), nil
	}

	cfg := h.baseCfg.Clone()
	g, err := contract.ParseGranularity(request.GetString("breaks", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid breaks: %v", err)), nil
	}
	cfg.Granularity = g
	cfg.LabelFormat = request.GetString("label_format", "")
	target := request.GetInt("target", 0)
	if target < 0 || target > 100 {
		return mcp.NewToolResultError(fmt.Sprintf("target must be between 0 and 100 (received %d)", target)), nil
	}
	cfg.TargetBreaks = target

	axis, err := core.BuildAxis(values, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("axis failed: %v", err)), nil
	}

	result := schema.AxisResult{Source: request.GetString("source", "mcp"), Axis: axis}
	if request.GetBool("record", false) {
		runID, err := core.RecordAxis(ctx, h.mgr, result.Source, axis, time.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("recording failed: %v", err)), nil
		}
		result.RunID = runID
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyIntervals(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values := request.GetStringSlice("values", nil)
	if len(values) == 0 {
		return mcp.NewToolResultError("values is required and must be a non-empty array of strings"), nil
	}

	raw := make([]any, len(values))
	for i, v := range values {
		raw[i] = v
	}
	times, dropped := algo.Normalize(raw)
	profile := algo.ClassifyIntervals(times)

	jsonData, _ := json.MarshalIndent(classification{
		Profile: profile,
		Plan:    algo.SelectFormat(profile),
		Dropped: dropped,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleHistoryStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.HistoryStore
	if h.mgr != nil {
		store = h.mgr.GetHistoryStore()
	}
	if store == nil {
		return mcp.NewToolResultError("run history is not initialized"), nil
	}
	status, err := store.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
