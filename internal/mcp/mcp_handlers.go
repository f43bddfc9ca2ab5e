package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/schoolfit/core"
	"github.com/huangsam/schoolfit/core/agg"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/internal/iocache"
	"github.com/huangsam/schoolfit/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config and applies the common tool arguments.
// Every call gets its own settings, so concurrent tool calls never share overrides.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if c := request.GetString("county", ""); c != "" {
		cfg.County = strings.TrimSpace(c)
	}
	if l := request.GetInt("limit", 0); l != 0 {
		if l < 0 || l > contract.MaxResultLimit {
			return nil, fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", contract.MaxResultLimit, l)
		}
		cfg.ResultLimit = l
	}

	var weights, targets []string
	if w := request.GetString("weights", ""); w != "" {
		weights = []string{w}
	}
	if t := request.GetString("targets", ""); t != "" {
		targets = []string{t}
	}
	settings, err := contract.ApplySettingOverrides(cfg.Settings, weights, targets)
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

func (h *toolHandler) handleRankSchools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	ranked, err := core.GetSchoolResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(schema.EnrichTable(ranked))
}

func (h *toolHandler) handleRankDistricts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	ranked, err := core.GetDistrictResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(schema.EnrichTable(ranked))
}

func (h *toolHandler) handleCompareEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	cfg.Level = schema.SchoolLevel
	if request.GetString("level", "") == string(schema.DistrictLevel) {
		cfg.Level = schema.DistrictLevel
	}
	selections, err := parseSelections(request.GetString("selections", ""), cfg.Level)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selections: %v", err)), nil
	}
	cfg.Selections = selections

	result, err := core.GetCompareResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	var loaded *schema.Table
	table, err := core.LoadTable(ctx, cfg, h.mgr)
	switch {
	case err == nil:
		loaded = &table
	case iocache.IsNoData(err):
	default:
		return mcp.NewToolResultError(fmt.Sprintf("loading table failed: %v", err)), nil
	}
	return jsonResult(core.BuildMetricsModel(cfg.Settings, loaded))
}

func (h *toolHandler) handleListDistricts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.County = ""
	table, err := core.LoadTable(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading table failed: %v", err)), nil
	}
	districts := agg.ListDistricts(table, request.GetString("county", ""))
	if districts == nil {
		districts = []schema.DistrictSummary{}
	}
	return jsonResult(districts)
}

// parseSelections splits a semicolon-separated list of selections.
// District-level comparisons drop any school part.
func parseSelections(raw string, level schema.EntityLevel) ([]schema.Selection, error) {
	var out []schema.Selection
	for part := range strings.SplitSeq(raw, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sel, err := contract.ParseSelection(part)
		if err != nil {
			return nil, err
		}
		if level == schema.DistrictLevel {
			sel.School = ""
		} else if sel.School == "" {
			return nil, fmt.Errorf("selection '%s' needs District/School for school comparisons", strings.TrimSpace(part))
		}
		out = append(out, sel)
	}
	if len(out) == 0 {
		return nil, errors.New("at least one selection is required")
	}
	return out, nil
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
