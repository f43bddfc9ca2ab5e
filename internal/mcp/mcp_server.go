// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	weightsDescription = "Comma-separated weight overrides from 0 to 10, e.g. 'SMATH_Y1=10,AVG_SIZE=0'."
	targetsDescription = "Comma-separated target overrides as a label or percentage, e.g. 'PERDI=Affluent,PEREL=25'."
)

// NewMCPServer initializes and configures the Schoolfit MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Schoolfit Scoring Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: rank_schools ---
	s.AddTool(mcp.NewTool("rank_schools",
		mcp.WithDescription("Rank California schools by Custom Fit Score under the given weights and targets."),
		mcp.WithString("county", mcp.Description("Restrict ranking to one county (e.g. 'San Diego'). Defaults to statewide.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithString("weights", mcp.Description(weightsDescription)),
		mcp.WithString("targets", mcp.Description(targetsDescription)),
	), h.handleRankSchools)

	// --- 2. Tool: rank_districts ---
	s.AddTool(mcp.NewTool("rank_districts",
		mcp.WithDescription("Roll schools up into districts and rank the districts by Custom Fit Score."),
		mcp.WithString("county", mcp.Description("Restrict ranking to one county.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
		mcp.WithString("weights", mcp.Description(weightsDescription)),
		mcp.WithString("targets", mcp.Description(targetsDescription)),
	), h.handleRankDistricts)

	// --- 3. Tool: compare_entities ---
	s.AddTool(mcp.NewTool("compare_entities",
		mcp.WithDescription("Look up selected schools or districts and report their score and rank out of everything in scope."),
		mcp.WithString("selections", mcp.Description("Semicolon-separated selections: 'District/School' for schools, 'District' for districts."), mcp.Required()),
		mcp.WithString("level", mcp.Description("Entity level to compare. Defaults to 'school'."), mcp.Enum("school", "district")),
		mcp.WithString("county", mcp.Description("Rank within one county instead of statewide.")),
		mcp.WithString("weights", mcp.Description(weightsDescription)),
		mcp.WithString("targets", mcp.Description(targetsDescription)),
	), h.handleCompareEntities)

	// --- 4. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List every scoreable metric with its mode, group and the weight and target in force."),
		mcp.WithString("weights", mcp.Description(weightsDescription)),
		mcp.WithString("targets", mcp.Description(targetsDescription)),
	), h.handleListMetrics)

	// --- 5. Tool: list_districts ---
	s.AddTool(mcp.NewTool("list_districts",
		mcp.WithDescription("List districts and their school counts, optionally within one county."),
		mcp.WithString("county", mcp.Description("Restrict the listing to one county.")),
	), h.handleListDistricts)

	return s
}

// StartMCPServer starts the Schoolfit MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
