// Package mcp exposes the aggregated metric pipeline to AI clients over the
// Model Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/claude/amped/internal/aggregate"
	"github.com/claude/amped/internal/manual"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(orch *aggregate.Orchestrator, store *manual.Store, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Amped", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Amped health metrics server. Fetch aggregated health metrics with lifespan-impact scores over day, month, or year reporting windows."),
	)

	h := &handlers{orch: orch, store: store, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetMetrics, Handler: h.getMetrics},
		server.ServerTool{Tool: toolGetLatestMetric, Handler: h.getLatestMetric},
		server.ServerTool{Tool: toolListMetricTypes, Handler: h.listMetricTypes},
		server.ServerTool{Tool: toolGetImpactSummary, Handler: h.getImpactSummary},
	)

	s.AddResources(
		server.ServerResource{Resource: resDailySummary, Handler: h.dailySummary},
		server.ServerResource{Resource: resMetricCatalog, Handler: h.metricCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	orch  *aggregate.Orchestrator
	store *manual.Store
	log   *slog.Logger
}

// --- Resource definitions ---

var resDailySummary = mcp.NewResource(
	"amped://daily_summary",
	"Daily Summary",
	mcp.WithResourceDescription("Today's aggregated metrics with daily impact scores"),
	mcp.WithMIMEType("application/json"),
)

var resMetricCatalog = mcp.NewResource(
	"amped://metric_catalog",
	"Metric Catalog",
	mcp.WithResourceDescription("Every supported metric type with unit, valid range, aggregation method, and source capability"),
	mcp.WithMIMEType("application/json"),
)
