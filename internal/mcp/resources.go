package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/amped/internal/health"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) dailySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	metrics, err := h.orch.FetchAllMetrics(ctx, health.PeriodDay)
	if err != nil {
		return nil, err
	}

	profile, err := h.store.CurrentProfile(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(map[string]any{
		"metrics": metrics,
		"profile": profile,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) metricCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type entry struct {
		health.MetricDef
		Method string `json:"method"`
	}
	defs := health.Catalog()
	out := make([]entry, 0, len(defs))
	for _, def := range defs {
		out = append(out, entry{MetricDef: def, Method: def.Method.String()})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
