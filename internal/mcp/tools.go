package mcp

import (
	"context"
	"fmt"

	"github.com/claude/amped/internal/health"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetMetrics = mcp.NewTool("get_metrics",
	mcp.WithDescription("Fetch every available health metric aggregated over a reporting window, each with a daily lifespan-impact estimate. Month and year are trailing rolling windows (31/365 days ending today)."),
	mcp.WithString("period", mcp.Description("Reporting window. Defaults to 'day'."), mcp.Enum("day", "month", "year")),
)

var toolGetLatestMetric = mcp.NewTool("get_latest_metric",
	mcp.WithDescription("Fetch the freshest single value for one metric type, merged across device and questionnaire sources."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Metric type (e.g. step_count, resting_heart_rate, sleep_hours)")),
)

var toolListMetricTypes = mcp.NewTool("list_metric_types",
	mcp.WithDescription("List every supported metric type with unit, valid range, aggregation method, and whether it comes from the device or the questionnaire."),
)

var toolGetImpactSummary = mcp.NewTool("get_impact_summary",
	mcp.WithDescription("Fetch metrics for a period and return only the impact picture: per-metric daily minutes gained/lost and the net total."),
	mcp.WithString("period", mcp.Description("Reporting window. Defaults to 'day'."), mcp.Enum("day", "month", "year")),
)

// --- Tool handlers ---

func parsePeriod(req mcp.CallToolRequest) (health.Period, error) {
	p := health.Period(req.GetString("period", string(health.PeriodDay)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown period %q", p)
	}
	return p, nil
}

func (h *handlers) getMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parsePeriod(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	metrics, err := h.orch.FetchAllMetrics(ctx, p)
	if err != nil {
		h.log.Error("mcp get_metrics", "error", err)
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(metrics)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLatestMetric(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeName, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	t := health.MetricType(typeName)
	if !health.Known(t) {
		return mcp.NewToolResultError("unknown metric type: " + typeName), nil
	}

	m, err := h.orch.FetchLatest(ctx, t)
	if err != nil {
		h.log.Error("mcp get_latest_metric", "error", err)
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}
	if m == nil {
		return mcp.NewToolResultText("no data for " + typeName), nil
	}

	result, err := mcp.NewToolResultJSON(m)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listMetricTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		health.MetricDef
		Method string `json:"method"`
	}
	defs := health.Catalog()
	out := make([]entry, 0, len(defs))
	for _, def := range defs {
		out = append(out, entry{MetricDef: def, Method: def.Method.String()})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// impactLine is one metric's contribution to the impact summary.
type impactLine struct {
	Type         health.MetricType `json:"type"`
	Value        float64           `json:"value"`
	Unit         string            `json:"unit"`
	DailyMinutes float64           `json:"daily_minutes"`
	Favorable    bool              `json:"favorable"`
}

func (h *handlers) getImpactSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parsePeriod(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	metrics, err := h.orch.FetchAllMetrics(ctx, p)
	if err != nil {
		h.log.Error("mcp get_impact_summary", "error", err)
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}

	var (
		lines []impactLine
		net   float64
	)
	for _, m := range metrics {
		if m.Impact == nil {
			continue
		}
		lines = append(lines, impactLine{
			Type:         m.Type,
			Value:        m.Value,
			Unit:         m.Unit,
			DailyMinutes: m.Impact.DailyMinutes,
			Favorable:    m.Impact.Favorable,
		})
		net += m.Impact.DailyMinutes
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"period":            p,
		"net_daily_minutes": net,
		"metrics":           lines,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
