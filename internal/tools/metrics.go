package tools

import (
	"context"

	"conveyormcp/internal/conveyor"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	deploymentFrequencyQuery = `query GetDeploymentFrequency($orgId: ID!, $applicationId: ID, $from: String, $to: String) { deploymentFrequency(orgId: $orgId, applicationId: $applicationId, from: $from, to: $to) { interval count } }`

	leadTimeQuery = `query GetLeadTime($orgId: ID!, $applicationId: ID, $from: String, $to: String) { leadTime(orgId: $orgId, applicationId: $applicationId, from: $from, to: $to) { interval hours } }`
)

// deliveryMetricsSelection is the field set returned for the combined
// delivery metrics query assembled at runtime.
const deliveryMetricsSelection = "leadTimeHours deploymentCount changeFailureRate mttrHours"

func (c *Catalog) getDeliveryMetricsTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_delivery_metrics",
		mcp.WithDescription("Get combined delivery metrics, optionally scoped by application, team, pipeline, or time range"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
		mcp.WithString("application_id",
			mcp.Description("Scope metrics to one application"),
		),
		mcp.WithString("team_id",
			mcp.Description("Scope metrics to one team"),
		),
		mcp.WithString("pipeline_id",
			mcp.Description("Scope metrics to one pipeline"),
		),
		mcp.WithString("from",
			mcp.Description("Start of the time range, ISO 8601"),
		),
		mcp.WithString("to",
			mcp.Description("End of the time range, ISO 8601"),
		),
	)
}

func (c *Catalog) handleGetDeliveryMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	optional := func(key string) interface{} {
		if v := req.GetString(key, ""); v != "" {
			return v
		}
		return nil
	}

	query, vars, err := conveyor.BuildQuery("GetDeliveryMetrics", "deliveryMetrics", deliveryMetricsSelection,
		conveyor.QueryArg{Name: "orgId", Type: "ID!", Value: c.org(req)},
		conveyor.QueryArg{Name: "applicationId", Type: "ID", Value: optional("application_id")},
		conveyor.QueryArg{Name: "teamId", Type: "ID", Value: optional("team_id")},
		conveyor.QueryArg{Name: "pipelineId", Type: "ID", Value: optional("pipeline_id")},
		conveyor.QueryArg{Name: "from", Type: "String", Value: optional("from")},
		conveyor.QueryArg{Name: "to", Type: "String", Value: optional("to")},
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.run(ctx, query, vars)
}

func (c *Catalog) getDeploymentFrequencyTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_deployment_frequency",
		mcp.WithDescription("Get deployment frequency over time"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
		mcp.WithString("application_id",
			mcp.Description("Scope to one application"),
		),
		mcp.WithString("from",
			mcp.Description("Start of the time range, ISO 8601"),
		),
		mcp.WithString("to",
			mcp.Description("End of the time range, ISO 8601"),
		),
	)
}

func (c *Catalog) handleGetDeploymentFrequency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.run(ctx, deploymentFrequencyQuery, c.metricVars(req))
}

func (c *Catalog) getLeadTimeTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_lead_time",
		mcp.WithDescription("Get lead time for changes over time"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
		mcp.WithString("application_id",
			mcp.Description("Scope to one application"),
		),
		mcp.WithString("from",
			mcp.Description("Start of the time range, ISO 8601"),
		),
		mcp.WithString("to",
			mcp.Description("End of the time range, ISO 8601"),
		),
	)
}

func (c *Catalog) handleGetLeadTime(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.run(ctx, leadTimeQuery, c.metricVars(req))
}

func (c *Catalog) metricVars(req mcp.CallToolRequest) map[string]interface{} {
	vars := map[string]interface{}{"orgId": c.org(req)}
	if app := req.GetString("application_id", ""); app != "" {
		vars["applicationId"] = app
	}
	if from := req.GetString("from", ""); from != "" {
		vars["from"] = from
	}
	if to := req.GetString("to", ""); to != "" {
		vars["to"] = to
	}
	return vars
}
