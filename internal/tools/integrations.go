package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	listIntegrationsQuery = `query ListIntegrations($orgId: ID!, $kind: String) { integrations(orgId: $orgId, kind: $kind) { id kind name status connectedAt } }`

	getIntegrationQuery = `query GetIntegration($id: ID!) { integration(id: $id) { id kind name status connectedAt settings applications { id name } } }`
)

func (c *Catalog) listIntegrationsTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_integrations",
		mcp.WithDescription("List third-party integrations connected to an organization"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
		mcp.WithString("kind",
			mcp.Description("Filter by integration kind, e.g. scm, ci, incident"),
		),
	)
}

func (c *Catalog) handleListIntegrations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vars := map[string]interface{}{"orgId": c.org(req)}
	if kind := req.GetString("kind", ""); kind != "" {
		vars["kind"] = kind
	}
	return c.run(ctx, listIntegrationsQuery, vars)
}

func (c *Catalog) getIntegrationTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_integration",
		mcp.WithDescription("Get details of a single integration"),
		mcp.WithString("integration_id",
			mcp.Required(),
			mcp.Description("Id of the integration"),
		),
	)
}

func (c *Catalog) handleGetIntegration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("integration_id")
	if err != nil {
		return mcp.NewToolResultError("integration_id is required"), nil
	}
	return c.run(ctx, getIntegrationQuery, map[string]interface{}{"id": id})
}
