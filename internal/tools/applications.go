package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	listApplicationsQuery = `query ListApplications($orgId: ID!) { applications(orgId: $orgId) { id name repository teamId updatedAt } }`

	getApplicationQuery = `query GetApplication($id: ID!) { application(id: $id) { id name description repository teamId pipelines { id name } integrations { id kind } } }`

	createApplicationMutation = `mutation CreateApplication($input: CreateApplicationInput!) { createApplication(input: $input) { id name repository } }`
)

func (c *Catalog) listApplicationsTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_applications",
		mcp.WithDescription("List applications in an organization"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
	)
}

func (c *Catalog) handleListApplications(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.run(ctx, listApplicationsQuery, map[string]interface{}{"orgId": c.org(req)})
}

func (c *Catalog) getApplicationTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_application",
		mcp.WithDescription("Get details of a single application"),
		mcp.WithString("application_id",
			mcp.Required(),
			mcp.Description("Id of the application"),
		),
	)
}

func (c *Catalog) handleGetApplication(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("application_id")
	if err != nil {
		return mcp.NewToolResultError("application_id is required"), nil
	}
	return c.run(ctx, getApplicationQuery, map[string]interface{}{"id": id})
}

func (c *Catalog) createApplicationTool() mcp.Tool {
	return mcp.NewTool("conveyor_create_application",
		mcp.WithDescription("Register a new application"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Application name"),
		),
		mcp.WithString("repository",
			mcp.Description("Source repository URL"),
		),
		mcp.WithString("team_id",
			mcp.Description("Owning team id"),
		),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
	)
}

func (c *Catalog) handleCreateApplication(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	input := map[string]interface{}{
		"orgId": c.org(req),
		"name":  name,
	}
	if repo := req.GetString("repository", ""); repo != "" {
		input["repository"] = repo
	}
	if team := req.GetString("team_id", ""); team != "" {
		input["teamId"] = team
	}
	return c.run(ctx, createApplicationMutation, map[string]interface{}{"input": input})
}
