package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	listReleasesQuery = `query ListReleases($orgId: ID!, $limit: Int, $status: String) { releases(orgId: $orgId, limit: $limit, status: $status) { id name version status targetDate createdAt } }`

	getReleaseQuery = `query GetRelease($id: ID!) { release(id: $id) { id name version status targetDate notes applications { id name } pipelines { id name } } }`

	createReleaseMutation = `mutation CreateRelease($input: CreateReleaseInput!) { createRelease(input: $input) { id name version status targetDate } }`

	updateReleaseStatusMutation = `mutation UpdateReleaseStatus($id: ID!, $status: String!) { updateReleaseStatus(id: $id, status: $status) { id name status } }`
)

func (c *Catalog) listReleasesTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_releases",
		mcp.WithDescription("List releases in an organization"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by release status, e.g. planned, active, released"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of releases to return"),
		),
	)
}

func (c *Catalog) handleListReleases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vars := map[string]interface{}{"orgId": c.org(req)}
	if status := req.GetString("status", ""); status != "" {
		vars["status"] = status
	}
	if limit := req.GetInt("limit", 0); limit > 0 {
		vars["limit"] = limit
	}
	return c.run(ctx, listReleasesQuery, vars)
}

func (c *Catalog) getReleaseTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_release",
		mcp.WithDescription("Get details of a single release"),
		mcp.WithString("release_id",
			mcp.Required(),
			mcp.Description("Id of the release"),
		),
	)
}

func (c *Catalog) handleGetRelease(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("release_id")
	if err != nil {
		return mcp.NewToolResultError("release_id is required"), nil
	}
	return c.run(ctx, getReleaseQuery, map[string]interface{}{"id": id})
}

func (c *Catalog) createReleaseTool() mcp.Tool {
	return mcp.NewTool("conveyor_create_release",
		mcp.WithDescription("Create a new release"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Release name"),
		),
		mcp.WithString("version",
			mcp.Required(),
			mcp.Description("Release version, e.g. 2024.3.1"),
		),
		mcp.WithString("target_date",
			mcp.Description("Target release date in ISO 8601 format"),
		),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
	)
}

func (c *Catalog) handleCreateRelease(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	version, err := req.RequireString("version")
	if err != nil {
		return mcp.NewToolResultError("version is required"), nil
	}

	input := map[string]interface{}{
		"orgId":   c.org(req),
		"name":    name,
		"version": version,
	}
	if target := req.GetString("target_date", ""); target != "" {
		input["targetDate"] = target
	}
	return c.run(ctx, createReleaseMutation, map[string]interface{}{"input": input})
}

func (c *Catalog) updateReleaseStatusTool() mcp.Tool {
	return mcp.NewTool("conveyor_update_release_status",
		mcp.WithDescription("Update the status of a release"),
		mcp.WithString("release_id",
			mcp.Required(),
			mcp.Description("Id of the release"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New release status"),
			mcp.Enum("planned", "active", "frozen", "released", "cancelled"),
		),
	)
}

func (c *Catalog) handleUpdateReleaseStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("release_id")
	if err != nil {
		return mcp.NewToolResultError("release_id is required"), nil
	}
	status, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("status is required"), nil
	}
	return c.run(ctx, updateReleaseStatusMutation, map[string]interface{}{"id": id, "status": status})
}
