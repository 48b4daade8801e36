package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	listIssuesQuery = `query ListIssues($orgId: ID!, $status: String, $applicationId: ID, $limit: Int) { issues(orgId: $orgId, status: $status, applicationId: $applicationId, limit: $limit) { id title status severity applicationId assignee createdAt } }`

	getIssueQuery = `query GetIssue($id: ID!) { issue(id: $id) { id title description status severity applicationId assignee labels createdAt updatedAt } }`

	createIssueMutation = `mutation CreateIssue($input: CreateIssueInput!) { createIssue(input: $input) { id title status severity } }`

	updateIssueMutation = `mutation UpdateIssue($id: ID!, $input: UpdateIssueInput!) { updateIssue(id: $id, input: $input) { id title status severity assignee } }`
)

func (c *Catalog) listIssuesTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_issues",
		mcp.WithDescription("List issues in an organization"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by issue status, e.g. open, in_progress, resolved"),
		),
		mcp.WithString("application_id",
			mcp.Description("Filter issues by application"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of issues to return"),
		),
	)
}

func (c *Catalog) handleListIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vars := map[string]interface{}{"orgId": c.org(req)}
	if status := req.GetString("status", ""); status != "" {
		vars["status"] = status
	}
	if app := req.GetString("application_id", ""); app != "" {
		vars["applicationId"] = app
	}
	if limit := req.GetInt("limit", 0); limit > 0 {
		vars["limit"] = limit
	}
	return c.run(ctx, listIssuesQuery, vars)
}

func (c *Catalog) getIssueTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_issue",
		mcp.WithDescription("Get details of a single issue"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Id of the issue"),
		),
	)
}

func (c *Catalog) handleGetIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("issue_id")
	if err != nil {
		return mcp.NewToolResultError("issue_id is required"), nil
	}
	return c.run(ctx, getIssueQuery, map[string]interface{}{"id": id})
}

func (c *Catalog) createIssueTool() mcp.Tool {
	return mcp.NewTool("conveyor_create_issue",
		mcp.WithDescription("Create a new issue"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Issue title"),
		),
		mcp.WithString("description",
			mcp.Description("Issue description"),
		),
		mcp.WithString("severity",
			mcp.Description("Issue severity"),
			mcp.Enum("low", "medium", "high", "critical"),
		),
		mcp.WithString("application_id",
			mcp.Description("Application the issue belongs to"),
		),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
	)
}

func (c *Catalog) handleCreateIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil
	}

	input := map[string]interface{}{
		"orgId": c.org(req),
		"title": title,
	}
	if desc := req.GetString("description", ""); desc != "" {
		input["description"] = desc
	}
	if sev := req.GetString("severity", ""); sev != "" {
		input["severity"] = sev
	}
	if app := req.GetString("application_id", ""); app != "" {
		input["applicationId"] = app
	}
	return c.run(ctx, createIssueMutation, map[string]interface{}{"input": input})
}

func (c *Catalog) updateIssueTool() mcp.Tool {
	return mcp.NewTool("conveyor_update_issue",
		mcp.WithDescription("Update an existing issue"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Id of the issue"),
		),
		mcp.WithString("status",
			mcp.Description("New issue status"),
		),
		mcp.WithString("severity",
			mcp.Description("New issue severity"),
			mcp.Enum("low", "medium", "high", "critical"),
		),
		mcp.WithString("assignee",
			mcp.Description("User id to assign the issue to"),
		),
	)
}

func (c *Catalog) handleUpdateIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("issue_id")
	if err != nil {
		return mcp.NewToolResultError("issue_id is required"), nil
	}

	input := map[string]interface{}{}
	if status := req.GetString("status", ""); status != "" {
		input["status"] = status
	}
	if sev := req.GetString("severity", ""); sev != "" {
		input["severity"] = sev
	}
	if assignee := req.GetString("assignee", ""); assignee != "" {
		input["assignee"] = assignee
	}
	if len(input) == 0 {
		return mcp.NewToolResultError("at least one of status, severity, or assignee must be provided"), nil
	}
	return c.run(ctx, updateIssueMutation, map[string]interface{}{"id": id, "input": input})
}
