package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	listTeamsQuery = `query ListTeams($orgId: ID!) { teams(orgId: $orgId) { id name memberCount } }`

	getTeamQuery = `query GetTeam($id: ID!) { team(id: $id) { id name description applications { id name } workflows { id name } } }`

	listTeamMembersQuery = `query ListTeamMembers($teamId: ID!) { teamMembers(teamId: $teamId) { id name email role } }`
)

func (c *Catalog) listTeamsTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_teams",
		mcp.WithDescription("List teams in an organization"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
	)
}

func (c *Catalog) handleListTeams(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.run(ctx, listTeamsQuery, map[string]interface{}{"orgId": c.org(req)})
}

func (c *Catalog) getTeamTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_team",
		mcp.WithDescription("Get details of a single team"),
		mcp.WithString("team_id",
			mcp.Required(),
			mcp.Description("Id of the team"),
		),
	)
}

func (c *Catalog) handleGetTeam(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("team_id")
	if err != nil {
		return mcp.NewToolResultError("team_id is required"), nil
	}
	return c.run(ctx, getTeamQuery, map[string]interface{}{"id": id})
}

func (c *Catalog) listTeamMembersTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_team_members",
		mcp.WithDescription("List the members of a team"),
		mcp.WithString("team_id",
			mcp.Required(),
			mcp.Description("Id of the team"),
		),
	)
}

func (c *Catalog) handleListTeamMembers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("team_id")
	if err != nil {
		return mcp.NewToolResultError("team_id is required"), nil
	}
	return c.run(ctx, listTeamMembersQuery, map[string]interface{}{"teamId": id})
}
