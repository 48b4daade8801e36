package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	listWorkflowsQuery = `query ListWorkflows($orgId: ID!) { workflows(orgId: $orgId) { id name description stages { id name order } } }`

	getWorkflowQuery = `query GetWorkflow($id: ID!) { workflow(id: $id) { id name description stages { id name order wipLimit } teams { id name } } }`

	listWorkflowParticlesQuery = `query ListWorkflowParticles($workflowId: ID!, $stageId: ID, $limit: Int) { particles(workflowId: $workflowId, stageId: $stageId, limit: $limit) { id title kind stageId assignee updatedAt } }`

	moveParticleMutation = `mutation MoveParticle($id: ID!, $stageId: ID!) { moveParticle(id: $id, stageId: $stageId) { id title stageId } }`
)

func (c *Catalog) listWorkflowsTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_workflows",
		mcp.WithDescription("List workflows in an organization"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
	)
}

func (c *Catalog) handleListWorkflows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.run(ctx, listWorkflowsQuery, map[string]interface{}{"orgId": c.org(req)})
}

func (c *Catalog) getWorkflowTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_workflow",
		mcp.WithDescription("Get details of a single workflow"),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("Id of the workflow"),
		),
	)
}

func (c *Catalog) handleGetWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	return c.run(ctx, getWorkflowQuery, map[string]interface{}{"id": id})
}

func (c *Catalog) listWorkflowParticlesTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_workflow_particles",
		mcp.WithDescription("List work particles moving through a workflow"),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("Id of the workflow"),
		),
		mcp.WithString("stage_id",
			mcp.Description("Only return particles currently in this stage"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of particles to return"),
		),
	)
}

func (c *Catalog) handleListWorkflowParticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	vars := map[string]interface{}{"workflowId": id}
	if stage := req.GetString("stage_id", ""); stage != "" {
		vars["stageId"] = stage
	}
	if limit := req.GetInt("limit", 0); limit > 0 {
		vars["limit"] = limit
	}
	return c.run(ctx, listWorkflowParticlesQuery, vars)
}

func (c *Catalog) moveParticleTool() mcp.Tool {
	return mcp.NewTool("conveyor_move_particle",
		mcp.WithDescription("Move a work particle to another workflow stage"),
		mcp.WithString("particle_id",
			mcp.Required(),
			mcp.Description("Id of the particle"),
		),
		mcp.WithString("stage_id",
			mcp.Required(),
			mcp.Description("Id of the destination stage"),
		),
	)
}

func (c *Catalog) handleMoveParticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("particle_id")
	if err != nil {
		return mcp.NewToolResultError("particle_id is required"), nil
	}
	stage, err := req.RequireString("stage_id")
	if err != nil {
		return mcp.NewToolResultError("stage_id is required"), nil
	}
	return c.run(ctx, moveParticleMutation, map[string]interface{}{"id": id, "stageId": stage})
}
