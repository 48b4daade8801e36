package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	listPipelinesQuery = `query ListPipelines($orgId: ID!, $applicationId: ID) { pipelines(orgId: $orgId, applicationId: $applicationId) { id name applicationId updatedAt } }`

	getPipelineQuery = `query GetPipeline($id: ID!) { pipeline(id: $id) { id name applicationId createdAt stages { id name order } } }`

	getPipelineStagesQuery = `query GetPipelineStages($id: ID!) { pipeline(id: $id) { id name stages { id name order gates { id name status } } } }`

	runPipelineMutation = `mutation RunPipeline($id: ID!, $ref: String) { runPipeline(id: $id, ref: $ref) { id status startedAt } }`

	listPipelineRunsQuery = `query ListPipelineRuns($pipelineId: ID!, $limit: Int) { pipelineRuns(pipelineId: $pipelineId, limit: $limit) { id status startedAt finishedAt triggeredBy } }`
)

func (c *Catalog) listPipelinesTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_pipelines",
		mcp.WithDescription("List pipelines in an organization"),
		mcp.WithString("org_id",
			mcp.Description("Organization id (defaults to the configured org)"),
		),
		mcp.WithString("application_id",
			mcp.Description("Filter pipelines by application"),
		),
	)
}

func (c *Catalog) handleListPipelines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vars := map[string]interface{}{"orgId": c.org(req)}
	if app := req.GetString("application_id", ""); app != "" {
		vars["applicationId"] = app
	}
	return c.run(ctx, listPipelinesQuery, vars)
}

func (c *Catalog) getPipelineTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_pipeline",
		mcp.WithDescription("Get details of a single pipeline"),
		mcp.WithString("pipeline_id",
			mcp.Required(),
			mcp.Description("Id of the pipeline"),
		),
	)
}

func (c *Catalog) handleGetPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError("pipeline_id is required"), nil
	}
	return c.run(ctx, getPipelineQuery, map[string]interface{}{"id": id})
}

func (c *Catalog) getPipelineStagesTool() mcp.Tool {
	return mcp.NewTool("conveyor_get_pipeline_stages",
		mcp.WithDescription("List the stages of a pipeline, including attached gates"),
		mcp.WithString("pipeline_id",
			mcp.Required(),
			mcp.Description("Id of the pipeline"),
		),
	)
}

func (c *Catalog) handleGetPipelineStages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError("pipeline_id is required"), nil
	}
	return c.run(ctx, getPipelineStagesQuery, map[string]interface{}{"id": id})
}

func (c *Catalog) runPipelineTool() mcp.Tool {
	return mcp.NewTool("conveyor_run_pipeline",
		mcp.WithDescription("Trigger a run of a pipeline"),
		mcp.WithString("pipeline_id",
			mcp.Required(),
			mcp.Description("Id of the pipeline to run"),
		),
		mcp.WithString("ref",
			mcp.Description("Source ref to run against, e.g. a branch or tag"),
		),
	)
}

func (c *Catalog) handleRunPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError("pipeline_id is required"), nil
	}
	vars := map[string]interface{}{"id": id}
	if ref := req.GetString("ref", ""); ref != "" {
		vars["ref"] = ref
	}
	return c.run(ctx, runPipelineMutation, vars)
}

func (c *Catalog) listPipelineRunsTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_pipeline_runs",
		mcp.WithDescription("List recent runs of a pipeline"),
		mcp.WithString("pipeline_id",
			mcp.Required(),
			mcp.Description("Id of the pipeline"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to return"),
		),
	)
}

func (c *Catalog) handleListPipelineRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError("pipeline_id is required"), nil
	}
	vars := map[string]interface{}{"pipelineId": id}
	if limit := req.GetInt("limit", 0); limit > 0 {
		vars["limit"] = limit
	}
	return c.run(ctx, listPipelineRunsQuery, vars)
}
