// Package tools defines the MCP tool catalog exposed to agent hosts.
// Every tool maps to exactly one GraphQL operation against the
// Conveyor API, except the gate tool which runs the two-step
// provisioning workflow.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"conveyormcp/internal/conveyor"
	"conveyormcp/internal/gate"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Catalog holds the shared dependencies of all tool handlers: the
// request executor, the gate provisioner, and the default org id
// substituted when a caller omits the optional org_id argument.
type Catalog struct {
	exec       conveyor.Executor
	prov       *gate.Provisioner
	defaultOrg string
}

// NewCatalog creates the tool catalog.
func NewCatalog(exec conveyor.Executor, defaultOrg string) *Catalog {
	return &Catalog{
		exec:       exec,
		prov:       gate.NewProvisioner(exec),
		defaultOrg: defaultOrg,
	}
}

// ServerTools returns every tool paired with its handler, ready to
// register on an MCP server.
func (c *Catalog) ServerTools() []server.ServerTool {
	return []server.ServerTool{
		// Releases
		{Tool: c.listReleasesTool(), Handler: c.handleListReleases},
		{Tool: c.getReleaseTool(), Handler: c.handleGetRelease},
		{Tool: c.createReleaseTool(), Handler: c.handleCreateRelease},
		{Tool: c.updateReleaseStatusTool(), Handler: c.handleUpdateReleaseStatus},

		// Pipelines
		{Tool: c.listPipelinesTool(), Handler: c.handleListPipelines},
		{Tool: c.getPipelineTool(), Handler: c.handleGetPipeline},
		{Tool: c.getPipelineStagesTool(), Handler: c.handleGetPipelineStages},
		{Tool: c.runPipelineTool(), Handler: c.handleRunPipeline},
		{Tool: c.listPipelineRunsTool(), Handler: c.handleListPipelineRuns},

		// Workflows
		{Tool: c.listWorkflowsTool(), Handler: c.handleListWorkflows},
		{Tool: c.getWorkflowTool(), Handler: c.handleGetWorkflow},
		{Tool: c.listWorkflowParticlesTool(), Handler: c.handleListWorkflowParticles},
		{Tool: c.moveParticleTool(), Handler: c.handleMoveParticle},

		// Issues
		{Tool: c.listIssuesTool(), Handler: c.handleListIssues},
		{Tool: c.getIssueTool(), Handler: c.handleGetIssue},
		{Tool: c.createIssueTool(), Handler: c.handleCreateIssue},
		{Tool: c.updateIssueTool(), Handler: c.handleUpdateIssue},

		// Metrics
		{Tool: c.getDeliveryMetricsTool(), Handler: c.handleGetDeliveryMetrics},
		{Tool: c.getDeploymentFrequencyTool(), Handler: c.handleGetDeploymentFrequency},
		{Tool: c.getLeadTimeTool(), Handler: c.handleGetLeadTime},

		// Teams
		{Tool: c.listTeamsTool(), Handler: c.handleListTeams},
		{Tool: c.getTeamTool(), Handler: c.handleGetTeam},
		{Tool: c.listTeamMembersTool(), Handler: c.handleListTeamMembers},

		// Applications
		{Tool: c.listApplicationsTool(), Handler: c.handleListApplications},
		{Tool: c.getApplicationTool(), Handler: c.handleGetApplication},
		{Tool: c.createApplicationTool(), Handler: c.handleCreateApplication},

		// Integrations
		{Tool: c.listIntegrationsTool(), Handler: c.handleListIntegrations},
		{Tool: c.getIntegrationTool(), Handler: c.handleGetIntegration},

		// Gates
		{Tool: c.createPipelineGateTool(), Handler: c.handleCreatePipelineGate},
		{Tool: c.listStageGatesTool(), Handler: c.handleListStageGates},
	}
}

// org resolves the tenant for a request, falling back to the
// configured default when the caller did not supply org_id.
func (c *Catalog) org(req mcp.CallToolRequest) string {
	return req.GetString("org_id", c.defaultOrg)
}

// run executes one GraphQL operation and wraps the outcome as a text
// result. Failures become error text, never a Go error: the tool
// boundary always returns a response.
func (c *Catalog) run(ctx context.Context, query string, vars map[string]interface{}) (*mcp.CallToolResult, error) {
	data, err := c.exec.Execute(ctx, query, vars)
	if err != nil {
		return mcp.NewToolResultError(renderError(err)), nil
	}
	return mcp.NewToolResultText(renderJSON(data)), nil
}

// renderJSON pretty-prints a payload for the text response.
func renderJSON(data json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}

// renderError turns a typed failure into the descriptive text the
// agent host sees. GraphQL error lists are included verbatim so no
// detail is lost crossing the tool boundary.
func renderError(err error) string {
	var ve *gate.ValidationError
	var te *conveyor.TransportError
	var ge *conveyor.GraphQLError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &te):
		return te.Error()
	case errors.As(err, &ge):
		return "GraphQL request failed:\n" + renderJSON(ge.Errors)
	default:
		return err.Error()
	}
}
