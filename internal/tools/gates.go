package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"conveyormcp/internal/gate"

	"github.com/mark3labs/mcp-go/mcp"
)

const listStageGatesQuery = `query ListStageGates($pipelineId: ID!, $stageId: ID!) { stageGates(pipelineId: $pipelineId, stageId: $stageId) { id name status notifyOnPending rules { id type } } }`

func (c *Catalog) createPipelineGateTool() mcp.Tool {
	return mcp.NewTool("conveyor_create_pipeline_gate",
		mcp.WithDescription("Create a gate on a pipeline stage. Creates the gate-type-specific rule first, then attaches it to the stage."),
		mcp.WithString("pipeline_id",
			mcp.Required(),
			mcp.Description("Id of the pipeline"),
		),
		mcp.WithString("stage_id",
			mcp.Required(),
			mcp.Description("Id of the stage to attach the gate to"),
		),
		mcp.WithString("gate_type",
			mcp.Required(),
			mcp.Description("Kind of gate to create"),
			mcp.Enum(gate.TypeManual, gate.TypeMetric, gate.TypeCompliance, gate.TypeStatus),
		),
		mcp.WithString("name",
			mcp.Description("Gate name (required for manual gates)"),
		),
		mcp.WithBoolean("notify_on_pending",
			mcp.Description("Notify approvers when the gate becomes pending"),
			mcp.DefaultBool(false),
		),
		mcp.WithArray("approvers",
			mcp.Description("Manual gates: approvers as objects with type (user or group), id, and optional name. Group entries are accepted but not submitted."),
			mcp.Items(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"type": map[string]interface{}{"type": "string", "enum": []string{"user", "group"}},
					"id":   map[string]interface{}{"type": "string"},
					"name": map[string]interface{}{"type": "string"},
				},
				"required": []string{"type", "id"},
			}),
		),
		mcp.WithString("metric_definition_id",
			mcp.Description("Metric gates: id of the metric definition to evaluate"),
		),
		mcp.WithString("resource_id",
			mcp.Description("Compliance gates: id of the resource the rule applies to"),
		),
		mcp.WithObject("condition",
			mcp.Description("Metric and compliance gates: query condition object, e.g. {\"operator\": \"lt\", \"value\": 5}"),
		),
		mcp.WithString("status",
			mcp.Description("Status gates: status value that must be reached"),
		),
	)
}

func (c *Catalog) handleCreatePipelineGate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipelineID, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError("pipeline_id is required"), nil
	}
	stageID, err := req.RequireString("stage_id")
	if err != nil {
		return mcp.NewToolResultError("stage_id is required"), nil
	}
	gateType, err := req.RequireString("gate_type")
	if err != nil {
		return mcp.NewToolResultError("gate_type is required"), nil
	}

	spec := gate.Spec{
		PipelineID:         pipelineID,
		StageID:            stageID,
		GateType:           gateType,
		Name:               req.GetString("name", ""),
		NotifyOnPending:    req.GetBool("notify_on_pending", false),
		MetricDefinitionID: req.GetString("metric_definition_id", ""),
		ResourceID:         req.GetString("resource_id", ""),
		Status:             req.GetString("status", ""),
	}

	args := req.GetArguments()
	if raw, ok := args["approvers"]; ok {
		approvers, err := decodeApprovers(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		spec.Approvers = approvers
	}
	if raw, ok := args["condition"].(map[string]interface{}); ok {
		spec.Condition = raw
	}

	result, err := c.prov.Provision(ctx, spec)
	if err != nil {
		return mcp.NewToolResultError(renderError(err)), nil
	}
	return mcp.NewToolResultText(renderJSON(result)), nil
}

// decodeApprovers converts the raw JSON argument value into typed
// approvers via a marshal round trip.
func decodeApprovers(raw interface{}) ([]gate.Approver, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid approvers value: %w", err)
	}
	var approvers []gate.Approver
	if err := json.Unmarshal(encoded, &approvers); err != nil {
		return nil, fmt.Errorf("approvers must be a list of {type, id, name} objects: %w", err)
	}
	return approvers, nil
}

func (c *Catalog) listStageGatesTool() mcp.Tool {
	return mcp.NewTool("conveyor_list_stage_gates",
		mcp.WithDescription("List the gates attached to a pipeline stage"),
		mcp.WithString("pipeline_id",
			mcp.Required(),
			mcp.Description("Id of the pipeline"),
		),
		mcp.WithString("stage_id",
			mcp.Required(),
			mcp.Description("Id of the stage"),
		),
	)
}

func (c *Catalog) handleListStageGates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipelineID, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError("pipeline_id is required"), nil
	}
	stageID, err := req.RequireString("stage_id")
	if err != nil {
		return mcp.NewToolResultError("stage_id is required"), nil
	}
	return c.run(ctx, listStageGatesQuery, map[string]interface{}{"pipelineId": pipelineID, "stageId": stageID})
}
