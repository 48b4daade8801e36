package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCreatePipelineGate_ManualHappyPath(t *testing.T) {
	exec := &mockExecutor{}
	exec.data = json.RawMessage(`{"createManualApprovalRule":{"id":"r1"}}`)
	catalog := newTestCatalog(exec)

	result, err := catalog.handleCreatePipelineGate(context.Background(), callReq("conveyor_create_pipeline_gate", map[string]interface{}{
		"pipeline_id": "p1",
		"stage_id":    "s1",
		"gate_type":   "manual",
		"name":        "Release approval",
		"approvers": []interface{}{
			map[string]interface{}{"type": "user", "id": "u1"},
			map[string]interface{}{"type": "group", "id": "g1"},
		},
	}))
	require.NoError(t, err)
	require.Len(t, exec.calls, 2)

	assert.Contains(t, exec.calls[0].query, "createManualApprovalRule")
	assert.Contains(t, exec.calls[1].query, "attachGateToStage")

	// Only the user approver is submitted.
	encoded, merr := json.Marshal(exec.calls[0].variables)
	require.NoError(t, merr)
	assert.Contains(t, string(encoded), "u1")
	assert.NotContains(t, string(encoded), "g1")

	assert.False(t, result.IsError)
}

func TestHandleCreatePipelineGate_GroupOnlyApproversRejected(t *testing.T) {
	exec := &mockExecutor{}
	catalog := newTestCatalog(exec)

	result, err := catalog.handleCreatePipelineGate(context.Background(), callReq("conveyor_create_pipeline_gate", map[string]interface{}{
		"pipeline_id": "p1",
		"stage_id":    "s1",
		"gate_type":   "manual",
		"name":        "Release approval",
		"approvers": []interface{}{
			map[string]interface{}{"type": "group", "id": "g1"},
		},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "approver")
	// Validation fails before any request is sent.
	assert.Empty(t, exec.calls)
}

func TestHandleCreatePipelineGate_UnsupportedType(t *testing.T) {
	exec := &mockExecutor{}
	catalog := newTestCatalog(exec)

	result, err := catalog.handleCreatePipelineGate(context.Background(), callReq("conveyor_create_pipeline_gate", map[string]interface{}{
		"pipeline_id": "p1",
		"stage_id":    "s1",
		"gate_type":   "quorum",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "unsupported gate type")
	assert.Empty(t, exec.calls)
}

func TestHandleCreatePipelineGate_MetricConditionPassedThrough(t *testing.T) {
	exec := &mockExecutor{data: json.RawMessage(`{"createMetricRule":{"id":"r-m"}}`)}
	catalog := newTestCatalog(exec)

	_, err := catalog.handleCreatePipelineGate(context.Background(), callReq("conveyor_create_pipeline_gate", map[string]interface{}{
		"pipeline_id":          "p1",
		"stage_id":             "s1",
		"gate_type":            "metric",
		"name":                 "Error budget",
		"metric_definition_id": "m1",
		"condition":            map[string]interface{}{"operator": "lt", "value": float64(5)},
	}))
	require.NoError(t, err)
	require.NotEmpty(t, exec.calls)

	input := exec.calls[0].variables["input"].(map[string]interface{})
	assert.Equal(t, "m1", input["metricDefinitionId"])
	assert.Equal(t, map[string]interface{}{"operator": "lt", "value": float64(5)}, input["condition"])
}

func TestHandleListStageGates(t *testing.T) {
	exec := &mockExecutor{data: json.RawMessage(`{"stageGates":[]}`)}
	catalog := newTestCatalog(exec)

	result, err := catalog.handleListStageGates(context.Background(), callReq("conveyor_list_stage_gates", map[string]interface{}{
		"pipeline_id": "p1",
		"stage_id":    "s1",
	}))
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "p1", exec.calls[0].variables["pipelineId"])
	assert.Equal(t, "s1", exec.calls[0].variables["stageId"])
	assert.False(t, result.IsError)
}
