package gate

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"conveyormcp/internal/conveyor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedCall captures one Execute invocation.
type recordedCall struct {
	query     string
	variables map[string]interface{}
}

// mockExecutor returns canned responses in order and records every
// call.
type mockExecutor struct {
	calls     []recordedCall
	responses []json.RawMessage
	errs      []error
}

func (m *mockExecutor) Execute(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	i := len(m.calls)
	m.calls = append(m.calls, recordedCall{query: query, variables: variables})
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	var resp json.RawMessage
	if i < len(m.responses) {
		resp = m.responses[i]
	}
	return resp, err
}

func validManualSpec() Spec {
	return Spec{
		PipelineID:      "p1",
		StageID:         "s1",
		GateType:        TypeManual,
		Name:            "Release approval",
		NotifyOnPending: true,
		Approvers: []Approver{
			{Kind: "user", ID: "u1"},
			{Kind: "group", ID: "g1"},
		},
	}
}

func TestProvision_ManualHappyPath(t *testing.T) {
	exec := &mockExecutor{
		responses: []json.RawMessage{
			json.RawMessage(`{"createManualApprovalRule":{"id":"r1"}}`),
			json.RawMessage(`{"attachGateToStage":{"id":"g-9","name":"Release approval","status":"pending"}}`),
		},
	}
	prov := NewProvisioner(exec)

	result, err := prov.Provision(context.Background(), validManualSpec())
	require.NoError(t, err)
	require.Len(t, exec.calls, 2)

	// Step 1 creates the rule.
	assert.Contains(t, exec.calls[0].query, "createManualApprovalRule")
	input := exec.calls[0].variables["input"].(map[string]interface{})
	assert.Equal(t, "Release approval", input["name"])

	// Step 2 attaches exactly the created rule id along with the
	// original pipeline, stage, and notification values.
	assert.Contains(t, exec.calls[1].query, "attachGateToStage")
	attach := exec.calls[1].variables["input"].(map[string]interface{})
	assert.Equal(t, "p1", attach["pipelineId"])
	assert.Equal(t, "s1", attach["stageId"])
	assert.Equal(t, []string{"r1"}, attach["ruleIds"])
	assert.Equal(t, true, attach["notifyOnPending"])

	// The attach response passes through unmodified.
	assert.JSONEq(t, `{"attachGateToStage":{"id":"g-9","name":"Release approval","status":"pending"}}`, string(result))
}

func TestProvision_GroupApproversFilteredFromPayload(t *testing.T) {
	exec := &mockExecutor{
		responses: []json.RawMessage{
			json.RawMessage(`{"createManualApprovalRule":{"id":"r1"}}`),
			json.RawMessage(`{"attachGateToStage":{"id":"g-9"}}`),
		},
	}
	prov := NewProvisioner(exec)

	_, err := prov.Provision(context.Background(), validManualSpec())
	require.NoError(t, err)

	input := exec.calls[0].variables["input"].(map[string]interface{})
	approvers := input["approvers"].([]Approver)
	require.Len(t, approvers, 1)
	assert.Equal(t, "user", approvers[0].Kind)
	assert.Equal(t, "u1", approvers[0].ID)

	// The group entry must not appear anywhere in the outgoing
	// request body.
	encoded, err := json.Marshal(exec.calls[0].variables)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "g1")
}

func TestProvision_ManualWithOnlyGroupApprovers(t *testing.T) {
	exec := &mockExecutor{}
	prov := NewProvisioner(exec)

	spec := validManualSpec()
	spec.Approvers = []Approver{{Kind: "group", ID: "g1"}}

	_, err := prov.Provision(context.Background(), spec)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	// Validation happens before any network traffic.
	assert.Empty(t, exec.calls)
}

func TestProvision_ManualRequiresName(t *testing.T) {
	exec := &mockExecutor{}
	prov := NewProvisioner(exec)

	spec := validManualSpec()
	spec.Name = "   "

	_, err := prov.Provision(context.Background(), spec)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, exec.calls)
}

func TestProvision_ValidationPerGateType(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{
			name: "metric without definition",
			spec: Spec{PipelineID: "p1", StageID: "s1", GateType: TypeMetric, Condition: map[string]interface{}{"operator": "lt"}},
		},
		{
			name: "metric without condition",
			spec: Spec{PipelineID: "p1", StageID: "s1", GateType: TypeMetric, MetricDefinitionID: "m1"},
		},
		{
			name: "compliance without resource",
			spec: Spec{PipelineID: "p1", StageID: "s1", GateType: TypeCompliance, Condition: map[string]interface{}{"operator": "eq"}},
		},
		{
			name: "compliance without condition",
			spec: Spec{PipelineID: "p1", StageID: "s1", GateType: TypeCompliance, ResourceID: "res-1"},
		},
		{
			name: "status without value",
			spec: Spec{PipelineID: "p1", StageID: "s1", GateType: TypeStatus},
		},
		{
			name: "unsupported gate type",
			spec: Spec{PipelineID: "p1", StageID: "s1", GateType: "quorum"},
		},
		{
			name: "missing pipeline id",
			spec: Spec{StageID: "s1", GateType: TypeStatus, Status: "passed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{}
			prov := NewProvisioner(exec)

			_, err := prov.Provision(context.Background(), tt.spec)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Empty(t, exec.calls)
		})
	}
}

func TestProvision_MetricRulePayload(t *testing.T) {
	exec := &mockExecutor{
		responses: []json.RawMessage{
			json.RawMessage(`{"createMetricRule":{"id":"r-m"}}`),
			json.RawMessage(`{"attachGateToStage":{"id":"g-1"}}`),
		},
	}
	prov := NewProvisioner(exec)

	condition := map[string]interface{}{"operator": "lt", "value": 5}
	_, err := prov.Provision(context.Background(), Spec{
		PipelineID:         "p1",
		StageID:            "s1",
		GateType:           TypeMetric,
		Name:               "Error budget",
		MetricDefinitionID: "m1",
		Condition:          condition,
	})
	require.NoError(t, err)
	require.Len(t, exec.calls, 2)

	input := exec.calls[0].variables["input"].(map[string]interface{})
	assert.Equal(t, "m1", input["metricDefinitionId"])
	assert.Equal(t, condition, input["condition"])
	attach := exec.calls[1].variables["input"].(map[string]interface{})
	assert.Equal(t, []string{"r-m"}, attach["ruleIds"])
}

func TestProvision_CreateRuleFailureStopsWorkflow(t *testing.T) {
	graphqlErr := &conveyor.GraphQLError{Errors: json.RawMessage(`[{"message":"rule rejected"}]`)}
	exec := &mockExecutor{errs: []error{graphqlErr}}
	prov := NewProvisioner(exec)

	_, err := prov.Provision(context.Background(), validManualSpec())

	// The failure propagates unchanged and the attach step is never
	// attempted.
	var ge *conveyor.GraphQLError
	require.ErrorAs(t, err, &ge)
	assert.JSONEq(t, `[{"message":"rule rejected"}]`, string(ge.Errors))
	require.Len(t, exec.calls, 1)
	assert.Contains(t, exec.calls[0].query, "createManualApprovalRule")
}

func TestProvision_AttachFailureLeavesOrphanedRule(t *testing.T) {
	transportErr := &conveyor.TransportError{Status: 502, Body: "bad gateway"}
	exec := &mockExecutor{
		responses: []json.RawMessage{
			json.RawMessage(`{"createManualApprovalRule":{"id":"r1"}}`),
			nil,
		},
		errs: []error{nil, transportErr},
	}
	prov := NewProvisioner(exec)

	_, err := prov.Provision(context.Background(), validManualSpec())

	var te *conveyor.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 502, te.Status)

	// Both calls were made and no compensating delete follows: the
	// rule created in step 1 stays behind in the remote service.
	require.Len(t, exec.calls, 2)
	for _, call := range exec.calls {
		assert.False(t, strings.Contains(strings.ToLower(call.query), "delete"))
	}
}

func TestProvision_CreateRuleIsNotIdempotent(t *testing.T) {
	// Two identical invocations produce two CreateRule calls and two
	// distinct remote rules. This is documented behavior, not a bug.
	exec := &mockExecutor{
		responses: []json.RawMessage{
			json.RawMessage(`{"createManualApprovalRule":{"id":"r1"}}`),
			json.RawMessage(`{"attachGateToStage":{"id":"g-1"}}`),
			json.RawMessage(`{"createManualApprovalRule":{"id":"r2"}}`),
			json.RawMessage(`{"attachGateToStage":{"id":"g-2"}}`),
		},
	}
	prov := NewProvisioner(exec)

	_, err := prov.Provision(context.Background(), validManualSpec())
	require.NoError(t, err)
	_, err = prov.Provision(context.Background(), validManualSpec())
	require.NoError(t, err)

	require.Len(t, exec.calls, 4)
	first := exec.calls[1].variables["input"].(map[string]interface{})["ruleIds"]
	second := exec.calls[3].variables["input"].(map[string]interface{})["ruleIds"]
	assert.Equal(t, []string{"r1"}, first)
	assert.Equal(t, []string{"r2"}, second)
}

func TestProvision_MissingRuleIDInResponse(t *testing.T) {
	exec := &mockExecutor{
		responses: []json.RawMessage{
			json.RawMessage(`{"createManualApprovalRule":{}}`),
		},
	}
	prov := NewProvisioner(exec)

	_, err := prov.Provision(context.Background(), validManualSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "createManualApprovalRule.id")
	// AttachGate is not attempted without a rule id.
	assert.Len(t, exec.calls, 1)
}
