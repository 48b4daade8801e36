// Package gate provisions stage gates on the Conveyor API. A gate is
// created in two dependent operations: first the gate-type-specific
// rule object, then the attachment of that rule to a pipeline stage.
package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"conveyormcp/internal/conveyor"
	"conveyormcp/pkg/logging"
)

// Supported gate types.
const (
	TypeManual     = "manual"
	TypeMetric     = "metric"
	TypeCompliance = "compliance"
	TypeStatus     = "status"
)

// Approver identifies a principal allowed to pass a manual gate. Kind
// is "user" or "group"; the API only accepts user approvers, group
// entries are filtered out before submission.
type Approver struct {
	Kind string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Spec describes one gate to provision. It is consumed entirely within
// a single Provision call; the provisioned state lives only in the
// remote service.
type Spec struct {
	PipelineID      string
	StageID         string
	GateType        string
	Name            string
	NotifyOnPending bool

	// Manual gates.
	Approvers []Approver

	// Metric and compliance gates.
	MetricDefinitionID string
	ResourceID         string
	Condition          map[string]interface{}

	// Status gates.
	Status string
}

// ValidationError reports a gate precondition failure. It is raised
// before any network call is attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid gate specification: " + e.Reason
}

const (
	createManualApprovalRuleMutation = `mutation CreateManualApprovalRule($input: ManualApprovalRuleInput!) { createManualApprovalRule(input: $input) { id } }`

	createMetricRuleMutation = `mutation CreateMetricRule($input: MetricRuleInput!) { createMetricRule(input: $input) { id } }`

	createComplianceRuleMutation = `mutation CreateComplianceRule($input: ComplianceRuleInput!) { createComplianceRule(input: $input) { id } }`

	createStatusRuleMutation = `mutation CreateStatusRule($input: StatusRuleInput!) { createStatusRule(input: $input) { id } }`

	attachGateMutation = `mutation AttachGateToStage($input: AttachGateInput!) { attachGateToStage(input: $input) { id name stageId status rules { id } } }`
)

// rulePlan is the outcome of validation: the exact CreateRule call to
// make and the response field the new rule id arrives under.
type rulePlan struct {
	mutation  string
	rootField string
	input     map[string]interface{}
}

// Provisioner runs the two-step gate workflow against an Executor.
type Provisioner struct {
	exec conveyor.Executor
}

// NewProvisioner creates a gate provisioner backed by the given
// executor.
func NewProvisioner(exec conveyor.Executor) *Provisioner {
	return &Provisioner{exec: exec}
}

// Provision validates the spec, creates the rule, and attaches it to
// the stage. The two network calls are not transactional: if the
// attach step fails, the created rule remains in the remote service
// unattached and is not deleted.
func (p *Provisioner) Provision(ctx context.Context, spec Spec) (json.RawMessage, error) {
	plan, err := buildRulePlan(spec)
	if err != nil {
		return nil, err
	}

	logging.Debug("GateProvisioner", "Creating %s rule for pipeline %s stage %s", spec.GateType, spec.PipelineID, spec.StageID)
	created, err := p.exec.Execute(ctx, plan.mutation, map[string]interface{}{"input": plan.input})
	if err != nil {
		return nil, err
	}

	ruleID, err := extractRuleID(created, plan.rootField)
	if err != nil {
		return nil, err
	}

	logging.Debug("GateProvisioner", "Attaching rule %s to stage %s", ruleID, spec.StageID)
	attached, err := p.exec.Execute(ctx, attachGateMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"pipelineId":      spec.PipelineID,
			"stageId":         spec.StageID,
			"name":            spec.Name,
			"ruleIds":         []string{ruleID},
			"notifyOnPending": spec.NotifyOnPending,
		},
	})
	if err != nil {
		return nil, err
	}
	return attached, nil
}

// buildRulePlan dispatches on the gate type and shapes the CreateRule
// payload. It is pure: no network traffic happens until it succeeds.
func buildRulePlan(spec Spec) (*rulePlan, error) {
	if spec.PipelineID == "" || spec.StageID == "" {
		return nil, &ValidationError{Reason: "pipeline id and stage id are required"}
	}

	switch spec.GateType {
	case TypeManual:
		if strings.TrimSpace(spec.Name) == "" {
			return nil, &ValidationError{Reason: "manual gate requires a name"}
		}
		users := make([]Approver, 0, len(spec.Approvers))
		for _, a := range spec.Approvers {
			if a.Kind == "user" {
				users = append(users, a)
			}
		}
		if len(users) == 0 {
			return nil, &ValidationError{Reason: "manual gate requires at least one approver of type user"}
		}
		return &rulePlan{
			mutation:  createManualApprovalRuleMutation,
			rootField: "createManualApprovalRule",
			input: map[string]interface{}{
				"name":      strings.TrimSpace(spec.Name),
				"approvers": users,
			},
		}, nil

	case TypeMetric:
		if spec.MetricDefinitionID == "" {
			return nil, &ValidationError{Reason: "metric gate requires a metric definition id"}
		}
		if spec.Condition == nil {
			return nil, &ValidationError{Reason: "metric gate requires a condition"}
		}
		return &rulePlan{
			mutation:  createMetricRuleMutation,
			rootField: "createMetricRule",
			input: map[string]interface{}{
				"name":               spec.Name,
				"metricDefinitionId": spec.MetricDefinitionID,
				"condition":          spec.Condition,
			},
		}, nil

	case TypeCompliance:
		if spec.ResourceID == "" {
			return nil, &ValidationError{Reason: "compliance gate requires a resource id"}
		}
		if spec.Condition == nil {
			return nil, &ValidationError{Reason: "compliance gate requires a condition"}
		}
		return &rulePlan{
			mutation:  createComplianceRuleMutation,
			rootField: "createComplianceRule",
			input: map[string]interface{}{
				"name":       spec.Name,
				"resourceId": spec.ResourceID,
				"condition":  spec.Condition,
			},
		}, nil

	case TypeStatus:
		if spec.Status == "" {
			return nil, &ValidationError{Reason: "status gate requires a status value"}
		}
		return &rulePlan{
			mutation:  createStatusRuleMutation,
			rootField: "createStatusRule",
			input: map[string]interface{}{
				"name":   spec.Name,
				"status": spec.Status,
			},
		}, nil

	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported gate type %q", spec.GateType)}
	}
}

// extractRuleID pulls the created rule's id out of the CreateRule
// response payload.
func extractRuleID(data json.RawMessage, rootField string) (string, error) {
	var payload map[string]struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("failed to decode create rule response: %w", err)
	}
	entry, ok := payload[rootField]
	if !ok || entry.ID == "" {
		return "", fmt.Errorf("create rule response missing %s.id", rootField)
	}
	return entry.ID, nil
}
