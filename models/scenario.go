package models

// ScenarioStep is a single step within a scenario. A step is either
// HTTP-based (method, URL, payload) or local execution-based (function,
// module).
type ScenarioStep struct {
	StepID string `json:"step_id"`
	Name   string `json:"name"`
	Order  int    `json:"order"`
	// For HTTP-based steps
	Method         string         `json:"method,omitempty"`
	URL            string         `json:"url,omitempty"`
	Payload        map[string]any `json:"payload,omitempty"`
	ExpectedStatus int            `json:"expected_status,omitempty"`
	// For local execution steps
	Function string `json:"function,omitempty"`
	Module   string `json:"module,omitempty"`
	// Service mappings
	ServiceID   string `json:"service_id,omitempty"`
	InterfaceID string `json:"interface_id,omitempty"`
}

// Scenario is a complete business scenario: a user journey or workflow with
// multiple ordered steps.
type Scenario struct {
	RecordType    string         `json:"record_type"`
	ScenarioID    string         `json:"scenario_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Steps         []ScenarioStep `json:"steps,omitempty"`
	ProcessID     string         `json:"process_id,omitempty"`
	TriggerType   string         `json:"trigger_type,omitempty"`
	TriggerSource string         `json:"trigger_source,omitempty"`
}

// NewScenario creates a scenario record with the discriminator stamped.
func NewScenario(id, name string) Scenario {
	return Scenario{
		RecordType:    TypeScenario,
		ScenarioID:    id,
		Name:          name,
		TriggerType:   "user_action",
		TriggerSource: "observability_gateway",
	}
}

// Type implements Record.
func (s Scenario) Type() string { return TypeScenario }

// Step execution outcomes.
const (
	StepStatusSuccess = "success"
	StepStatusFailed  = "failed"
	StepStatusSkipped = "skipped"
)

// StepExecutionResult captures the outcome of one scenario step: status,
// result data, errors, and timing.
type StepExecutionResult struct {
	RecordType string  `json:"record_type"`
	Status     string  `json:"status"`
	Result     any     `json:"result,omitempty"`
	Error      string  `json:"error,omitempty"`
	LatencyMS  float64 `json:"latency_ms"`
}

// NewStepExecutionResult creates a step result record with the
// discriminator stamped.
func NewStepExecutionResult(status string) StepExecutionResult {
	return StepExecutionResult{
		RecordType: TypeStepResult,
		Status:     status,
	}
}

// Type implements Record.
func (r StepExecutionResult) Type() string { return TypeStepResult }
