package models

// Record type discriminator values. The event log writer never enforces
// these; the validator categorizes stored records by them.
const (
	TypeMeta              = "meta"
	TypeComponent         = "component"
	TypeRelationship      = "relationship"
	TypeEntityDefinition  = "entity_definition"
	TypeProcessDefinition = "process_definition"
	TypeScenario          = "scenario"
	TypeStepResult        = "step_result"
	TypeUnknown           = "unknown"
)

// Record is implemented by every event record shape known to the platform.
// Collaborator-produced records with shapes unknown here travel as Generic.
type Record interface {
	Type() string
}

// Meta identifies the writer and schema of a log run. Conventionally the
// first record of an architecture snapshot.
type Meta struct {
	RecordType    string `json:"record_type"`
	SchemaVersion string `json:"schema_version"`
	GeneratedBy   string `json:"generated_by"`
	CreatedAt     string `json:"created_at"`
}

// NewMeta creates a meta record with the discriminator stamped.
func NewMeta(schemaVersion, generatedBy, createdAt string) Meta {
	return Meta{
		RecordType:    TypeMeta,
		SchemaVersion: schemaVersion,
		GeneratedBy:   generatedBy,
		CreatedAt:     createdAt,
	}
}

// Type implements Record.
func (m Meta) Type() string { return TypeMeta }

// Component describes a system component: a service, endpoint, database,
// external system, infrastructure node, or container. Different kinds use
// different optional fields.
type Component struct {
	RecordType    string   `json:"record_type"`
	ComponentID   string   `json:"component_id"`
	ComponentKind string   `json:"component_kind"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	// For services
	OwnerTeam string   `json:"owner_team,omitempty"`
	Inputs    []string `json:"inputs,omitempty"`
	Outputs   []string `json:"outputs,omitempty"`
	// For endpoints
	ServiceID string `json:"service_id,omitempty"`
	Protocol  string `json:"protocol,omitempty"`
	Method    string `json:"method,omitempty"`
	Path      string `json:"path,omitempty"`
	// For databases and stores
	Engine string `json:"engine,omitempty"`
	// For infra nodes
	Provider        string `json:"provider,omitempty"`
	Hostname        string `json:"hostname,omitempty"`
	Platform        string `json:"platform,omitempty"`
	PlatformVersion string `json:"platform_version,omitempty"`
	Environment     string `json:"environment,omitempty"`
}

// NewComponent creates a component record with the discriminator stamped.
func NewComponent(id, kind, name string) Component {
	return Component{
		RecordType:    TypeComponent,
		ComponentID:   id,
		ComponentKind: kind,
		Name:          name,
	}
}

// Type implements Record.
func (c Component) Type() string { return TypeComponent }

// Relationship links two components.
type Relationship struct {
	RecordType       string `json:"record_type"`
	FromID           string `json:"from_id"`
	ToID             string `json:"to_id"`
	RelationshipType string `json:"relationship_type"` // EXPOSES, WRITES_TO, READS_FROM, INTEGRATES_WITH, RUNS_ON
	Description      string `json:"description,omitempty"`
}

// NewRelationship creates a relationship record with the discriminator stamped.
func NewRelationship(fromID, toID, relType string) Relationship {
	return Relationship{
		RecordType:       TypeRelationship,
		FromID:           fromID,
		ToID:             toID,
		RelationshipType: relType,
	}
}

// Type implements Record.
func (r Relationship) Type() string { return TypeRelationship }

// EntityDefinition describes a domain entity flowing through the system.
type EntityDefinition struct {
	RecordType  string   `json:"record_type"`
	EntityID    string   `json:"entity_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	States      []string `json:"states,omitempty"`
	PrimaryKey  string   `json:"primary_key,omitempty"`
	SchemaRef   string   `json:"schema_ref,omitempty"`
}

// NewEntityDefinition creates an entity record with the discriminator stamped.
func NewEntityDefinition(id, name string) EntityDefinition {
	return EntityDefinition{
		RecordType: TypeEntityDefinition,
		EntityID:   id,
		Name:       name,
	}
}

// Type implements Record.
func (e EntityDefinition) Type() string { return TypeEntityDefinition }

// ProcessDefinition describes a high-level workflow spanning components.
type ProcessDefinition struct {
	RecordType      string `json:"record_type"`
	ProcessID       string `json:"process_id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	TriggerType     string `json:"trigger_type,omitempty"`
	TriggerSource   string `json:"trigger_source,omitempty"`
	SuccessCriteria string `json:"success_criteria,omitempty"`
	FailureCriteria string `json:"failure_criteria,omitempty"`
}

// NewProcessDefinition creates a process record with the discriminator stamped.
func NewProcessDefinition(id, name string) ProcessDefinition {
	return ProcessDefinition{
		RecordType: TypeProcessDefinition,
		ProcessID:  id,
		Name:       name,
	}
}

// Type implements Record.
func (p ProcessDefinition) Type() string { return TypeProcessDefinition }

// Generic is the open fallback for collaborator-produced records whose
// shape the platform does not model. The store serializes it as-is.
type Generic map[string]any

// Type implements Record, reading the conventional discriminator field.
func (g Generic) Type() string {
	if rt, ok := g["record_type"].(string); ok && rt != "" {
		return rt
	}
	return TypeUnknown
}
