// Package catalog holds the static architecture context of the
// observability platform: the components, relationships, entities, and
// processes that describe the system itself, emitted into the event log as
// plain records. It contains no execution logic.
package catalog

import (
	"os"
	"runtime"

	"github.com/upb/observability-platform/eventlog"
	"github.com/upb/observability-platform/models"
)

// ArchitectureContext groups the full static architecture description.
type ArchitectureContext struct {
	Services      []models.Component
	Endpoints     []models.Component
	Stores        []models.Component
	Relationships []models.Relationship
	Entities      []models.EntityDefinition
	Processes     []models.ProcessDefinition
}

// Context returns the complete architecture context for the platform.
func Context() *ArchitectureContext {
	services := []models.Component{
		service("svc_observability_gateway", "Observability Gateway",
			"HTTP gateway observing request lifecycles and accepting collaborator event records",
			"observability-platform",
			[]string{"entity_event_record"},
			[]string{"entity_structured_log_entry", "entity_event_record"}),
		service("svc_event_recorder", "Event Recorder Service",
			"Background writer draining buffered records into the event log",
			"observability-platform",
			[]string{"entity_event_record"},
			[]string{"entity_event_record"}),
		service("svc_log_validator", "Log Validator",
			"Reads the full event log and reports structural integrity statistics",
			"observability-platform",
			[]string{"entity_event_record"},
			[]string{"entity_validation_report"}),
	}

	endpoints := []models.Component{
		endpoint("ep_append_record", "Append Record Endpoint", "svc_observability_gateway", "POST", "/api/v1/records"),
		endpoint("ep_append_batch", "Append Record Batch Endpoint", "svc_observability_gateway", "POST", "/api/v1/records/batch"),
		endpoint("ep_log_validation", "Log Validation Endpoint", "svc_observability_gateway", "GET", "/api/v1/log/validation"),
		endpoint("ep_architecture_snapshot", "Architecture Snapshot Endpoint", "svc_observability_gateway", "POST", "/api/v1/architecture/snapshot"),
		endpoint("ep_health", "Health Check Endpoint", "svc_observability_gateway", "GET", "/healthz"),
	}

	stores := []models.Component{
		store("db_event_log", "Event Log Store", "jsonl"),
	}

	relationships := []models.Relationship{
		models.NewRelationship("svc_observability_gateway", "ep_append_record", "EXPOSES"),
		models.NewRelationship("svc_observability_gateway", "ep_append_batch", "EXPOSES"),
		models.NewRelationship("svc_observability_gateway", "ep_log_validation", "EXPOSES"),
		models.NewRelationship("svc_observability_gateway", "ep_architecture_snapshot", "EXPOSES"),
		models.NewRelationship("svc_observability_gateway", "ep_health", "EXPOSES"),
		models.NewRelationship("svc_observability_gateway", "db_event_log", "WRITES_TO"),
		models.NewRelationship("svc_event_recorder", "db_event_log", "WRITES_TO"),
		models.NewRelationship("svc_log_validator", "db_event_log", "READS_FROM"),
	}

	entities := []models.EntityDefinition{
		entity("entity_event_record", "Event Record",
			"String-keyed record appended to the event log, discriminated by record_type"),
		entity("entity_structured_log_entry", "Structured Log Entry",
			"Single-line JSON log entry with timestamp, level, logger, event, and correlation id"),
		entity("entity_validation_report", "Validation Report",
			"Integrity statistics for a full pass over the event log"),
	}

	processes := []models.ProcessDefinition{
		process("proc_request_observation", "Request Observation",
			"Observe an inbound request lifecycle: resolve correlation, measure latency, emit one structured entry",
			"Exactly one entry per observed request", "Request outcome altered by observation"),
		process("proc_log_validation", "Log Validation",
			"Read the full event log and categorize records by type, reporting every malformed line",
			"All well-formed records counted", "Validation aborts before end of file"),
	}

	return &ArchitectureContext{
		Services:      services,
		Endpoints:     endpoints,
		Stores:        stores,
		Relationships: relationships,
		Entities:      entities,
		Processes:     processes,
	}
}

// RuntimeComponent describes the host this process runs on.
func RuntimeComponent() models.Component {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "unknown"
	}

	c := models.NewComponent("node_"+hostname, "InfraNode", hostname)
	c.Provider = "local"
	c.Hostname = hostname
	c.Platform = runtime.GOOS
	c.PlatformVersion = runtime.Version()
	c.Description = cwd
	c.Environment = envOrDefault("ENVIRONMENT", "development")
	return c
}

// Snapshot returns every architecture record ready for appending: a meta
// record first, then the runtime component, then the full static context.
func Snapshot() []any {
	ctx := Context()

	records := make([]any, 0,
		2+len(ctx.Services)+len(ctx.Endpoints)+len(ctx.Stores)+
			len(ctx.Relationships)+len(ctx.Entities)+len(ctx.Processes))

	records = append(records, models.NewMeta(eventlog.SchemaVersion, eventlog.GeneratorID, eventlog.NowISO()))
	records = append(records, RuntimeComponent())

	for _, c := range ctx.Services {
		records = append(records, c)
	}
	for _, c := range ctx.Endpoints {
		records = append(records, c)
	}
	for _, c := range ctx.Stores {
		records = append(records, c)
	}
	for _, r := range ctx.Relationships {
		records = append(records, r)
	}
	for _, e := range ctx.Entities {
		records = append(records, e)
	}
	for _, p := range ctx.Processes {
		records = append(records, p)
	}

	return records
}

func service(id, name, description, ownerTeam string, inputs, outputs []string) models.Component {
	c := models.NewComponent(id, "Service", name)
	c.Description = description
	c.OwnerTeam = ownerTeam
	c.Inputs = inputs
	c.Outputs = outputs
	return c
}

func endpoint(id, name, serviceID, method, path string) models.Component {
	c := models.NewComponent(id, "Endpoint", name)
	c.ServiceID = serviceID
	c.Protocol = "http"
	c.Method = method
	c.Path = path
	return c
}

func store(id, name, engine string) models.Component {
	c := models.NewComponent(id, "Database", name)
	c.Engine = engine
	return c
}

func entity(id, name, description string) models.EntityDefinition {
	e := models.NewEntityDefinition(id, name)
	e.Description = description
	return e
}

func process(id, name, description, success, failure string) models.ProcessDefinition {
	p := models.NewProcessDefinition(id, name)
	p.Description = description
	p.TriggerType = "http_request"
	p.TriggerSource = "observability_gateway"
	p.SuccessCriteria = success
	p.FailureCriteria = failure
	return p
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
