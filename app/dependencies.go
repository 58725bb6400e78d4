package app

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/upb/observability-platform/config"
	"github.com/upb/observability-platform/eventlog"
	"github.com/upb/observability-platform/internal/observability"
	"github.com/upb/observability-platform/middleware"
	"github.com/upb/observability-platform/services/recorder"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Event log
	Store    *eventlog.Store
	Recorder *recorder.Recorder

	// Request observation
	RequestLogger  *observability.Logger
	RequestLogging *middleware.RequestLogging
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initEventLog(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize event log: %w", err)
	}
	deps.initRequestLogging(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initEventLog initializes the event log store and the background recorder
func (d *Dependencies) initEventLog(cfg *config.Config) error {
	d.Store = eventlog.NewStore(cfg.EventLog.FilePath)
	if err := d.Store.EnsureDirectory(); err != nil {
		return err
	}

	d.Recorder = recorder.New(d.Store, d.Logger, recorder.Config{
		BufferSize:  cfg.Recorder.BufferSize,
		WorkerCount: cfg.Recorder.WorkerCount,
	})
	if err := d.Recorder.Start(); err != nil {
		return err
	}

	d.Logger.Info("event log initialized",
		zap.String("destination", d.Store.Path()))
	return nil
}

// initRequestLogging initializes the structured request logger and middleware
func (d *Dependencies) initRequestLogging(cfg *config.Config) {
	d.RequestLogger = observability.NewLogger("http",
		observability.WithSink(os.Stdout),
		observability.WithLevel(observability.ParseLevel(cfg.Observability.RequestLogLevel)))

	d.RequestLogging = middleware.NewRequestLogging(
		d.RequestLogger, d.Logger, cfg.Observability.ExcludePaths)

	d.Logger.Info("request logging initialized",
		zap.Strings("exclude_paths", cfg.Observability.ExcludePaths))
}

// Shutdown stops background components, draining pending records.
func (d *Dependencies) Shutdown(timeout time.Duration) error {
	if d.Recorder != nil {
		if err := d.Recorder.Stop(timeout); err != nil {
			return fmt.Errorf("failed to stop recorder: %w", err)
		}
	}
	return nil
}
