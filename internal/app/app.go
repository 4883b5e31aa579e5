package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/vk/odegraph/internal/config"
	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/editor"
	"github.com/vk/odegraph/internal/graph"
	"github.com/vk/odegraph/internal/registry"
	"github.com/vk/odegraph/internal/telemetry"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// commandBuffer bounds the editor commands waiting for the next tick.
const commandBuffer = 256

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	runID      string
	config     *Config
	model      *config.Model
	registry   *registry.Registry
	graph      *graph.Graph
	commands   *editor.Queue
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the
// configuration, registers the node kinds and builds the initial graph. When
// no modules are given the core modules are used.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW).With("run_id", runID)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")
	telemetry.SetBuildInfo(Version)

	m, err := loadModel(ctx, cfg, loader)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(cfg, m)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded and translated into unified model.", "nodes", len(m.Nodes), "links", len(m.Links))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "kinds", reg.Kinds())

	if err := reg.Validate(ctx); err != nil {
		// This is a programmer error (a broken module), so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	var opts []graph.Option
	if m.Engine.PruneReceived {
		opts = append(opts, graph.WithReceivedPruning())
	}
	g := graph.New(opts...)
	if err := buildGraph(ctxlog.With(ctx, "phase", "build"), g, reg, m); err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		runID:    runID,
		config:   cfg,
		model:    m,
		registry: reg,
		graph:    g,
		commands: editor.NewQueue(commandBuffer),
	}, nil
}

func loadModel(ctx context.Context, cfg *Config, loader config.Loader) (*config.Model, error) {
	if cfg.Demo {
		return parseDemo(ctx, loader)
	}
	return loader.Load(ctx, cfg.ConfigPath)
}

func applyOverrides(cfg *Config, m *config.Model) {
	if cfg.ExportPath != "" {
		m.Export.Path = cfg.ExportPath
	}
	if cfg.ExportFormat != "" {
		m.Export.Format = cfg.ExportFormat
	}
	if cfg.EditorURL != "" {
		if m.Editor == nil {
			m.Editor = config.DefaultEditor(cfg.EditorURL)
		} else {
			m.Editor.URL = cfg.EditorURL
		}
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Graph returns the application's graph. This is primarily for testing.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

// Commands returns the queue the editor bridge feeds.
func (a *App) Commands() *editor.Queue {
	return a.commands
}
