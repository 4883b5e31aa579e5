package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/editor"
	"github.com/vk/odegraph/internal/graph"
)

// Run drives the graph until the configured number of ticks has passed, the
// graph goes idle, or ctx ends, then writes the export.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	var bridge *editor.Bridge
	if ed := a.model.Editor; ed != nil {
		var err error
		bridge, err = editor.Connect(ctx, editor.Options{
			URL:       ed.URL,
			Namespace: ed.Namespace,
			Timeout:   ed.Timeout,
		}, a.commands)
		if err != nil {
			return fmt.Errorf("failed to attach editor: %w", err)
		}
		defer bridge.Close()
	}

	ticks, err := a.loop(ctx, bridge)
	if err != nil {
		return err
	}
	a.logger.Info("🏁 Host loop finished.", "ticks", ticks, "nodes", len(a.graph.Nodes()), "links", len(a.graph.Links()))

	if err := a.writeExport(ctx); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) loop(ctx context.Context, bridge *editor.Bridge) (int, error) {
	ticker := time.NewTicker(a.model.Engine.TickInterval)
	defer ticker.Stop()

	ticks := 0
	for {
		a.tick(ctx, bridge)
		ticks++

		if a.config.Ticks > 0 && ticks >= a.config.Ticks {
			return ticks, nil
		}
		if a.config.Ticks == 0 && bridge == nil && a.graph.Pending() == 0 {
			a.logger.Info("Graph is idle.")
			return ticks, nil
		}

		select {
		case <-ctx.Done():
			a.logger.Info("Host loop interrupted.", "reason", context.Cause(ctx))
			return ticks, nil
		case <-ticker.C:
		}
	}
}

// tick applies queued editor commands, runs up to max_steps_per_tick
// supersteps and publishes the result to the editor.
func (a *App) tick(ctx context.Context, bridge *editor.Bridge) {
	var reject func(editor.Command, error)
	if bridge != nil {
		reject = func(c editor.Command, err error) { bridge.Reject(c.Event(), err) }
	}
	editor.ApplyAll(ctx, a.commands, a.graph, a.registry, reject)

	steps, err := a.graph.Settle(ctx, a.model.Engine.MaxStepsPerTick)
	switch {
	case err == nil:
	case errors.Is(err, graph.ErrNotSettled):
		a.logger.Debug("Tick ended with messages pending.", "steps", steps, "pending", a.graph.Pending())
	case ctx.Err() != nil:
		a.logger.Debug("Tick cancelled.", "steps", steps)
	default:
		a.logger.Error("Tick failed.", "error", err)
	}

	if bridge != nil {
		if err := bridge.Publish(editor.Capture(a.graph)); err != nil {
			a.logger.Warn("Failed to publish graph to editor.", "error", err)
		}
	}
}
