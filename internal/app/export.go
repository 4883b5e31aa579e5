package app

import (
	"context"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/export"
	"github.com/vk/odegraph/internal/model"
)

// writeExport writes the model description of the current graph. An empty path
// skips it; "-" writes to the application output.
func (a *App) writeExport(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	cfg := a.model.Export
	if cfg.Path == "" {
		logger.Debug("No export path configured, skipping export.")
		return nil
	}

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	m := export.New(a.metadata()).Build(ctx, a.graph)

	if cfg.Path == "-" {
		return export.Write(a.outW, m, format)
	}
	if err := export.WriteFile(cfg.Path, m, format); err != nil {
		return err
	}
	logger.Info("Model exported.", "path", cfg.Path, "format", format, "arguments", len(m.Arguments), "equations", len(m.Equations))
	return nil
}

func (a *App) metadata() model.Metadata {
	meta := model.Metadata{
		Name: a.model.Export.Name,
		ODE: model.ODEMetadata{
			StartTime: a.model.Export.StartTime,
			DeltaTime: a.model.Export.DeltaTime,
			EndTime:   a.model.Export.EndTime,
		},
		Positions: map[string]model.Position{},
	}
	for _, n := range a.model.Nodes {
		if n.Position != nil {
			meta.Positions[n.Name] = model.Position{X: n.Position.X, Y: n.Position.Y}
		}
	}
	return meta
}
