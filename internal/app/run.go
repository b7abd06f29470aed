package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hpcigv/internal/collector"
	"github.com/specialistvlad/hpcigv/internal/ctxlog"
	"github.com/specialistvlad/hpcigv/internal/igvconfig"
	"github.com/specialistvlad/hpcigv/internal/launcher"
	"github.com/specialistvlad/hpcigv/internal/mapping"
)

// Run generates the igv-webapp config and then starts the server. Every
// error before the config is written aborts the run. A failing server is
// only logged, since the config has already been written by then.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.PrintProfile {
		return a.profile.WriteHCL(a.outW)
	}

	if err := a.Generate(ctx); err != nil {
		return err
	}

	target := launcher.Target{
		DataPath:   a.config.DataPath,
		ConfigPath: a.config.OutputPath,
		Port:       a.config.Port,
	}
	if err := a.launcher.Launch(ctx, target); err != nil {
		a.logger.Warn("Server did not run cleanly.", "error", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Generate runs the config-generation half of the pipeline and writes the
// output file.
func (a *App) Generate(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	cfg := a.config

	table, err := mapping.Load(a.fs, cfg.MappingFile)
	if err != nil {
		return fmt.Errorf("failed to load mapping: %w", err)
	}
	a.logger.Debug("Mapping loaded.", "path", cfg.MappingFile, "entries", table.Len())

	doc, err := igvconfig.Load(a.fs, cfg.TemplatePath)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	var opts []collector.Option
	if cfg.CheckAlignments {
		opts = append(opts, collector.WithAlignmentCheck())
	}
	tracks, err := collector.Collect(ctx, a.fs, cfg.DataPath, table, cfg.Genome, opts...)
	if err != nil {
		return err
	}

	if err := doc.Merge(cfg.Genome, tracks); err != nil {
		return fmt.Errorf("failed to merge tracks into template %s: %w", cfg.TemplatePath, err)
	}
	if err := doc.WriteFile(a.fs, cfg.OutputPath); err != nil {
		return err
	}

	a.logger.Info("igv-webapp config written.", "output", cfg.OutputPath, "tracks", len(tracks), "genome", cfg.Genome)
	return nil
}
