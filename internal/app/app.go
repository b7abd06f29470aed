package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/hpcigv/internal/launcher"
	"github.com/spf13/afero"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	fs       afero.Fs
	config   *Config
	profile  *launcher.Profile
	runner   launcher.CommandRunner
	launcher *launcher.Launcher
}

// Option customizes an App at construction time.
type Option func(*App)

// WithFs replaces the operating system filesystem, mainly for tests.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithRunner replaces the process runner used to start the server.
func WithRunner(r launcher.CommandRunner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp is the constructor for the main application. Program output goes to
// outW and logs go to logW. A profile that cannot be loaded is a fatal
// startup error and panics.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		fs:     afero.NewOsFs(),
		config: cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger.Debug("Logger configured successfully.")

	a.profile = launcher.DefaultProfile()
	if cfg.ProfilePath != "" {
		p, err := launcher.LoadProfile(a.fs, cfg.ProfilePath)
		if err != nil {
			panic(fmt.Errorf("failed to load launcher profile: %w", err))
		}
		a.profile = p
		a.logger.Debug("Launcher profile loaded.", "path", cfg.ProfilePath, "runtime", p.Runtime, "image", p.Image)
	}

	a.launcher = launcher.New(a.profile, a.runner, outW, logW, cfg.DryRun)
	return a
}

// Profile returns the launcher profile in effect. This is primarily for testing.
func (a *App) Profile() *launcher.Profile {
	return a.profile
}
