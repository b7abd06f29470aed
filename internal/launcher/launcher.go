package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/specialistvlad/hpcigv/internal/ctxlog"
)

// CommandRunner runs an argv to completion.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, stdout, stderr io.Writer) error
}

// ExecRunner runs commands as child processes attached to the caller's stdin.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Launcher starts the containerized web server once per call.
type Launcher struct {
	profile *Profile
	runner  CommandRunner
	stdout  io.Writer
	stderr  io.Writer
	dryRun  bool
}

// New creates a Launcher. In dry-run mode the command line is written to
// stdout instead of being executed.
func New(profile *Profile, runner CommandRunner, stdout, stderr io.Writer, dryRun bool) *Launcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Launcher{
		profile: profile,
		runner:  runner,
		stdout:  stdout,
		stderr:  stderr,
		dryRun:  dryRun,
	}
}

// Launch builds the container command for t and runs it, blocking until the
// server exits.
func (l *Launcher) Launch(ctx context.Context, t Target) error {
	logger := ctxlog.FromContext(ctx)

	argv, err := l.profile.Command(t)
	if err != nil {
		return err
	}

	if l.dryRun {
		logger.Debug("Dry run, not starting the server.")
		_, err := fmt.Fprintln(l.stdout, FormatCommand(argv))
		return err
	}

	logger.Info("🚀 Starting igv-webapp server", "runtime", l.profile.Runtime, "image", l.profile.Image, "port", t.Port)
	if err := l.runner.Run(ctx, argv, l.stdout, l.stderr); err != nil {
		return fmt.Errorf("server command %q failed: %w", argv[0], err)
	}
	logger.Info("🏁 Server exited.")
	return nil
}

// FormatCommand renders argv as a single shell-readable line.
func FormatCommand(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\n\"'\\$`") {
			parts[i] = strconv.Quote(a)
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
