package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/hpcigv/internal/app"
	flag "github.com/spf13/pflag"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("hpcigv", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
hpcigv - Generate an igv-webapp config from a data folder and serve it from a Singularity container.

Usage:
  hpcigv [options] DATA_PATH

Arguments:
  DATA_PATH
    Target data folder. Files named in the mapping file become tracks.

Options:
`)
		flagSet.PrintDefaults()
	}

	mappingFlag := flagSet.String("mapping-file", app.DefaultMappingFile, "Path to a mapping file: order,file name,display name,color per line.")
	templateFlag := flagSet.String("template", app.DefaultTemplate, "Path to template igvwebConfig json file.")
	genomeFlag := flagSet.String("genome", app.DefaultGenome, "Genome string.")
	outputFlag := flagSet.String("output", app.DefaultOutput, "Path to igvwebConfig output file.")
	portFlag := flagSet.String("port", app.DefaultPort, "TCP port to bind the web server to.")
	profileFlag := flagSet.String("profile", "", "Path to an HCL launcher profile overriding the container settings.")
	printProfileFlag := flagSet.Bool("print-profile", false, "Print the launcher profile in HCL and exit.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Write the config but print the container command instead of running it.")
	checkFlag := flagSet.Bool("check-alignments", false, "Read the header of every matched BAM file before writing the config.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected a single DATA_PATH, got %d arguments", flagSet.NArg())}
	}
	dataPath := flagSet.Arg(0)
	slog.Debug("Data path determined.", "path", dataPath)

	if dataPath == "" && !*printProfileFlag {
		slog.Debug("No data path provided, printing usage.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "DATA_PATH is required"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DataPath:        dataPath,
		MappingFile:     *mappingFlag,
		TemplatePath:    *templateFlag,
		Genome:          *genomeFlag,
		OutputPath:      *outputFlag,
		Port:            *portFlag,
		ProfilePath:     *profileFlag,
		PrintProfile:    *printProfileFlag,
		DryRun:          *dryRunFlag,
		CheckAlignments: *checkFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
