package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/odegraph/internal/app"
	"github.com/vk/odegraph/internal/export"
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

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("odegraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
odegraph - A dataflow graph engine that assembles ODE models.

Usage:
  odegraph [options] [CONFIG_PATH]
  odegraph -demo [options]

Arguments:
  CONFIG_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the configuration file or directory.")
	cFlag := flagSet.String("c", "", "Path to the configuration file or directory (shorthand).")
	demoFlag := flagSet.Bool("demo", false, "Run the built-in SIR demo graph.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	ticksFlag := flagSet.Int("ticks", 0, "Number of host ticks to run. 0 runs until the graph is idle (or until interrupted with an editor attached).")
	exportFlag := flagSet.String("export", "", "Write the model description to this file on exit. '-' writes to stdout.")
	exportFormatFlag := flagSet.String("export-format", "", "Export format. Options: 'json' or 'hcl'. Defaults to the configuration.")
	editorFlag := flagSet.String("editor-url", "", "socket.io URL of a remote graph editor.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	switch {
	case *configFlag != "":
		path = *configFlag
	case *cFlag != "":
		path = *cFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}
	slog.Debug("Config path determined.", "path", path, "demo", *demoFlag)

	if path == "" && !*demoFlag {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	exportFormat := ""
	if *exportFormatFlag != "" {
		f, err := export.ParseFormat(*exportFormatFlag)
		if err != nil {
			return nil, false, usageError("invalid export-format: %v", err)
		}
		exportFormat = string(f)
	}

	if *healthPortFlag < 0 || *healthPortFlag > 65535 {
		return nil, false, usageError("invalid healthcheck-port: %d is out of range", *healthPortFlag)
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath:      path,
		Demo:            *demoFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
		Ticks:           *ticksFlag,
		ExportPath:      *exportFlag,
		ExportFormat:    exportFormat,
		EditorURL:       *editorFlag,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
