package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/slotgraph/internal/app"
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
//
// A --config file is read first; flags given explicitly on the command line
// override its values.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("slotgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
slotgraph - Run declarative node pipelines that share one exclusive resource slot.

Usage:
  slotgraph [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a YAML application config file.")
	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline file or directory (shorthand).")
	registryFlag := flagSet.String("registry", "", "Path to the resource registry (.hcl, .json or .yaml).")
	onlyFlag := flagSet.String("only", "", "Run a single node, plus the report nodes downstream of it.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	journalFlag := flagSet.String("journal", "", "Append a Markdown section per run to this file.")
	sqliteFlag := flagSet.String("sqlite", "", "Store each run in this SQLite database.")
	socketFlag := flagSet.String("socketio-url", "", "Publish each run to this socket.io server.")
	summaryFlag := flagSet.Bool("summary", false, "Print a metric table after the run.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var cfg app.Config
	if *configFlag != "" {
		loaded, err := app.LoadConfigFile(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch {
	case *pipelineFlag != "":
		cfg.PipelinePath = *pipelineFlag
	case *pFlag != "":
		cfg.PipelinePath = *pFlag
	case flagSet.NArg() > 0:
		cfg.PipelinePath = flagSet.Arg(0)
	}
	slog.Debug("Pipeline path determined.", "path", cfg.PipelinePath)

	if cfg.PipelinePath == "" {
		slog.Debug("No pipeline path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if set["registry"] {
		cfg.RegistryPath = *registryFlag
	}
	if set["only"] {
		cfg.Only = *onlyFlag
	}
	if set["healthcheck-port"] {
		cfg.HealthcheckPort = *healthPortFlag
	}
	if set["log-format"] || cfg.LogFormat == "" {
		cfg.LogFormat = strings.ToLower(*logFormatFlag)
	}
	if set["log-level"] || cfg.LogLevel == "" {
		cfg.LogLevel = strings.ToLower(*logLevelFlag)
	}
	if set["journal"] {
		cfg.Exports.Markdown = *journalFlag
	}
	if set["sqlite"] {
		cfg.Exports.SQLite = *sqliteFlag
	}
	if set["socketio-url"] {
		if cfg.Exports.SocketIO == nil {
			cfg.Exports.SocketIO = &app.SocketIOExport{}
		}
		cfg.Exports.SocketIO.URL = *socketFlag
	}
	if set["summary"] {
		cfg.Summary = *summaryFlag
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
