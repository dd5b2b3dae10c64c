// Package commands implements the spwkit command line.
package commands

import (
	"fmt"
	"strings"

	"github.com/danmuck/spwkit/internal/config"
	"github.com/danmuck/spwkit/internal/inspect"
	"github.com/danmuck/spwkit/internal/logging"
	"github.com/danmuck/spwkit/internal/observability"
	"github.com/danmuck/spwkit/internal/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// globals holds the persistent flags and the state resolved from them before
// a subcommand runs.
type globals struct {
	configPath  string
	schemaFiles []string
	logLevel    string
	output      string
	metricsFile string

	cfg      config.ToolConfig
	format   inspect.Format
	registry *portfolio.Registry
}

// Execute runs the spwkit command tree.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "spwkit",
		Short: "SpaceWire, RMAP and PUS header codec",
		Long: `spwkit builds, encodes and decodes bit-level packet headers for SpaceWire,
RMAP and CCSDS/PUS.

Built-in prototypes are always available; more schemas can be loaded from
TOML files with --schemas or the schema_files key of the tool config.

Use "spwkit [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.ConfigureRuntime()
			return g.resolve(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.metricsFile == "" {
				return nil
			}
			if err := observability.WriteTextfile(g.metricsFile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			log.Debug().Str("path", g.metricsFile).Msg("metrics written")
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "Tool config file (TOML)")
	flags.StringSliceVar(&g.schemaFiles, "schemas", nil, "Extra schema definition files (TOML)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level (trace|debug|info|warn|error|off)")
	flags.StringVarP(&g.output, "output", "o", "", "Output format ("+inspect.FormatNames("|")+")")
	flags.StringVar(&g.metricsFile, "metrics-file", "", "Write prometheus metrics to this file on exit")

	root.AddCommand(
		newListCmd(g),
		newDescribeCmd(g),
		newEncodeCmd(g),
		newDecodeCmd(g),
		newConfigCmd(),
		newVersionCmd(),
	)
	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

// resolve merges the tool config with the flags and loads the registry.
// Flags win over the config file.
func (g *globals) resolve(cmd *cobra.Command) error {
	g.cfg = config.DefaultToolConfig()
	if g.configPath != "" {
		cfg, err := config.LoadToolConfig(g.configPath)
		if err != nil {
			return err
		}
		g.cfg = cfg
	}

	level := g.cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = g.logLevel
	}
	if g.configPath != "" || cmd.Flags().Changed("log-level") {
		if !logging.SetLevel(level) {
			return fmt.Errorf("invalid log level: %q", level)
		}
	}

	output := g.cfg.Output
	if cmd.Flags().Changed("output") {
		output = g.output
	}
	format, err := inspect.ParseFormat(output)
	if err != nil {
		return err
	}
	g.format = format

	if g.metricsFile == "" {
		g.metricsFile = g.cfg.MetricsFile
	}

	g.registry = portfolio.SpaceWire()
	files := append(append([]string{}, g.cfg.SchemaFiles...), g.schemaFiles...)
	if err := config.LoadInto(g.registry, files...); err != nil {
		return err
	}
	if len(files) > 0 {
		log.Debug().Str("files", strings.Join(files, ",")).Int("schemas", g.registry.Len()).Msg("schema files loaded")
	}
	return nil
}
