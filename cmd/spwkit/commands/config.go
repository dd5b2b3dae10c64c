package commands

import (
	"fmt"

	"github.com/danmuck/spwkit/internal/config"
	"github.com/danmuck/spwkit/internal/portfolio"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and check configuration files",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		kind  string
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = defaultTemplatePath(kind)
			}
			if err := config.WriteTemplate(path, kind, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s config to %s\n", kind, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", config.KindTool, "Template kind (tool|schema)")
	cmd.Flags().StringVar(&path, "path", "", "Destination file (default spwkit.toml or schemas.toml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check tool config or schema files",
		Long: `Check tool config or schema files. Schema files are applied in order on
top of the built-in prototypes, so includes are resolved too.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case config.KindTool:
				for _, path := range args {
					if _, err := config.LoadToolConfig(path); err != nil {
						return err
					}
				}
			case config.KindSchema:
				if err := config.LoadInto(portfolio.SpaceWire(), args...); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown config kind: %s", kind)
			}
			for _, path := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", config.KindTool, "File kind (tool|schema)")
	return cmd
}

func defaultTemplatePath(kind string) string {
	if kind == config.KindSchema {
		return "schemas.toml"
	}
	return "spwkit.toml"
}
