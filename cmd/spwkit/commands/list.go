package commands

import (
	"github.com/danmuck/spwkit/internal/inspect"
	"github.com/spf13/cobra"
)

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered schemas",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect.PrintRegistry(cmd.OutOrStdout(), g.registry, g.format)
		},
	}
}

func newDescribeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <schema>",
		Short: "Show the field layout and windows of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.registry.Get(args[0])
			if err != nil {
				return err
			}
			return inspect.PrintSchema(cmd.OutOrStdout(), s, g.format)
		},
	}
}
