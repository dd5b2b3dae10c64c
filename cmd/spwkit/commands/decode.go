package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/spwkit/internal/inspect"
	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/spf13/cobra"
)

func newDecodeCmd(g *globals) *cobra.Command {
	var (
		file       string
		headerOnly bool
	)
	cmd := &cobra.Command{
		Use:   "decode <schema> [HEX...]",
		Short: "Dismantle wire bytes into a packet",
		Long: `Dismantle wire bytes into the fields, payload and checksum state of a
packet. Bytes are read from the hex arguments, or from --file as raw binary.

Input shorter than the header is zero padded; a warning is printed and the
payload and checksum results must not be trusted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.registry.New(args[0])
			if err != nil {
				return err
			}
			data, err := decodeInput(file, args[1:])
			if err != nil {
				return err
			}

			if headerOnly {
				err = p.FromBytesHeaderOnly(data)
			} else {
				err = p.FromBytes(data)
			}
			var short *protocol.ShortInputError
			switch {
			case errors.As(err, &short):
				cmd.PrintErrf("warning: %v\n", short)
			case err != nil:
				return err
			}
			return inspect.PrintPacket(cmd.OutOrStdout(), p, g.format)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read raw bytes from file")
	cmd.Flags().BoolVar(&headerOnly, "header-only", false, "Dismantle only the header and ignore the rest")
	return cmd
}

func decodeInput(file string, hexArgs []string) ([]byte, error) {
	switch {
	case file != "" && len(hexArgs) > 0:
		return nil, fmt.Errorf("give either hex arguments or --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	case len(hexArgs) == 0:
		return nil, fmt.Errorf("no input bytes")
	}
	return inspect.ParseHex(strings.Join(hexArgs, " "))
}
