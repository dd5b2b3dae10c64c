package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/spwkit/internal/inspect"
	"github.com/danmuck/spwkit/internal/protocol/packet"
	"github.com/spf13/cobra"
)

func newEncodeCmd(g *globals) *cobra.Command {
	var (
		sets     []string
		subs     []string
		payload  string
		describe bool
	)
	cmd := &cobra.Command{
		Use:   "encode <schema>",
		Short: "Compile a packet to wire bytes",
		Long: `Compile a packet of the given schema and print its wire image as hex.

Field values are given as name=value; values accept 0x, 0o and 0b prefixes.
Window contents are given as window=HEX and are applied before --set.

Examples:
  spwkit encode RMAP_WRITE --set logicAddress=0xFE --set address=0x1000 --payload "12 34"
  spwkit encode RMAP_READ --sub instruction=4C --describe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.registry.New(args[0])
			if err != nil {
				return err
			}
			for _, kv := range subs {
				name, raw, err := splitAssign(kv)
				if err != nil {
					return err
				}
				data, err := inspect.ParseHex(raw)
				if err != nil {
					return err
				}
				if err := p.SetSub(name, data); err != nil {
					return err
				}
			}
			if err := applySets(p, sets); err != nil {
				return err
			}
			if payload != "" {
				data, err := inspect.ParseHex(payload)
				if err != nil {
					return err
				}
				p.SetPayload(data)
			}

			if describe {
				return inspect.PrintPacket(cmd.OutOrStdout(), p, g.format)
			}
			wire, err := p.ToBytes()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), inspect.Hex(wire))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field assignment name=value (repeatable)")
	cmd.Flags().StringArrayVar(&subs, "sub", nil, "Window assignment window=HEX (repeatable)")
	cmd.Flags().StringVar(&payload, "payload", "", "Payload bytes as hex")
	cmd.Flags().BoolVar(&describe, "describe", false, "Print the full packet report instead of the wire hex")
	return cmd
}

func applySets(p *packet.Packet, sets []string) error {
	for _, kv := range sets {
		name, raw, err := splitAssign(kv)
		if err != nil {
			return err
		}
		v, err := parseValue(raw)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		if err := p.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

func splitAssign(kv string) (string, string, error) {
	name, value, ok := strings.Cut(kv, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid assignment %q, want name=value", kv)
	}
	return name, strings.TrimSpace(value), nil
}

func parseValue(raw string) (uint32, error) {
	v, err := strconv.ParseUint(strings.ReplaceAll(raw, "_", ""), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", raw, err)
	}
	return uint32(v), nil
}
