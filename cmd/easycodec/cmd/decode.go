package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-contract-sdk/easycodec"
)

func newDecodeCmd() *cobra.Command {
	var (
		file    string
		records bool
	)

	c := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a container to JSON",
		Long: `Decode a container given as hex or read from a binary file.

Example:
  easycodec decode 636d656376312e30ffffffffffffffff00000000
  easycodec decode --file args.bin --records`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := decodeInput(file, args)
			if err != nil {
				return err
			}

			codec, err := easycodec.Decode(data)
			if err != nil {
				return fmt.Errorf("decode container: %w", err)
			}

			out := cmd.OutOrStdout()
			if records {
				for _, r := range codec.Records() {
					fmt.Fprintf(out, "%-6s %-6s %s = %s\n", r.KeyType, r.Value.Type(), r.Key, renderValue(r.Value))
				}
				return nil
			}

			text, err := codec.ToJSON()
			if err != nil {
				return fmt.Errorf("render JSON: %w", err)
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Read the container from a binary file")
	c.Flags().BoolVarP(&records, "records", "r", false, "List records with their key and value types")
	return c
}

func decodeInput(file string, args []string) ([]byte, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a hex argument or --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	case len(args) == 1:
		data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(args[0]), "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse hex: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("nothing to decode: give a hex argument or --file")
	}
}

func renderValue(v easycodec.Value) string {
	switch v := v.(type) {
	case easycodec.Int32:
		return fmt.Sprintf("%d", int32(v))
	case easycodec.String:
		return fmt.Sprintf("%q", string(v))
	case easycodec.Bytes:
		return hex.EncodeToString(v)
	case easycodec.Opaque:
		return hex.EncodeToString(v.Data)
	default:
		return ""
	}
}
