package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"os"

	"github.com/buger/jsonparser"
	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-contract-sdk/easycodec"
)

func newEncodeCmd() *cobra.Command {
	var (
		bytesKeys []string
		output    string
	)

	c := &cobra.Command{
		Use:   "encode <json>",
		Short: "Encode a JSON object as a container",
		Long: `Encode a flat JSON object as a container, keeping the key order.

Numbers become INT32 records and strings become STRING records. Keys named
with --bytes are BYTES records whose JSON value is base64, the form decode
prints them in.

Example:
  easycodec encode '{"key":"k","field":"","n":7}'
  easycodec encode '{"value":"MTAw"}' --bytes value -o body.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := encodeJSON([]byte(args[0]), bytesKeys)
			if err != nil {
				return err
			}

			data := codec.Marshal()
			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write file: %w", err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return nil
		},
	}

	c.Flags().StringSliceVarP(&bytesKeys, "bytes", "b", nil, "Keys whose base64 string values are BYTES records")
	c.Flags().StringVarP(&output, "output", "o", "", "Write the binary container to a file instead of printing hex")
	return c
}

// encodeJSON converts a flat JSON object to a container in document order.
func encodeJSON(doc []byte, bytesKeys []string) (*easycodec.Codec, error) {
	asBytes := make(map[string]bool, len(bytesKeys))
	for _, k := range bytesKeys {
		asBytes[k] = true
	}

	codec := easycodec.New()
	err := jsonparser.ObjectEach(doc, func(k []byte, v []byte, typ jsonparser.ValueType, _ int) error {
		key, err := jsonparser.ParseString(k)
		if err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}

		switch typ {
		case jsonparser.String:
			s, err := jsonparser.ParseString(v)
			if err != nil {
				return fmt.Errorf("key %s: %w", key, err)
			}
			if !asBytes[key] {
				codec.AddString(key, s)
				return nil
			}
			raw, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return fmt.Errorf("key %s: bytes value is not base64: %w", key, err)
			}
			codec.AddBytes(key, raw)

		case jsonparser.Number:
			n, err := jsonparser.ParseInt(v)
			if err != nil {
				return fmt.Errorf("key %s: %w", key, err)
			}
			if n < math.MinInt32 || n > math.MaxInt32 {
				return fmt.Errorf("key %s: %d does not fit in INT32", key, n)
			}
			codec.AddInt32(key, int32(n))

		default:
			return fmt.Errorf("key %s: %s values are not supported", key, typ)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("encode JSON: %w", err)
	}
	return codec, nil
}
