package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the easycodec command with its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "easycodec",
		Short: "Inspect and build EasyCodec payloads",
		Long: `easycodec converts between EasyCodec binary containers and JSON.

Containers are what contracts and their host exchange through sys_call:
call headers, call bodies, invocation arguments and iterator rows.`,
		SilenceUsage: true,
	}
	root.AddCommand(newDecodeCmd(), newEncodeCmd())
	return root
}
