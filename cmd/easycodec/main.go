package main

import (
	"os"

	"github.com/wippyai/wasm-contract-sdk/cmd/easycodec/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
