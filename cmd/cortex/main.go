package main

import (
	"os"

	"github.com/Yeseh/cortex/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
