package cli

import (
	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/mcpserver"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the store as MCP tools over stdio",
		Long: "Expose the memory store to MCP clients (editors, agents) over " +
			"stdin/stdout. Runs until the client disconnects.",
		Args: cobra.NoArgs,
		Run:  runServe,
	}

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	if err := mcpserver.ServeStdio(mcpserver.New(s)); err != nil {
		exitErr("serve", err)
	}
}
