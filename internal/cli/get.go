package cli

import (
	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Retrieve a memory",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("include-expired", false, "Return the memory even if expired")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	includeExpired, _ := cmd.Flags().GetBool("include-expired")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	mem, err := s.Get(cmd.Context(), store.GetParams{
		Path:           args[0],
		IncludeExpired: includeExpired,
	})
	if err != nil {
		exitErr("get", err)
	}
	printResult(mem)
}
