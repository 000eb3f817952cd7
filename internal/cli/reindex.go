package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild every category index from the memory files on disk",
		Args:  cobra.NoArgs,
		Run:   runReindex,
	}

	RootCmd.AddCommand(cmd)
}

func runReindex(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	if err := s.Reindex(cmd.Context()); err != nil {
		exitErr("reindex", err)
	}
	fmt.Println("Reindex complete")
}
