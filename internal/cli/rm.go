package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a memory",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	if err := s.Remove(cmd.Context(), args[0]); err != nil {
		exitErr("rm", err)
	}
	fmt.Printf("Removed %s\n", args[0])
}
