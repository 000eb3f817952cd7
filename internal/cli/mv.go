package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move a memory to a new path",
		Args:  cobra.ExactArgs(2),
		Run:   runMv,
	}

	RootCmd.AddCommand(cmd)
}

func runMv(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	if err := s.Move(cmd.Context(), args[0], args[1]); err != nil {
		exitErr("mv", err)
	}
	fmt.Printf("Moved %s -> %s\n", args[0], args[1])
}
