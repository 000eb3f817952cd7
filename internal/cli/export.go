package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [category]",
		Short: "Dump memories, expired included, for backup or migration",
		Args:  cobra.MaximumNArgs(1),
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	var category string
	if len(args) > 0 {
		category = args[0]
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	memories, err := s.Export(cmd.Context(), category)
	if err != nil {
		exitErr("export", err)
	}
	printResult(memories)
}
