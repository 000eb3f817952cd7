package cli

import (
	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete expired memories",
		Args:  cobra.NoArgs,
		Run:   runPrune,
	}

	cmd.Flags().Bool("dry-run", false, "Report what would be pruned without deleting")

	RootCmd.AddCommand(cmd)
}

func runPrune(cmd *cobra.Command, args []string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	result, err := s.Prune(cmd.Context(), store.PruneParams{DryRun: dryRun})
	if err != nil {
		exitErr("prune", err)
	}
	printResult(result)
}
