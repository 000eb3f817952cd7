package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory and token counts per category",
		Args:  cobra.NoArgs,
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	stats, err := s.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}
	printResult(stats)
}
