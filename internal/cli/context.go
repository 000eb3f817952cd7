package cli

import (
	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [category]",
		Short: "Assemble recent memories into a token budget",
		Long: "Pack the freshest live memories from a category subtree (or the " +
			"whole store) into a token budget, for pasting into a prompt.",
		Args: cobra.MaximumNArgs(1),
		Run:  runContext,
	}

	cmd.Flags().IntP("budget", "b", 0, "Token budget (default 4000)")

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	budget, _ := cmd.Flags().GetInt("budget")

	var category string
	if len(args) > 0 {
		category = args[0]
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	result, err := s.Context(cmd.Context(), store.ContextParams{
		Category: category,
		Budget:   budget,
	})
	if err != nil {
		exitErr("context", err)
	}
	printResult(result)
}
