package cli

import (
	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "List memories",
		Long: "List memories under a category subtree, or across the whole store " +
			"when no category is given.",
		Args: cobra.MaximumNArgs(1),
		Run:  runList,
	}

	cmd.Flags().Bool("include-expired", false, "Include expired memories")
	cmd.Flags().StringP("pattern", "p", "", "Glob filter on memory paths, e.g. 'project/*/decisions'")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	includeExpired, _ := cmd.Flags().GetBool("include-expired")
	pattern, _ := cmd.Flags().GetString("pattern")

	var category string
	if len(args) > 0 {
		category = args[0]
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	result, err := s.List(cmd.Context(), store.ListParams{
		Category:       category,
		IncludeExpired: includeExpired,
		Pattern:        pattern,
	})
	if err != nil {
		exitErr("list", err)
	}
	printResult(result)
}
