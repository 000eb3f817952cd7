package cli

import (
	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update <path>",
		Short: "Update fields of an existing memory",
		Long: "Update one or more fields of a stored memory. Only flags you pass " +
			"are changed; everything else is preserved. Use --clear-expiry to " +
			"remove an expiration without setting a new one.",
		Args: cobra.ExactArgs(1),
		Run:  runUpdate,
	}

	cmd.Flags().String("content", "", "Replace the memory content")
	cmd.Flags().StringP("tags", "t", "", "Replace tags (comma-separated)")
	cmd.Flags().String("cite", "", "Replace citations (comma-separated)")
	cmd.Flags().String("ttl", "", "New expiry as a duration, e.g. 7d")
	cmd.Flags().String("expires-at", "", "New expiry as an RFC3339 timestamp")
	cmd.Flags().Bool("clear-expiry", false, "Remove the expiration")

	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	params := store.UpdateParams{Path: args[0]}

	if cmd.Flags().Changed("content") {
		content, _ := cmd.Flags().GetString("content")
		params.Content = &content
	}
	if cmd.Flags().Changed("tags") {
		raw, _ := cmd.Flags().GetString("tags")
		tags := splitCommaFlag(raw)
		params.Tags = &tags
	}
	if cmd.Flags().Changed("cite") {
		raw, _ := cmd.Flags().GetString("cite")
		citations := splitCommaFlag(raw)
		params.Citations = &citations
	}

	ttl, _ := cmd.Flags().GetString("ttl")
	expiresAt, _ := cmd.Flags().GetString("expires-at")
	expires, err := expiryFromFlags(ttl, expiresAt)
	if err != nil {
		exitErr("update", err)
	}
	params.ExpiresAt = expires
	params.ClearExpiresAt, _ = cmd.Flags().GetBool("clear-expiry")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	mem, err := s.Update(cmd.Context(), params)
	if err != nil {
		exitErr("update", err)
	}
	printResult(mem)
}
