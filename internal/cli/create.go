package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "create <path> [content]",
		Short: "Store a memory",
		Long:  "Store a memory at a slug path. Content can be a positional arg or piped via stdin.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCreate,
	}

	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().String("source", "cli", "Where this memory came from")
	cmd.Flags().String("cite", "", "Comma-separated citations")
	cmd.Flags().String("ttl", "", "Expire after a duration, e.g. 7d, 24h")
	cmd.Flags().String("expires-at", "", "Expire at an RFC3339 timestamp")

	RootCmd.AddCommand(cmd)
}

func splitCommaFlag(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runCreate(cmd *cobra.Command, args []string) {
	tagsStr, _ := cmd.Flags().GetString("tags")
	source, _ := cmd.Flags().GetString("source")
	citeStr, _ := cmd.Flags().GetString("cite")
	ttl, _ := cmd.Flags().GetString("ttl")
	expiresAt, _ := cmd.Flags().GetString("expires-at")

	// Content: positional args after the path, then stdin.
	var content string
	if len(args) > 1 {
		content = strings.Join(args[1:], " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}
	if strings.TrimSpace(content) == "" {
		exitErr("create", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	expires, err := expiryFromFlags(ttl, expiresAt)
	if err != nil {
		exitErr("create", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}

	mem, err := s.Create(cmd.Context(), store.CreateParams{
		Path:      args[0],
		Content:   content,
		Tags:      splitCommaFlag(tagsStr),
		Source:    source,
		Citations: splitCommaFlag(citeStr),
		ExpiresAt: expires,
	})
	if err != nil {
		exitErr("create", err)
	}
	printResult(mem)
}
