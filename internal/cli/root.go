// Package cli implements the cortex CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/config"
	"github.com/Yeseh/cortex/internal/gitrepo"
	"github.com/Yeseh/cortex/internal/store"
)

var (
	storeFlag  string
	rootFlag   string
	configFlag string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "cortex",
	Short: "Hierarchical file-backed memory for AI agents",
	Long: "cortex stores short markdown memories under slash-separated category\n" +
		"paths, with per-category indexes for cheap listing and pruning.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&storeFlag, "store", "s", "", "Named store from the config registry (default: config's default store)")
	RootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "r", "", "Store root directory (overrides --store, $CORTEX_ROOT)")
	RootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file path (default: $CORTEX_CONFIG or ~/.cortex/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or yaml")
}

// resolveStoreConfig applies the flag > env > config resolution order
// and repo scoping.
func resolveStoreConfig() (config.StoreConfig, error) {
	if rootFlag != "" {
		return config.StoreConfig{Root: rootFlag}, nil
	}
	cfg, err := config.Load(configFlag)
	if err != nil {
		return config.StoreConfig{}, err
	}
	sc, err := cfg.Resolve(storeFlag)
	if err != nil {
		return config.StoreConfig{}, err
	}
	if sc.RepoScoped {
		cwd, err := os.Getwd()
		if err != nil {
			return config.StoreConfig{}, err
		}
		if name, err := gitrepo.DetectName(cwd); err == nil {
			sc.Root = filepath.Join(sc.Root, name)
		}
	}
	return sc, nil
}

func openStore() (*store.Store, error) {
	sc, err := resolveStoreConfig()
	if err != nil {
		return nil, err
	}
	return store.New(store.Options{
		Root:            sc.Root,
		MemoryExtension: sc.MemoryExtension,
		IndexExtension:  sc.IndexExtension,
	})
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
