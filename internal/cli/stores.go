package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/Yeseh/cortex/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "List the named stores from the config registry",
		Args:  cobra.NoArgs,
		Run:   runStores,
	}

	RootCmd.AddCommand(cmd)
}

type storeInfo struct {
	Name       string `json:"name"`
	Root       string `json:"root"`
	RepoScoped bool   `json:"repo_scoped,omitempty"`
	Default    bool   `json:"default,omitempty"`
}

func runStores(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		exitErr("load config", err)
	}

	names := cfg.Names()
	sort.Strings(names)

	infos := make([]storeInfo, 0, len(names))
	for _, name := range names {
		sc := cfg.Stores[name]
		infos = append(infos, storeInfo{
			Name:       name,
			Root:       sc.Root,
			RepoScoped: sc.RepoScoped,
			Default:    name == cfg.DefaultStore,
		})
	}
	printResult(infos)
}
