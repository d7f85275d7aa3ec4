package internal

import (
	"github.com/MrSnakeDoc/repofetch/internal/config"
	"github.com/MrSnakeDoc/repofetch/internal/fetch"
	"github.com/MrSnakeDoc/repofetch/internal/middleware"
	"github.com/spf13/cobra"
)

func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [channel-url...]",
		Short: "Fetch channel index documents into the local cache",
		Long: `Fetch the index documents of one or more channels into the local cache.

A conditional request is sent per channel subdir: if the remote document is
unchanged the cached copy is reused without downloading it again.

Examples:
  repofetch fetch https://conda.anaconda.org/conda-forge
  repofetch fetch --subdir noarch https://conda.anaconda.org/bioconda`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			subdirs, _ := cmd.Flags().GetStringSlice("subdir")
			if fn, _ := cmd.Flags().GetString("repodata-fn"); fn != "" {
				cfg.RepodataFn = fn
			}

			return fetch.New(cfg, nil, nil).Execute(cmd.Context(), args, subdirs)
		},
	}

	cmd.Flags().StringSlice("subdir", nil, "Platform subdirs to fetch (default: current platform and noarch)")
	cmd.Flags().String("repodata-fn", "", "Index document filename (default: repodata.json)")

	return cmd
}
