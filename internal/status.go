package internal

import (
	"github.com/MrSnakeDoc/repofetch/internal/config"
	"github.com/MrSnakeDoc/repofetch/internal/middleware"
	"github.com/MrSnakeDoc/repofetch/internal/status"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cached channels and their validators",
		Long: `Show a table of all cached channel index documents, their stored HTTP
validators, and whether the cache state is still in sync with the files on disk.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			return status.New(cfg, nil).Execute()
		},
	}
}
