package internal

import (
	"github.com/MrSnakeDoc/repofetch/internal/config"
	"github.com/MrSnakeDoc/repofetch/internal/logger"

	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize repofetch configuration",
		Long: `Initialize repofetch configuration.
This command writes a default config.yml to ~/.config/repofetch with the
standard cache location, timeouts and channel settings.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := config.Default().Save(); err != nil {
				return err
			}
			logger.Success("Initialized repofetch configuration in ~/.config/repofetch")
			return nil
		},
	}
}
