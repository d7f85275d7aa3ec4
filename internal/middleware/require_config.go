package middleware

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/repofetch/internal/config"
	"github.com/spf13/cobra"
)

// RequireConfig loads the persistent configuration and stores it in the
// command context for the RunE to pick up.
func RequireConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("missing config: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
