package internal

import (
	"github.com/MrSnakeDoc/repofetch/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	NewInitCmd,
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewFetchCmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewStatusCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
