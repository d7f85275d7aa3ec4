package internal

import (
	"fmt"

	"github.com/MrSnakeDoc/repofetch/internal/logger"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repofetch",
		Short: "Cached fetcher for channel index documents",
		Long: `Repofetch maintains a local validated cache of remote channel index documents.
It performs conditional HTTP requests (If-None-Match / If-Modified-Since) so an
unchanged remote document is never downloaded twice.`,
		Example: `repofetch fetch https://conda.anaconda.org/conda-forge`,
		Run: func(cmd *cobra.Command, _ []string) {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				fmt.Printf("Version: %s (%s)\n", Version, Commit)
				return
			}
			_ = cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.FlagVerbose, _ = cmd.Flags().GetBool("verbose")
			logger.FlagQuiet, _ = cmd.Flags().GetBool("quiet")
			logger.ConfigureLoggerFromFlags()
		},
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.Flags().BoolP("version", "V", false, "Print version information")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug output")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	logger.ConfigureLoggerFromFlags()
	return NewRootCmd().Execute()
}
