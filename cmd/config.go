package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/httpkit/internal/app"
	"github.com/oshokin/httpkit/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after flags are applied",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			prepareConfig(cmd)

			if err := app.ExecuteConfigShowCommand(cmd.OutOrStdout(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to print configuration: %v", err)
			}
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configSetUserAgentCmd = &cobra.Command{
		Use:   "set-user-agent {user-agent}",
		Short: "Store the User-Agent in the configuration file",
		Long: `Writes user_agent to the configuration file, keeping its comments and key order.
The file is created if it does not exist.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			prepareConfig(cmd)

			if err := app.ExecuteSetUserAgentCommand(cmd.Context(), appConfig, args[0]); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to update configuration: %v", err)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configCmd.AddCommand(configShowCmd, configSetUserAgentCmd)

	rootCmd.AddCommand(configCmd)
}
