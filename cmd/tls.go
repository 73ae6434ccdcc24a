package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/httpkit/internal/app"
	"github.com/oshokin/httpkit/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tlsCmd = &cobra.Command{
		Use:   "tls",
		Short: "Inspect TLS versions, cipher suites and the effective TLS profile",
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tlsParseCmd = &cobra.Command{
		Use:   "parse {versions}",
		Short: "Parse protocol version strings such as TLSv1.2",
		Long: `Parses every argument as a TLS protocol version and prints the result as YAML.

Versions are written as "TLSv<major>[.<minor>]", for example TLSv1 or TLSv1.3.
The command exits with an error if any argument cannot be parsed.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.ExecuteTLSParseCommand(cmd.OutOrStdout(), args); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse versions: %v", err)
			}
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tlsFilterCmd = &cobra.Command{
		Use:   "filter",
		Short: "Remove weak protocols and cipher suites from lists",
		Long: `Drops SSL protocols, TLSv1 and TLSv1.1, and cipher suites with an export-grade,
anonymous or null key exchange or a NULL, DES, 3DES, RC4 or RC2 bulk cipher.

If no protocol survives, TLSv1.2 is used. If every cipher suite is weak, the list is kept as is.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			protocols, _ := cmd.Flags().GetStringSlice("protocols")
			ciphers, _ := cmd.Flags().GetStringSlice("cipher-suites")

			if err := app.ExecuteTLSFilterCommand(cmd.OutOrStdout(), protocols, ciphers); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to filter: %v", err)
			}
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tlsProfileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Print the TLS profile built from the configuration and flags",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			prepareConfig(cmd)

			if err := app.ExecuteTLSProfileCommand(cmd.OutOrStdout(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to build TLS profile: %v", err)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	tlsFilterCmd.Flags().StringSlice("protocols", nil, "protocols to filter, for example: SSLv3,TLSv1,TLSv1.2.")
	tlsFilterCmd.Flags().StringSlice("cipher-suites", nil, "cipher suite names to filter.")

	tlsCmd.AddCommand(tlsParseCmd, tlsFilterCmd, tlsProfileCmd)

	rootCmd.AddCommand(tlsCmd)
}
