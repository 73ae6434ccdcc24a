package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/httpkit/internal/app"
	"github.com/oshokin/httpkit/internal/config"
	"github.com/oshokin/httpkit/internal/logger"
	"github.com/oshokin/httpkit/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "httpkit [flags] {urls}",
		Short: "Fetch URLs through a TLS-hardened, pooled HTTP client.",
		Long: `httpkit runs a sequence of HTTP GET requests through a pooled client
with a configurable TLS profile, reporting ordered progress for every exchange.

It supports:
- Restricting TLS protocol versions and cipher suites, with weak entries excluded
- Connection pooling limits and time to live
- Per-tag log priorities for wire and header dumps
- Saving response bodies to a folder

URLs may be given as arguments or listed one per line in an input file.`,
		Version:          version.Short(),
		Args:             cobra.ArbitraryArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			prepareConfig(cmd)

			inputFile, _ := cmd.Flags().GetString("input-file")
			if len(args) == 0 && inputFile == "" {
				_ = cmd.Help()

				return
			}

			urls, err := app.ResolveURLs(args, inputFile)
			if err != nil {
				logger.Fatalf(cmd.Context(), "Failed to collect URLs: %v", err)
			}

			app.ExecuteRootCommand(cmd.Context(), appConfig, urls)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	persistentFlags := rootCmd.PersistentFlags()

	persistentFlags.StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	persistentFlags.StringP(
		"log-level",
		"l",
		"",
		"log level: debug, info, warn, error.")

	persistentFlags.StringP(
		"user-agent",
		"u",
		"",
		"User-Agent sent with requests that have none.")

	persistentFlags.StringSlice(
		"tls-versions",
		nil,
		"enabled TLS protocols, for example: TLSv1.2,TLSv1.3.")

	persistentFlags.StringSlice(
		"ciphers",
		nil,
		"enabled cipher suites by IANA name.")

	persistentFlags.Bool(
		"exclude-weak",
		true,
		"drop weak protocols and cipher suites from the lists.")

	persistentFlags.StringP(
		"timeout",
		"t",
		"",
		"timeout of a whole request, for example: 30s, 2m.")

	persistentFlags.String(
		"progress-step",
		"",
		"bytes between progress updates, for example: 2KiB, 64KB.")

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save response bodies (the path will be created if it doesn’t exist).")

	rootCmdFlags.StringP(
		"input-file",
		"i",
		"",
		"file with URLs to fetch, one per line.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}
}

// prepareConfig applies flags to the loaded configuration and sets up logging.
func prepareConfig(cmd *cobra.Command) {
	if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	if _, err := app.ConfigureLogging(appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to configure logging: %v", err)
	}
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("user-agent"); flag != nil && flag.Changed {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}

	if flag := flags.Lookup("tls-versions"); flag != nil && flag.Changed {
		cfg.TLSVersions, _ = flags.GetStringSlice("tls-versions")
	}

	if flag := flags.Lookup("ciphers"); flag != nil && flag.Changed {
		cfg.Ciphers, _ = flags.GetStringSlice("ciphers")
	}

	if flag := flags.Lookup("exclude-weak"); flag != nil && flag.Changed {
		cfg.ExcludeWeak, _ = flags.GetBool("exclude-weak")
	}

	if flag := flags.Lookup("timeout"); flag != nil && flag.Changed {
		cfg.RequestTimeout, _ = flags.GetString("timeout")
	}

	if flag := flags.Lookup("progress-step"); flag != nil && flag.Changed {
		cfg.ProgressStep, _ = flags.GetString("progress-step")
	}

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	return config.ValidateConfig(cfg)
}
