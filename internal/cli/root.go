package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/roh-tools/trailbulk/internal/cli/add"
	"github.com/roh-tools/trailbulk/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trailbulk",
		Short: "Trailbulk - Bulk asset scanner for Trail reservations",
		Long: `Trailbulk adds assets to a Trail reservation in bulk by driving real
browser sessions against the reservation's collect form. Barcodes are read
from a CSV file and distributed across a pool of concurrent sessions, each
of which logs in once and is reused for every barcode it scans.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	// Persistent flags, each bound into viper so the config file and
	// TRAIL_* environment variables can supply them too
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trailbulk.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (json, yaml, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output, log errors only")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "timeout for page loads and scan confirmations")

	for _, name := range []string{"output", "verbose", "quiet", "no-color", "timeout"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	rootCmd.AddCommand(add.NewAddCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// initConfig loads configuration and installs the logger
func initConfig(cmd *cobra.Command) error {
	// A .env file in the working directory may carry TRAIL_USERNAME and
	// TRAIL_PASSWORD so credentials stay out of shell history. Missing
	// files are fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default to ~/.trailbulk.yaml
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".trailbulk")
	}

	// TRAIL_NO_COLOR and friends, dashes mapped to underscores
	viper.SetEnvPrefix("TRAIL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine, anything else is reported
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	setupLogging(cmd)

	return nil
}

// setupLogging installs the process-wide slog logger
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")

	// Quiet wins over verbose so scripted runs stay silent
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	// no-color implies the stream is machine-bound, so log JSON there
	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
		if viper.ConfigFileUsed() != "" {
			slog.Debug("loaded configuration", "file", viper.ConfigFileUsed())
		}
	}
}
