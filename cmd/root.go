// =============================================================================
// Sales Analytics - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sales-analytics)
//   ├── analyzeCmd (sales-analytics analyze)
//   ├── enrichCmd  (sales-analytics enrich)
//   ├── catalogCmd (sales-analytics catalog)
//   └── versionCmd (sales-analytics version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads config.yaml (or the file given with --config)
//   2. Builds the logger and stores it in the command context
//   3. Creates the output directories named by the configuration
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/logger"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// logLevel overrides the log level of the configuration file.
var logLevel string

// appConfig is the configuration loaded by the root command.
var appConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sales-analytics",
	Short: "Sales Analytics - Analyze pipe-delimited sales transaction logs",
	Long: `Sales Analytics reads a pipe-delimited sales transaction log, cleans and
validates the records, computes revenue views and enriches each transaction
with product metadata from a remote catalog.

Key Features:
  - Tolerant parsing of messy exports (encodings, thousands separators)
  - Region and amount filters, from flags, config or an interactive prompt
  - Region, product, customer and daily revenue views
  - Product catalog enrichment with an offline fallback file
  - Text report and optional XLSX workbook

Example Usage:
  sales-analytics analyze                     # Run the full pipeline
  sales-analytics analyze --interactive       # Ask for filters first
  sales-analytics analyze --region North      # Only North transactions
  sales-analytics enrich --input data/x.txt   # Re-enrich an existing file
  sales-analytics catalog --save              # Refresh the offline catalog`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\n\n❌ Process interrupted by user")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// initApp loads the configuration and installs the logger.
func initApp(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}

	log, err := logger.NewWithOptions(logger.Options{Level: level, Format: cfg.LogFormat})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if err := utils.EnsureDirectories(cfg.OutputDirs()...); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx, log))

	appConfig = cfg
	log.Debug().Str("config", cfgFile).Str("log_level", level).Msg("configuration loaded")
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	// --config flag: A missing default file means built-in defaults; a missing
	// file named explicitly is an error.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigPath,
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// --log-level flag: Overrides log_level from the configuration file.
	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"Log level (debug, info, warn, error)",
	)
}
