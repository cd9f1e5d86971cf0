package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/config"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/logger"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/output"
	"github.com/wingettools/wingetupdatesinstaller/internal/updates"
	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

var (
	verbose bool
	quiet   bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "wingetupdates",
	Short: "Windows package update manager",
	Long:  `Check, install and track Windows package updates through the winget CLI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// newChecker wires a Checker from the loaded configuration
func newChecker(cfg *config.Config) (*updates.Checker, error) {
	runner := winget.NewRunner(
		winget.WithBinary(cfg.Winget.Binary),
		winget.WithTimeout(cfg.WingetTimeout()),
	)

	opts := []updates.CheckerOption{updates.WithRunner(runner)}

	if cfg.Updates.Rules != "" {
		rules, err := updates.LoadRules(cfg.Updates.Rules)
		if err != nil {
			return nil, fmt.Errorf("loading rules: %w", err)
		}
		opts = append(opts, updates.WithRules(rules))
	}

	stateDir, err := updates.DefaultStateDir()
	if err != nil {
		return nil, err
	}
	cache, err := updates.NewCache(stateDir, updates.WithTTL(cfg.CacheTTL()))
	if err != nil {
		return nil, err
	}
	opts = append(opts, updates.WithCache(cache), updates.WithStateDir(stateDir))

	return updates.NewChecker(opts...)
}

// loadConfig loads the configuration and exits on failure
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
