package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/logger"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/output"
	"github.com/wingettools/wingetupdatesinstaller/internal/updates"
	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

var (
	// checkForce ignores cache when checking
	checkForce bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for available updates",
	Long: `Check for available package updates and record them as pending.

Results are cached; use --force to query winget again.

Examples:
  wingetupdates check          Check using the cache when fresh
  wingetupdates check --force  Check ignoring the cache`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkForce, "force", false, "Ignore cache when checking")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	checker, err := newChecker(cfg)
	if err != nil {
		logger.Error("failed to initialize checker: %v", err)
		os.Exit(1)
	}

	result, err := checker.Check(checkForce)
	if err != nil {
		logger.Error("failed to check for updates: %v", err)
		os.Exit(1)
	}

	displayCheckResult(result)
}

// displayCheckResult formats and displays an update check
func displayCheckResult(result *updates.Result) {
	report := result.Report

	fmt.Println()
	header := "Available Updates"
	if result.FromCache {
		header += output.Sprintf(output.Dim, " (cached)")
	}
	output.Header.Println(header)
	fmt.Println()

	if report.Total() == 0 {
		output.Success.Println("  All packages are up to date")
		fmt.Println()
		return
	}

	for _, u := range report.Regular {
		printUpdate(u, output.Upgradable)
	}

	if len(report.Explicit) > 0 {
		fmt.Println()
		output.Warning.Println("  Require explicit targeting:")
		for _, u := range report.Explicit {
			printUpdate(u, output.Explicit)
		}
	}

	if len(report.Unknown) > 0 {
		fmt.Println()
		output.Dim.Println("  Version could not be determined:")
		for _, u := range report.Unknown {
			printUpdate(u, output.Unknown)
		}
	}

	fmt.Println()
	output.Info.Printf("Found %d update(s) available\n", report.Total())
	if result.Excluded > 0 {
		output.Excluded.Printf("%d update(s) excluded by rules\n", result.Excluded)
	}
	if result.HeldBack > 0 {
		output.Pinned.Printf("%d update(s) held back by version pins\n", result.HeldBack)
	}
	output.Info.Println("Use 'wingetupdates install --all' to install them")
}

// printUpdate prints a single update line
func printUpdate(u winget.PackageUpdate, c *color.Color) {
	available := u.Available
	if u.UnknownVersion {
		available = "unknown"
	}
	fmt.Printf("  %s %s\n",
		output.FormatPackage(u.Name, u.ID),
		output.Sprintf(c, "%s → %s", u.Version, available))
}
