package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/logger"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/output"
	"github.com/wingettools/wingetupdatesinstaller/internal/updates"
)

var (
	// installAll selects every available update
	installAll bool
	// installIDs selects specific package ids
	installIDs []string
	// installSilent passes --silent to winget
	installSilent bool
	// installDryRun prints the winget invocation without running it
	installDryRun bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install available updates",
	Long: `Install pending package updates through winget.

Examples:
  wingetupdates install --all                Install every available update
  wingetupdates install --id 7zip.7zip       Install a single update
  wingetupdates install --all --silent       Install without installer prompts
  wingetupdates install --all --dry-run      Show the winget command only`,
	Run: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installAll, "all", false, "Install all available updates")
	installCmd.Flags().StringArrayVar(&installIDs, "id", nil, "Package id to install (repeatable)")
	installCmd.Flags().BoolVar(&installSilent, "silent", false, "Run winget installers silently")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Show the winget command without running it")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) {
	if !installAll && len(installIDs) == 0 {
		cmd.Help()
		return
	}

	cfg := loadConfig()

	checker, err := newChecker(cfg)
	if err != nil {
		logger.Error("failed to initialize checker: %v", err)
		os.Exit(1)
	}

	result, err := checker.Check(false)
	if err != nil {
		logger.Error("failed to check for updates: %v", err)
		os.Exit(1)
	}

	var ids []string
	if !installAll {
		ids = installIDs
	}

	targets, err := updates.SelectTargets(result.Report, ids)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	silent := installSilent || cfg.Updates.Silent

	installResult, err := checker.Install(targets, silent, installDryRun)
	if err != nil {
		logger.Error("install failed: %v", err)
		os.Exit(1)
	}

	displayInstallResult(installResult)
}

// displayInstallResult formats and displays an install run
func displayInstallResult(result *updates.InstallResult) {
	if result.DryRun {
		output.Info.Println("Dry run, winget was not invoked:")
		fmt.Printf("  %s\n", result.Command)
		return
	}

	fmt.Println()
	output.Header.Println("Install Result")
	fmt.Println()

	for _, t := range result.Targets {
		output.Success.Printf("  %s\n", output.FormatPackage(t.Name, t.ID))
	}

	fmt.Println()
	output.PrintSuccess("%d update(s) installed", len(result.Targets))
	if result.Output != "" {
		logger.Debug("winget output:\n%s", result.Output)
	}
}
