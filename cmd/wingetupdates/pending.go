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
	// pendingClear removes all tracked updates
	pendingClear bool
	// pendingStatus filters the listing by status
	pendingStatus string
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show tracked pending updates",
	Long: `Show updates recorded by previous checks and their install status.

Examples:
  wingetupdates pending                    List all tracked updates
  wingetupdates pending --status failed    List failed installs only
  wingetupdates pending --clear            Forget all tracked updates`,
	Run: runPending,
}

func init() {
	pendingCmd.Flags().BoolVar(&pendingClear, "clear", false, "Remove all tracked updates")
	pendingCmd.Flags().StringVar(&pendingStatus, "status", "", "Filter by status (pending, installed, failed, skipped)")

	rootCmd.AddCommand(pendingCmd)
}

func runPending(cmd *cobra.Command, args []string) {
	stateDir, err := updates.DefaultStateDir()
	if err != nil {
		logger.Error("resolving state directory: %v", err)
		os.Exit(1)
	}

	pending, err := updates.NewPendingList(stateDir)
	if err != nil {
		logger.Error("failed to load pending list: %v", err)
		os.Exit(1)
	}

	if pendingClear {
		if err := pending.Clear(); err != nil {
			logger.Error("failed to clear pending list: %v", err)
			os.Exit(1)
		}
		output.PrintSuccess("Pending list cleared")
		return
	}

	var list []updates.PendingUpdate
	if pendingStatus != "" {
		status := updates.UpdateStatus(pendingStatus)
		if !updates.IsValidStatus(status) {
			logger.Error("unknown status %q", pendingStatus)
			os.Exit(1)
		}
		list = pending.ListByStatus(status)
	} else {
		list = pending.List()
	}

	displayPendingUpdates(list)
}

// displayPendingUpdates formats and displays tracked updates
func displayPendingUpdates(list []updates.PendingUpdate) {
	if len(list) == 0 {
		logger.Info("No pending updates")
		return
	}

	fmt.Println()
	output.Header.Println("Pending Updates")
	fmt.Println()

	for _, u := range list {
		output.Package.Printf("  %s\n", u.ID)
		fmt.Printf("    Version: %s → %s\n", u.CurrentVersion, u.NewVersion)
		fmt.Printf("    Status:  %s\n", output.FormatStatus(string(u.Status)))
		if u.Error != "" {
			output.Error.Printf("    Error:   %s\n", u.Error)
		}
		fmt.Printf("    Detected: %s\n", u.DetectedAt.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}

	output.Info.Printf("Total: %d update(s)\n", len(list))
}
