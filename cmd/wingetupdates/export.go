package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/logger"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/output"
	"github.com/wingettools/wingetupdatesinstaller/internal/updates"
	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

var (
	// exportDir overrides the configured export directory
	exportDir string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the installed-package manifest",
	Long: `Write a timestamped winget export manifest and report packages
that are not available from any configured source.`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Directory to write the manifest to")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	dir := exportDir
	if dir == "" {
		var err error
		dir, err = cfg.ExportDir()
		if err != nil {
			logger.Error("resolving export directory: %v", err)
			os.Exit(1)
		}
	}

	runner := winget.NewRunner(
		winget.WithBinary(cfg.Winget.Binary),
		winget.WithTimeout(cfg.WingetTimeout()),
	)

	result, err := updates.Export(runner, dir)
	if err != nil {
		logger.Error("export failed: %v", err)
		os.Exit(1)
	}

	output.PrintSuccess("Exported %d package(s) to %s", len(result.Packages), result.Path)

	if len(result.NotAvailable) > 0 {
		fmt.Println()
		output.Warning.Println("Not available from any source:")
		for _, name := range result.NotAvailable {
			output.Dim.Printf("  %s\n", name)
		}
	}
}
