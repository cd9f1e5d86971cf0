package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/config"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/logger"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/output"
	"github.com/wingettools/wingetupdatesinstaller/internal/sysinfo"
	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that winget is available",
	Long:  `Verify that the winget binary can be found and report its version.`,
	Run:   runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	runner := winget.NewRunner(
		winget.WithBinary(cfg.Winget.Binary),
		winget.WithTimeout(cfg.WingetTimeout()),
	)

	version, err := runner.Probe()
	if err != nil {
		output.PrintError("winget is not available: %v", err)
		os.Exit(1)
	}

	output.PrintSuccess("winget %s found", version)

	if cfg.Updates.Rules != "" {
		if _, err := os.Stat(cfg.Updates.Rules); err != nil {
			output.PrintWarning("rules file %s is not readable", cfg.Updates.Rules)
		} else {
			output.PrintInfo("rules file: %s", cfg.Updates.Rules)
		}
	}

	path, err := config.FindConfigPath()
	if err == nil && path != "" {
		output.PrintInfo("config file: %s", path)
	} else {
		logger.Debug("no config file found, using defaults")
		fmt.Println("Using default configuration")
	}

	fmt.Println()
	output.Header.Println("System Report")
	fmt.Print(systemReport())
}

// systemReport collects and formats the host summary doctor prints
func systemReport() string {
	return sysinfo.Collect().Format()
}
