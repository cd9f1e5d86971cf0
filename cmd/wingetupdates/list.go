package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/logger"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/output"
	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

var (
	// listSource limits the listing to packages from one source
	listSource string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	Long: `List all packages winget knows about on this machine.

Examples:
  wingetupdates list                  List every installed package
  wingetupdates list --source winget  List packages from the winget source only`,
	Run: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "Only show packages from this source (e.g. winget, msstore)")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	runner := winget.NewRunner(
		winget.WithBinary(cfg.Winget.Binary),
		winget.WithTimeout(cfg.WingetTimeout()),
	)

	packages, err := runner.List()
	if err != nil {
		logger.Error("listing packages: %v", err)
		os.Exit(1)
	}

	packages = filterBySource(packages, listSource)

	if len(packages) == 0 {
		logger.Info("No packages found")
		return
	}

	fmt.Println()
	output.Header.Println("Installed Packages")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tSOURCE")
	for _, p := range packages {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Version, p.Source)
	}
	w.Flush()

	fmt.Println()
	output.Info.Printf("Total: %d package(s)\n", len(packages))
}

// filterBySource keeps packages from the given source. An empty source
// keeps everything; matching ignores case.
func filterBySource(packages []winget.Package, source string) []winget.Package {
	if source == "" {
		return packages
	}
	filtered := make([]winget.Package, 0, len(packages))
	for _, p := range packages {
		if strings.EqualFold(p.Source, source) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
