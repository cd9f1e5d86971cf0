package winget

// Executor defines the interface for winget operations.
// This interface allows for mocking winget in tests and on platforms
// where the binary is unavailable.
type Executor interface {
	// Probe checks that winget is installed and returns its version
	Probe() (string, error)

	// List returns the installed packages
	List() ([]Package, error)

	// ListUpgrades returns the available upgrades grouped by section
	ListUpgrades() (*UpgradeReport, error)

	// Upgrade installs updates for the given packages
	Upgrade(packages []PackageUpdate, silent bool) (string, error)

	// Export writes the installed-package manifest to path and returns
	// the names of packages not available from any source
	Export(path string) ([]string, error)
}
