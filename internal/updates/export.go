package updates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

// ExportedPackage is a single package entry from a winget export
// manifest.
type ExportedPackage struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
}

// ExportResult describes a completed manifest export.
type ExportResult struct {
	// Path is the manifest file that was written
	Path string `json:"path"`
	// Packages are the entries winget wrote to the manifest
	Packages []ExportedPackage `json:"packages"`
	// NotAvailable lists installed packages no source can provide
	NotAvailable []string `json:"not_available,omitempty"`
}

// exportManifest matches winget's export file format
type exportManifest struct {
	Sources []struct {
		Packages []struct {
			PackageIdentifier string `json:"PackageIdentifier"`
			Version           string `json:"Version,omitempty"`
		} `json:"Packages"`
	} `json:"Sources"`
}

// Export writes a timestamped winget manifest into dir and parses it
// back. The names of installed packages unavailable from any source are
// returned alongside the manifest entries.
func Export(runner winget.Executor, dir string) (*ExportResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("winget_export_%s.json", timestamp))

	notAvailable, err := runner.Export(path)
	if err != nil {
		return nil, fmt.Errorf("failed to export packages: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export manifest: %w", err)
	}

	packages, err := ParseExportManifest(data)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Path:         path,
		Packages:     packages,
		NotAvailable: notAvailable,
	}, nil
}

// ParseExportManifest parses a winget export manifest into package
// entries.
func ParseExportManifest(data []byte) ([]ExportedPackage, error) {
	var manifest exportManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse export manifest: %w", err)
	}

	var packages []ExportedPackage
	for _, source := range manifest.Sources {
		for _, pkg := range source.Packages {
			if pkg.PackageIdentifier == "" {
				continue
			}
			packages = append(packages, ExportedPackage{
				ID:      pkg.PackageIdentifier,
				Version: pkg.Version,
			})
		}
	}
	return packages, nil
}
