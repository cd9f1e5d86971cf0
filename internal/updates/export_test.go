package updates

import (
	"os"
	"strings"
	"testing"

	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

const exportManifestJSON = `{
  "$schema": "https://aka.ms/winget-packages.schema.2.0.json",
  "CreationDate": "2026-08-30T12:00:00.000-00:00",
  "Sources": [
    {
      "Packages": [
        {"PackageIdentifier": "Mozilla.Firefox", "Version": "125.0.2"},
        {"PackageIdentifier": "7zip.7zip", "Version": "24.05"},
        {"PackageIdentifier": ""}
      ],
      "SourceDetails": {"Name": "winget"}
    }
  ]
}`

func TestParseExportManifest(t *testing.T) {
	packages, err := ParseExportManifest([]byte(exportManifestJSON))
	if err != nil {
		t.Fatalf("ParseExportManifest: %v", err)
	}

	if len(packages) != 2 {
		t.Fatalf("expected 2 packages, got %d: %v", len(packages), packages)
	}
	if packages[0].ID != "Mozilla.Firefox" || packages[0].Version != "125.0.2" {
		t.Errorf("unexpected first package: %+v", packages[0])
	}
}

func TestParseExportManifestMalformed(t *testing.T) {
	if _, err := ParseExportManifest([]byte("{broken")); err == nil {
		t.Error("malformed manifest should be an error")
	}
}

func TestExport(t *testing.T) {
	mock := winget.NewMockRunner()
	mock.ExportFunc = func(path string) ([]string, error) {
		if err := os.WriteFile(path, []byte(exportManifestJSON), 0644); err != nil {
			return nil, err
		}
		return []string{"Legacy Driver Bundle"}, nil
	}

	dir := t.TempDir()
	result, err := Export(mock, dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if !strings.HasPrefix(result.Path, dir) {
		t.Errorf("export path %q should be under %q", result.Path, dir)
	}
	if !strings.Contains(result.Path, "winget_export_") || !strings.HasSuffix(result.Path, ".json") {
		t.Errorf("unexpected export file name: %q", result.Path)
	}
	if len(result.Packages) != 2 {
		t.Errorf("expected 2 manifest entries, got %d", len(result.Packages))
	}
	if len(result.NotAvailable) != 1 || result.NotAvailable[0] != "Legacy Driver Bundle" {
		t.Errorf("unexpected not-available list: %v", result.NotAvailable)
	}
}

func TestExportRunnerError(t *testing.T) {
	mock := winget.NewMockRunner()
	mock.ExportFunc = func(path string) ([]string, error) {
		return nil, winget.ErrWingetCommand
	}

	if _, err := Export(mock, t.TempDir()); err == nil {
		t.Error("runner failure should propagate")
	}
}
