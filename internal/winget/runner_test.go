package winget

import (
	"reflect"
	"testing"
	"time"
)

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner()
	if r.Binary() != "winget" {
		t.Errorf("default binary: got %q, want %q", r.Binary(), "winget")
	}
	if r.timeout != DefaultTimeout {
		t.Errorf("default timeout: got %v, want %v", r.timeout, DefaultTimeout)
	}
}

func TestNewRunnerOptions(t *testing.T) {
	r := NewRunner(WithBinary("/usr/local/bin/winget"), WithTimeout(30*time.Second))
	if r.Binary() != "/usr/local/bin/winget" {
		t.Errorf("binary: got %q", r.Binary())
	}
	if r.timeout != 30*time.Second {
		t.Errorf("timeout: got %v", r.timeout)
	}

	// Zero values keep the defaults
	r = NewRunner(WithBinary(""), WithTimeout(0))
	if r.Binary() != "winget" || r.timeout != DefaultTimeout {
		t.Errorf("empty options should keep defaults: %+v", r)
	}
}

func TestBuildUpgradeArgs(t *testing.T) {
	tests := []struct {
		name     string
		packages []PackageUpdate
		silent   bool
		expected []string
	}{
		{
			name: "known version gets pinned",
			packages: []PackageUpdate{
				{Package: Package{ID: "7zip.7zip", Version: "23.01"}, Available: "24.05"},
			},
			expected: []string{"upgrade", "--id", "7zip.7zip", "--version", "24.05"},
		},
		{
			name: "unknown version targeted by id only",
			packages: []PackageUpdate{
				{Package: Package{ID: "Vendor.App", Version: "Unknown"}, Available: "2.0.0", UnknownVersion: true},
			},
			expected: []string{"upgrade", "--id", "Vendor.App"},
		},
		{
			name: "explicit targeting always pins",
			packages: []PackageUpdate{
				{Package: Package{ID: "Vendor.Legacy", Version: "Unknown"}, Available: "1.3.0", UnknownVersion: true, ExplicitTargeting: true},
			},
			expected: []string{"upgrade", "--id", "Vendor.Legacy", "--version", "1.3.0"},
		},
		{
			name: "silent flag appended last",
			packages: []PackageUpdate{
				{Package: Package{ID: "7zip.7zip"}, Available: "24.05"},
			},
			silent:   true,
			expected: []string{"upgrade", "--id", "7zip.7zip", "--version", "24.05", "--silent"},
		},
		{
			name: "multiple packages in order",
			packages: []PackageUpdate{
				{Package: Package{ID: "A.One"}, Available: "1.1"},
				{Package: Package{ID: "B.Two"}, Available: "2.2"},
			},
			expected: []string{"upgrade", "--id", "A.One", "--version", "1.1", "--id", "B.Two", "--version", "2.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildUpgradeArgs(tt.packages, tt.silent)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("BuildUpgradeArgs() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseExportStderr(t *testing.T) {
	stderr := `Installed package is not available from any source: Some Legacy App
Installed package is not available from any source: Driver Bundle
unrelated diagnostic line
`
	names := ParseExportStderr(stderr)
	expected := []string{"Some Legacy App", "Driver Bundle"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("ParseExportStderr() = %v, want %v", names, expected)
	}

	if got := ParseExportStderr(""); got != nil {
		t.Errorf("empty stderr should yield nil, got %v", got)
	}
}
