package winget

import (
	"errors"
	"strings"
	"testing"
)

// Fixtures mirror real winget console output. Column offsets are taken
// from the header line, so rows must stay aligned with it.
const listOutput = `   -
Name               Id                    Version      Source
-------------------------------------------------------------
Mozilla Firefox    Mozilla.Firefox       124.0.1      winget
7-Zip              7zip.7zip             23.01        winget
Local Thing        {GUID-1234}           1.0
`

const upgradeOutput = `Name               Id                    Version      Available    Source
-------------------------------------------------------------------------
Mozilla Firefox    Mozilla.Firefox       124.0.1      125.0.2      winget
7-Zip              7zip.7zip             23.01        24.05        winget
Some App           Vendor.App            Unknown      2.0.0        winget
3 upgrades available.

The following packages have an upgrade available, but require explicit targeting for upgrade:
Name               Id                    Version      Available    Source
-------------------------------------------------------------------------
Legacy Tool        Vendor.Legacy         1.2.3        1.3.0        winget
`

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "Mozilla Firefox",
			expected: "Mozilla Firefox",
		},
		{
			name:     "truncation ellipsis replaced",
			input:    "Microsoft Visual C+…",
			expected: "Microsoft Visual C+...",
		},
		{
			name:     "zero width space removed",
			input:    "7-Zip​",
			expected: "7-Zip",
		},
		{
			name:     "encoding artifacts removed",
			input:    "Tool«à Name",
			expected: "Tool Name",
		},
		{
			name:     "whitespace collapsed",
			input:    "  Some   App\t ",
			expected: "Some App",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFixedWidth(t *testing.T) {
	line := "Mozilla Firefox    Mozilla.Firefox       124.0.1      winget"
	offsets := []int{0, 19, 41, 54}

	values := ParseFixedWidth(line, offsets)
	expected := []string{"Mozilla Firefox", "Mozilla.Firefox", "124.0.1", "winget"}

	if len(values) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(values))
	}
	for i, want := range expected {
		if values[i] != want {
			t.Errorf("value %d: got %q, want %q", i, values[i], want)
		}
	}
}

func TestParseFixedWidthShortLine(t *testing.T) {
	// Lines shorter than the offsets yield empty trailing cells
	values := ParseFixedWidth("Short", []int{0, 19, 41})
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[0] != "Short" || values[1] != "" || values[2] != "" {
		t.Errorf("unexpected values: %v", values)
	}
}

func TestParseListOutput(t *testing.T) {
	packages, err := ParseListOutput(listOutput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(packages) != 3 {
		t.Fatalf("expected 3 packages, got %d: %v", len(packages), packages)
	}

	first := packages[0]
	if first.Name != "Mozilla Firefox" || first.ID != "Mozilla.Firefox" ||
		first.Version != "124.0.1" || first.Source != "winget" {
		t.Errorf("unexpected first package: %+v", first)
	}

	// Packages without a source keep an empty Source field
	local := packages[2]
	if local.ID != "{GUID-1234}" || local.Source != "" {
		t.Errorf("unexpected local package: %+v", local)
	}
}

func TestParseListOutputNoHeader(t *testing.T) {
	_, err := ParseListOutput("no table here\njust noise\n")
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("expected ErrHeaderNotFound, got %v", err)
	}
}

func TestParseUpgradeOutput(t *testing.T) {
	report, err := ParseUpgradeOutput(upgradeOutput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Regular) != 2 {
		t.Fatalf("expected 2 regular upgrades, got %d: %v", len(report.Regular), report.Regular)
	}
	if len(report.Unknown) != 1 {
		t.Fatalf("expected 1 unknown-version upgrade, got %d", len(report.Unknown))
	}
	if len(report.Explicit) != 1 {
		t.Fatalf("expected 1 explicit upgrade, got %d", len(report.Explicit))
	}

	firefox := report.Regular[0]
	if firefox.ID != "Mozilla.Firefox" || firefox.Version != "124.0.1" || firefox.Available != "125.0.2" {
		t.Errorf("unexpected regular upgrade: %+v", firefox)
	}
	if firefox.UnknownVersion || firefox.ExplicitTargeting {
		t.Errorf("regular upgrade misclassified: %+v", firefox)
	}

	unknown := report.Unknown[0]
	if unknown.ID != "Vendor.App" || !unknown.UnknownVersion {
		t.Errorf("unexpected unknown-version upgrade: %+v", unknown)
	}

	explicit := report.Explicit[0]
	if explicit.ID != "Vendor.Legacy" || !explicit.ExplicitTargeting {
		t.Errorf("unexpected explicit upgrade: %+v", explicit)
	}
	if explicit.Available != "1.3.0" {
		t.Errorf("explicit upgrade available version: got %q, want %q", explicit.Available, "1.3.0")
	}
}

func TestParseUpgradeOutputSkipsSummaryRow(t *testing.T) {
	report, err := ParseUpgradeOutput(upgradeOutput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, u := range report.All() {
		if strings.Contains(u.Name, "upgrades available") {
			t.Errorf("summary row leaked into report: %+v", u)
		}
	}
}

func TestParseUpgradeOutputNoExplicitSection(t *testing.T) {
	output := `Name               Id                    Version      Available    Source
-------------------------------------------------------------------------
7-Zip              7zip.7zip             23.01        24.05        winget
`
	report, err := ParseUpgradeOutput(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Regular) != 1 || len(report.Explicit) != 0 || len(report.Unknown) != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestParseUpgradeOutputNoHeader(t *testing.T) {
	_, err := ParseUpgradeOutput("")
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("expected ErrHeaderNotFound, got %v", err)
	}
}

func TestUpgradeReportFind(t *testing.T) {
	report, err := ParseUpgradeOutput(upgradeOutput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Total() != 4 {
		t.Errorf("expected total 4, got %d", report.Total())
	}

	u, ok := report.Find("Vendor.Legacy")
	if !ok || !u.ExplicitTargeting {
		t.Errorf("Find(Vendor.Legacy) = %+v, %v", u, ok)
	}

	if _, ok := report.Find("Missing.Package"); ok {
		t.Error("Find should not match a missing id")
	}
}
