package winget

import (
	"errors"
	"strings"
)

var (
	// ErrHeaderNotFound is returned when no table header line is present
	// in winget output
	ErrHeaderNotFound = errors.New("could not find table header line")
)

// Banner fragments winget prints between table sections. Matched as
// substrings so leading counts and trailing punctuation don't matter.
const (
	explicitBanner = "require explicit targeting"
	unknownBanner  = "version numbers that cannot be determined"
	summaryBanner  = "upgrades available"
)

// CleanText normalizes a table cell: truncation ellipses and the
// encoding artifacts winget emits on non-UTF-8 consoles are stripped,
// and runs of whitespace collapse to single spaces.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "…", "...")
	text = strings.ReplaceAll(text, "«", "")
	text = strings.ReplaceAll(text, "à", "")
	text = strings.ReplaceAll(text, "​", "")
	return strings.Join(strings.Fields(text), " ")
}

// ParseFixedWidth slices a fixed-width table line at the given column
// start offsets, cleaning each cell. Offsets must be ascending and start
// at 0. Lines shorter than an offset yield empty cells for the remaining
// columns rather than an error.
func ParseFixedWidth(line string, offsets []int) []string {
	runes := []rune(line)
	values := make([]string, 0, len(offsets))
	for i, start := range offsets {
		end := len(runes)
		if i < len(offsets)-1 {
			end = offsets[i+1]
		}
		if start > len(runes) {
			start = len(runes)
		}
		if end > len(runes) {
			end = len(runes)
		}
		values = append(values, CleanText(string(runes[start:end])))
	}
	return values
}

// isHeaderLine reports whether a line is a winget table header. Upgrade
// tables additionally carry an Available column.
func isHeaderLine(line string, needAvailable bool) bool {
	if !strings.Contains(line, "Name") || !strings.Contains(line, "Id") || !strings.Contains(line, "Version") {
		return false
	}
	if needAvailable && !strings.Contains(line, "Available") {
		return false
	}
	return true
}

// headerOffsets derives column start offsets from a header line. The
// Name column always starts at 0; the remaining offsets are the
// positions of the column titles in the header. Source is optional and
// only included when present.
func headerOffsets(header string, cols ...string) []int {
	offsets := []int{0}
	for _, col := range cols {
		idx := strings.Index(header, col)
		if idx < 0 {
			continue
		}
		offsets = append(offsets, idx)
	}
	return offsets
}

// isSeparatorLine matches the dashed rule winget prints under headers.
func isSeparatorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && strings.Trim(trimmed, "-") == ""
}

// ParseListOutput parses `winget list` output into packages. Rows
// without an id are dropped.
func ParseListOutput(output string) ([]Package, error) {
	lines := strings.Split(output, "\n")

	headerIdx := -1
	for i, line := range lines {
		if isHeaderLine(line, false) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, ErrHeaderNotFound
	}

	offsets := headerOffsets(lines[headerIdx], "Id", "Version", "Source")

	var packages []Package
	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" || isSeparatorLine(line) {
			continue
		}
		values := ParseFixedWidth(line, offsets)
		if len(values) < 3 || values[1] == "" {
			continue
		}
		pkg := Package{
			Name:    values[0],
			ID:      values[1],
			Version: values[2],
		}
		if len(values) > 3 {
			pkg.Source = values[3]
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}

// ParseUpgradeOutput parses `winget list --upgrade-available` output
// into an UpgradeReport. The regular section runs from the main header
// to the first blank line or the explicit-targeting banner; the explicit
// section has its own header and ends at the unknown-versions banner.
// Packages whose installed version is unknown are split out of the
// regular section into Unknown.
func ParseUpgradeOutput(output string) (*UpgradeReport, error) {
	lines := strings.Split(output, "\n")

	headerIdx := -1
	for i, line := range lines {
		if isHeaderLine(line, true) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, ErrHeaderNotFound
	}

	offsets := headerOffsets(lines[headerIdx], "Id", "Version", "Available", "Source")
	report := &UpgradeReport{}

	// Regular section: rows between the header and the first blank line
	// or the explicit-targeting banner.
	i := headerIdx + 1
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" || strings.Contains(line, explicitBanner) {
			break
		}
		if isSeparatorLine(line) || strings.Contains(line, summaryBanner) {
			continue
		}
		update, ok := parseUpgradeRow(line, offsets)
		if !ok {
			continue
		}
		if update.UnknownVersion {
			report.Unknown = append(report.Unknown, update)
		} else {
			report.Regular = append(report.Regular, update)
		}
	}

	// Explicit section: introduced by its own banner and header.
	explicitIdx := -1
	for j := i; j < len(lines); j++ {
		if strings.Contains(lines[j], explicitBanner) {
			explicitIdx = j
			break
		}
	}
	if explicitIdx == -1 {
		return report, nil
	}

	var explicitOffsets []int
	inRows := false
	for _, line := range lines[explicitIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, unknownBanner) {
			break
		}
		if isHeaderLine(line, true) {
			explicitOffsets = headerOffsets(line, "Id", "Version", "Available", "Source")
			continue
		}
		if isSeparatorLine(line) {
			inRows = explicitOffsets != nil
			continue
		}
		if !inRows || strings.Contains(line, summaryBanner) {
			continue
		}
		update, ok := parseUpgradeRow(line, explicitOffsets)
		if !ok {
			continue
		}
		update.ExplicitTargeting = true
		update.UnknownVersion = false
		report.Explicit = append(report.Explicit, update)
	}

	return report, nil
}

// parseUpgradeRow parses a single upgrade table row. Rows without an id
// or an available version are rejected.
func parseUpgradeRow(line string, offsets []int) (PackageUpdate, bool) {
	values := ParseFixedWidth(line, offsets)
	if len(values) < 4 || values[1] == "" || values[3] == "" {
		return PackageUpdate{}, false
	}

	update := PackageUpdate{
		Package: Package{
			Name:    values[0],
			ID:      values[1],
			Version: values[2],
		},
		Available:      values[3],
		UnknownVersion: IsUnknownVersion(values[2]),
	}
	if len(values) > 4 {
		update.Source = values[4]
	}

	if update.Name == "" && update.ID == "" && update.Version == "" && update.Available == "" {
		return PackageUpdate{}, false
	}
	return update, true
}
