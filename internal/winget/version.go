package winget

import (
	"regexp"
	"strconv"
	"strings"
)

// Pre-release suffix priorities (lower = earlier in release cycle)
var suffixPriority = map[string]int{
	"alpha":   -4,
	"beta":    -3,
	"preview": -2,
	"rc":      -1,
	"":        0, // release version
}

// versionSuffixRegex matches suffixes like -rc1, .beta2, -preview.3
var versionSuffixRegex = regexp.MustCompile(`(?i)[-._](alpha|beta|preview|rc)\.?(\d*)$`)

// IsUnknownVersion reports whether a version cell from winget output
// denotes an undeterminable installed version. winget prints "Unknown"
// or a '<'-qualified bound in that case.
func IsUnknownVersion(v string) bool {
	return strings.Contains(v, "<") || strings.Contains(v, "Unknown")
}

// parseVersion breaks a version string into components for comparison
// Returns: numeric parts, suffix type, suffix num
func parseVersion(v string) ([]int, string, int) {
	v = strings.TrimSpace(v)

	suffixType := ""
	suffixNum := 0
	if matches := versionSuffixRegex.FindStringSubmatch(v); matches != nil {
		suffixType = strings.ToLower(matches[1])
		if matches[2] != "" {
			suffixNum, _ = strconv.Atoi(matches[2])
		}
		v = versionSuffixRegex.ReplaceAllString(v, "")
	}

	parts := strings.Split(v, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		// Handle letter suffixes in version numbers (e.g., 1.0a -> 1, 0)
		numStr := strings.TrimRight(p, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		numStr = strings.TrimLeft(numStr, "vV")
		if numStr == "" {
			nums[i] = 0
		} else {
			nums[i], _ = strconv.Atoi(numStr)
		}
	}

	return nums, suffixType, suffixNum
}

// compareIntSlices compares two slices of integers
func compareIntSlices(a, b []int) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	for i := 0; i < maxLen; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}

		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// CompareVersions compares two winget-style version strings.
// Returns: -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2.
// Unknown versions compare below every known version.
func CompareVersions(v1, v2 string) int {
	u1, u2 := IsUnknownVersion(v1), IsUnknownVersion(v2)
	switch {
	case u1 && u2:
		return 0
	case u1:
		return -1
	case u2:
		return 1
	}

	nums1, suffix1, suffixNum1 := parseVersion(v1)
	nums2, suffix2, suffixNum2 := parseVersion(v2)

	if cmp := compareIntSlices(nums1, nums2); cmp != 0 {
		return cmp
	}

	// Compare suffix types (alpha < beta < preview < rc < release)
	priority1 := suffixPriority[suffix1]
	priority2 := suffixPriority[suffix2]
	if priority1 < priority2 {
		return -1
	}
	if priority1 > priority2 {
		return 1
	}

	if suffixNum1 < suffixNum2 {
		return -1
	}
	if suffixNum1 > suffixNum2 {
		return 1
	}

	return 0
}
