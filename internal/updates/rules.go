package updates

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

// Error variables for rules errors
var (
	// ErrRuleConflict is returned when a rule both pins and excludes a package
	ErrRuleConflict = errors.New("rule cannot both pin and exclude a package")
	// ErrInvalidPin is returned when a pinned version is not a usable version
	ErrInvalidPin = errors.New("pinned version is not a valid version")
)

// Rule controls how a single package is treated during update checks.
type Rule struct {
	// Exclude drops the package from upgrade reports entirely
	Exclude bool `toml:"exclude,omitempty"`
	// Pin caps upgrades at the given version; newer available versions
	// are held back
	Pin string `toml:"pin,omitempty"`
}

// Rules is the per-package rule set, keyed by winget package id.
// Loaded from a TOML file of the form:
//
//	[packages."7zip.7zip"]
//	pin = "24.05"
//
//	[packages."Vendor.Telemetry"]
//	exclude = true
type Rules struct {
	Packages map[string]Rule `toml:"packages"`
}

// LoadRules loads the rules file. A missing file yields an empty rule
// set; a malformed one is an error.
func LoadRules(path string) (*Rules, error) {
	rules := &Rules{Packages: make(map[string]Rule)}

	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := toml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if rules.Packages == nil {
		rules.Packages = make(map[string]Rule)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate checks every rule for consistency.
func (r *Rules) Validate() error {
	for id, rule := range r.Packages {
		if rule.Exclude && rule.Pin != "" {
			return fmt.Errorf("package %s: %w", id, ErrRuleConflict)
		}
		if rule.Pin != "" && winget.IsUnknownVersion(rule.Pin) {
			return fmt.Errorf("package %s: %w: %q", id, ErrInvalidPin, rule.Pin)
		}
	}
	return nil
}

// Excluded reports whether a package id is excluded from updates.
func (r *Rules) Excluded(id string) bool {
	return r.Packages[id].Exclude
}

// HeldBack reports whether an available version is held back by a pin.
// A package is held back when its pin is set and the available version
// is newer than the pin.
func (r *Rules) HeldBack(id, available string) bool {
	pin := r.Packages[id].Pin
	if pin == "" {
		return false
	}
	return winget.CompareVersions(available, pin) > 0
}

// Len returns the number of configured rules.
func (r *Rules) Len() int {
	return len(r.Packages)
}
