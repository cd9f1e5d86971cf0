package updates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

// Error variables for checker errors
var (
	// ErrUpdateNotFound is returned when a requested package id has no
	// available update
	ErrUpdateNotFound = errors.New("no available update for package")
	// ErrNoTargets is returned when an install is requested with nothing
	// to install
	ErrNoTargets = errors.New("no updates selected for installation")
)

// Result is the outcome of an update check.
type Result struct {
	// Report holds the available upgrades after rules are applied
	Report *winget.UpgradeReport
	// FromCache is true when the report came from the cache rather than
	// a fresh winget invocation
	FromCache bool
	// Excluded counts updates dropped by exclude rules
	Excluded int
	// HeldBack counts updates held back by pin rules
	HeldBack int
}

// Checker coordinates the winget runner, cache, pending list, and rules.
type Checker struct {
	runner   winget.Executor
	cache    *Cache
	pending  *PendingList
	rules    *Rules
	stateDir string
}

// CheckerOption is a functional option for configuring Checker
type CheckerOption func(*Checker) error

// WithRunner sets the winget executor for the checker
func WithRunner(runner winget.Executor) CheckerOption {
	return func(c *Checker) error {
		c.runner = runner
		return nil
	}
}

// WithCache sets a custom cache for the checker
func WithCache(cache *Cache) CheckerOption {
	return func(c *Checker) error {
		c.cache = cache
		return nil
	}
}

// WithPendingList sets a custom pending list for the checker
func WithPendingList(pending *PendingList) CheckerOption {
	return func(c *Checker) error {
		c.pending = pending
		return nil
	}
}

// WithRules sets the package rules for the checker
func WithRules(rules *Rules) CheckerOption {
	return func(c *Checker) error {
		c.rules = rules
		return nil
	}
}

// WithStateDir sets the directory for cache and pending files
func WithStateDir(dir string) CheckerOption {
	return func(c *Checker) error {
		c.stateDir = dir
		return nil
	}
}

// DefaultStateDir returns the directory for cache and pending files,
// honoring XDG_STATE_HOME.
func DefaultStateDir() (string, error) {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "wingetupdates"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "wingetupdates"), nil
}

// NewChecker creates a checker, initializing any collaborator not
// supplied via options.
func NewChecker(opts ...CheckerOption) (*Checker, error) {
	checker := &Checker{}

	// Apply options first to allow overriding stateDir
	for _, opt := range opts {
		if err := opt(checker); err != nil {
			return nil, fmt.Errorf("failed to apply checker option: %w", err)
		}
	}

	if checker.stateDir == "" {
		dir, err := DefaultStateDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine state directory: %w", err)
		}
		checker.stateDir = dir
	}

	if checker.runner == nil {
		checker.runner = winget.NewRunner()
	}

	if checker.cache == nil {
		cache, err := NewCache(checker.stateDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		checker.cache = cache
	}

	if checker.pending == nil {
		pending, err := NewPendingList(checker.stateDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize pending list: %w", err)
		}
		checker.pending = pending
	}

	if checker.rules == nil {
		checker.rules = &Rules{Packages: make(map[string]Rule)}
	}

	return checker, nil
}

// Check returns the available upgrades. The cache is consulted first
// unless force is true; a fresh report is cached. Rules are applied on
// every call so rule changes take effect on cached reports too, and
// remaining updates are recorded as pending.
func (c *Checker) Check(force bool) (*Result, error) {
	result := &Result{}

	var report *winget.UpgradeReport
	if !force {
		if cached, ok := c.cache.Get(); ok {
			report = cached
			result.FromCache = true
		}
	}

	if report == nil {
		fresh, err := c.runner.ListUpgrades()
		if err != nil {
			return nil, fmt.Errorf("failed to check updates: %w", err)
		}
		report = fresh

		// A failed cache write is not worth failing the check over;
		// the next check just queries winget again.
		_ = c.cache.Set(report)
	}

	result.Report, result.Excluded, result.HeldBack = c.applyRules(report)

	if err := c.recordPending(result.Report); err != nil {
		return nil, err
	}

	return result, nil
}

// applyRules filters a report through the configured rules, returning
// the filtered report and the excluded / held-back counts.
func (c *Checker) applyRules(report *winget.UpgradeReport) (*winget.UpgradeReport, int, int) {
	filtered := &winget.UpgradeReport{}
	excluded := 0
	heldBack := 0

	keep := func(u winget.PackageUpdate) bool {
		if c.rules.Excluded(u.ID) {
			excluded++
			return false
		}
		if c.rules.HeldBack(u.ID, u.Available) {
			heldBack++
			return false
		}
		return true
	}

	for _, u := range report.Regular {
		if keep(u) {
			filtered.Regular = append(filtered.Regular, u)
		}
	}
	for _, u := range report.Explicit {
		if keep(u) {
			filtered.Explicit = append(filtered.Explicit, u)
		}
	}
	for _, u := range report.Unknown {
		if keep(u) {
			filtered.Unknown = append(filtered.Unknown, u)
		}
	}

	return filtered, excluded, heldBack
}

// recordPending adds every update in the report to the pending list.
func (c *Checker) recordPending(report *winget.UpgradeReport) error {
	for _, u := range report.All() {
		err := c.pending.Add(PendingUpdate{
			ID:             u.ID,
			Name:           u.Name,
			CurrentVersion: u.Version,
			NewVersion:     u.Available,
		})
		if err != nil {
			return fmt.Errorf("failed to record pending update for %s: %w", u.ID, err)
		}
	}
	return nil
}

// Runner returns the winget executor.
func (c *Checker) Runner() winget.Executor {
	return c.runner
}

// Cache returns the cache instance.
func (c *Checker) Cache() *Cache {
	return c.cache
}

// Pending returns the pending list instance.
func (c *Checker) Pending() *PendingList {
	return c.pending
}

// Rules returns the configured rules.
func (c *Checker) Rules() *Rules {
	return c.rules
}
