package updates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wingettools/wingetupdatesinstaller/internal/winget"
)

// InstallResult is the outcome of an installation run.
type InstallResult struct {
	// Targets are the updates that were attempted
	Targets []winget.PackageUpdate
	// Output is winget's stdout from the upgrade invocation
	Output string
	// DryRun is true when no command was actually executed
	DryRun bool
	// Command is the winget invocation, populated for dry runs
	Command string
}

// SelectTargets resolves package ids against an upgrade report. With no
// ids, every update in the report is selected. An id with no available
// update is an error.
func SelectTargets(report *winget.UpgradeReport, ids []string) ([]winget.PackageUpdate, error) {
	if len(ids) == 0 {
		return report.All(), nil
	}

	targets := make([]winget.PackageUpdate, 0, len(ids))
	for _, id := range ids {
		u, ok := report.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUpdateNotFound, id)
		}
		targets = append(targets, u)
	}
	return targets, nil
}

// Install runs winget upgrade for the given targets and updates the
// pending list from the outcome. With dryRun set, the command is
// returned without being executed and no state changes.
func (c *Checker) Install(targets []winget.PackageUpdate, silent, dryRun bool) (*InstallResult, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	result := &InstallResult{Targets: targets}

	if dryRun {
		result.DryRun = true
		args := winget.BuildUpgradeArgs(targets, silent)
		result.Command = "winget " + strings.Join(args, " ")
		return result, nil
	}

	output, err := c.runner.Upgrade(targets, silent)
	result.Output = output

	if err != nil {
		if markErr := c.markTargets(targets, StatusFailed, err.Error()); markErr != nil {
			return result, fmt.Errorf("failed to install updates: %w", errors.Join(err, markErr))
		}
		return result, fmt.Errorf("failed to install updates: %w", err)
	}

	if err := c.markTargets(targets, StatusInstalled, ""); err != nil {
		return result, fmt.Errorf("failed to record install outcome: %w", err)
	}
	return result, nil
}

// markTargets records the installation outcome in the pending list.
// Targets that were never recorded as pending are ignored.
func (c *Checker) markTargets(targets []winget.PackageUpdate, status UpdateStatus, errMsg string) error {
	var errs []error
	for _, t := range targets {
		if err := c.pending.SetStatus(t.ID, status, errMsg); err != nil {
			if errors.Is(err, ErrNotInPending) {
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", t.ID, err))
		}
	}
	return errors.Join(errs...)
}
