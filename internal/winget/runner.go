package winget

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

var (
	ErrWingetNotFound = errors.New("winget is not installed or not in PATH")
	ErrWingetCommand  = errors.New("winget command failed")
)

// notAvailablePrefix marks the stderr lines winget export emits for
// installed packages no source can provide.
const notAvailablePrefix = "Installed package is not available from any source:"

// DefaultTimeout bounds a single winget invocation. Upgrades can take a
// while; everything else is listing output.
const DefaultTimeout = 10 * time.Minute

// Runner executes winget commands via the external winget binary
type Runner struct {
	binary  string
	timeout time.Duration
}

// RunnerOption is a functional option for configuring Runner
type RunnerOption func(*Runner)

// WithBinary sets the winget executable name or path
func WithBinary(binary string) RunnerOption {
	return func(r *Runner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithTimeout sets the per-command timeout
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewRunner creates a Runner for the winget binary on PATH
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		binary:  "winget",
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the configured winget executable
func (r *Runner) Binary() string {
	return r.binary
}

// runCommand executes a winget command and returns stdout, stderr, and any error
func (r *Runner) runCommand(args ...string) (stdout, stderr string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return stdout, stderr, ErrWingetNotFound
		}
		// Wrap the error with stderr for context
		if strings.TrimSpace(stderr) != "" {
			err = errors.Join(ErrWingetCommand, errors.New(strings.TrimSpace(stderr)))
		} else {
			err = errors.Join(ErrWingetCommand, err)
		}
	}

	return stdout, stderr, err
}

// Probe checks that winget is installed and returns its version string
func (r *Runner) Probe() (string, error) {
	stdout, _, err := r.runCommand("--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// List returns the installed packages from `winget list`
func (r *Runner) List() ([]Package, error) {
	stdout, _, err := r.runCommand("list")
	if err != nil {
		return nil, err
	}
	return ParseListOutput(stdout)
}

// ListUpgrades returns the available upgrades from
// `winget list --upgrade-available`
func (r *Runner) ListUpgrades() (*UpgradeReport, error) {
	stdout, _, err := r.runCommand("list", "--upgrade-available")
	if err != nil {
		return nil, err
	}
	return ParseUpgradeOutput(stdout)
}

// BuildUpgradeArgs constructs the argument list for a winget upgrade
// invocation. Packages with a known available version are pinned to it
// with --version; unknown-version packages are targeted by id only.
func BuildUpgradeArgs(packages []PackageUpdate, silent bool) []string {
	args := []string{"upgrade"}

	for _, pkg := range packages {
		if pkg.ExplicitTargeting || !pkg.UnknownVersion {
			args = append(args, "--id", pkg.ID, "--version", pkg.Available)
		} else {
			args = append(args, "--id", pkg.ID)
		}
	}

	if silent {
		args = append(args, "--silent")
	}

	return args
}

// Upgrade installs updates for the given packages and returns winget's
// output. A nil or empty package list is a no-op.
func (r *Runner) Upgrade(packages []PackageUpdate, silent bool) (string, error) {
	if len(packages) == 0 {
		return "", nil
	}

	stdout, _, err := r.runCommand(BuildUpgradeArgs(packages, silent)...)
	if err != nil {
		return stdout, err
	}
	return stdout, nil
}

// Export writes the installed-package manifest to path via
// `winget export` and returns the names of installed packages that are
// not available from any source, collected from stderr.
func (r *Runner) Export(path string) ([]string, error) {
	_, stderr, err := r.runCommand("export", "-o", path, "--include-versions")
	notAvailable := ParseExportStderr(stderr)
	if err != nil {
		return notAvailable, err
	}
	return notAvailable, nil
}

// ParseExportStderr extracts not-available package names from winget
// export diagnostics.
func ParseExportStderr(stderr string) []string {
	var names []string
	for _, line := range strings.Split(stderr, "\n") {
		idx := strings.Index(line, notAvailablePrefix)
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[idx+len(notAvailablePrefix):])
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
