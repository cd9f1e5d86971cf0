package winget

// MockRunner implements Executor for testing.
// Each method can be configured with a custom function to control behavior.
type MockRunner struct {
	ProbeFunc        func() (string, error)
	ListFunc         func() ([]Package, error)
	ListUpgradesFunc func() (*UpgradeReport, error)
	UpgradeFunc      func(packages []PackageUpdate, silent bool) (string, error)
	ExportFunc       func(path string) ([]string, error)
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Probe checks that winget is installed and returns its version
func (m *MockRunner) Probe() (string, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc()
	}
	return "v1.7.10861", nil
}

// List returns the installed packages
func (m *MockRunner) List() ([]Package, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

// ListUpgrades returns the available upgrades grouped by section
func (m *MockRunner) ListUpgrades() (*UpgradeReport, error) {
	if m.ListUpgradesFunc != nil {
		return m.ListUpgradesFunc()
	}
	return &UpgradeReport{}, nil
}

// Upgrade installs updates for the given packages
func (m *MockRunner) Upgrade(packages []PackageUpdate, silent bool) (string, error) {
	if m.UpgradeFunc != nil {
		return m.UpgradeFunc(packages, silent)
	}
	return "", nil
}

// Export writes the installed-package manifest to path
func (m *MockRunner) Export(path string) ([]string, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(path)
	}
	return nil, nil
}
