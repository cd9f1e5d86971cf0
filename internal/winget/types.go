package winget

// Package represents a single installed package as reported by winget.
type Package struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Version string `json:"version"`
	Source  string `json:"source,omitempty"`
}

// PackageUpdate represents a package with an available upgrade.
type PackageUpdate struct {
	Package
	// Available is the upgrade version winget reports
	Available string `json:"available"`
	// UnknownVersion is true when the installed version could not be
	// determined (winget shows "Unknown" or a '<'-qualified version)
	UnknownVersion bool `json:"unknown_version,omitempty"`
	// ExplicitTargeting is true for packages winget lists under the
	// "require explicit targeting" section
	ExplicitTargeting bool `json:"explicit_targeting,omitempty"`
}

// UpgradeReport groups the upgrade table into the three sections winget
// prints: plainly upgradable packages, packages that must be targeted
// explicitly, and packages whose installed version is unknown.
type UpgradeReport struct {
	Regular  []PackageUpdate `json:"regular"`
	Explicit []PackageUpdate `json:"explicit"`
	Unknown  []PackageUpdate `json:"unknown"`
}

// Total returns the number of updates across all sections.
func (r *UpgradeReport) Total() int {
	return len(r.Regular) + len(r.Explicit) + len(r.Unknown)
}

// All returns every update in the report, regular first.
func (r *UpgradeReport) All() []PackageUpdate {
	all := make([]PackageUpdate, 0, r.Total())
	all = append(all, r.Regular...)
	all = append(all, r.Explicit...)
	all = append(all, r.Unknown...)
	return all
}

// Find returns the update with the given package id, searching all
// sections. The second return value is false when the id is not present.
func (r *UpgradeReport) Find(id string) (PackageUpdate, bool) {
	for _, u := range r.All() {
		if u.ID == id {
			return u, true
		}
	}
	return PackageUpdate{}, false
}
