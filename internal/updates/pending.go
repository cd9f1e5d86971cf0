package updates

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Error variables for pending list errors
var (
	// ErrPendingCorrupted is returned when the pending file cannot be parsed
	ErrPendingCorrupted = errors.New("pending file is corrupted")
	// ErrNotInPending is returned when a package is not found in pending updates
	ErrNotInPending = errors.New("package not found in pending updates")
	// ErrInvalidStatusTransition is returned when an invalid status transition is attempted
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// UpdateStatus represents the status of a pending update.
type UpdateStatus string

// Update status constants
const (
	// StatusPending indicates the update has been detected but not yet installed
	StatusPending UpdateStatus = "pending"
	// StatusInstalled indicates the update was installed successfully
	StatusInstalled UpdateStatus = "installed"
	// StatusFailed indicates the installation failed
	StatusFailed UpdateStatus = "failed"
	// StatusSkipped indicates the update was deliberately skipped
	StatusSkipped UpdateStatus = "skipped"
)

// validTransitions maps each status to the statuses it may move to.
// A fresh detection (Add) may always reset an entry back to pending.
// Skipped and installed entries may still move to installed: an update
// the user skipped, or one winget re-detects, can be installed later.
var validTransitions = map[UpdateStatus][]UpdateStatus{
	StatusPending:   {StatusInstalled, StatusFailed, StatusSkipped},
	StatusFailed:    {StatusPending, StatusInstalled, StatusSkipped},
	StatusSkipped:   {StatusPending, StatusInstalled},
	StatusInstalled: {StatusPending, StatusInstalled},
}

// IsValidStatus checks if a status is valid
func IsValidStatus(s UpdateStatus) bool {
	_, ok := validTransitions[s]
	return ok
}

// PendingUpdate represents a detected update awaiting installation.
type PendingUpdate struct {
	// ID is the winget package identifier
	ID string `json:"id"`
	// Name is the display name winget reports
	Name string `json:"name"`
	// CurrentVersion is the installed version at detection time
	CurrentVersion string `json:"current_version"`
	// NewVersion is the available version detected
	NewVersion string `json:"new_version"`
	// Status is the current status of this update
	Status UpdateStatus `json:"status"`
	// DetectedAt is when this update was first detected
	DetectedAt time.Time `json:"detected_at"`
	// Error contains the failure message if status is failed
	Error string `json:"error,omitempty"`
}

// pendingFile represents the JSON structure stored on disk
type pendingFile struct {
	Updates map[string]PendingUpdate `json:"updates"`
}

// PendingList tracks detected updates across runs. It persists to disk
// and supports concurrent access.
type PendingList struct {
	updates map[string]PendingUpdate
	path    string
	mu      sync.RWMutex
	// nowFunc allows injecting time for testing
	nowFunc func() time.Time
}

// PendingListOption is a functional option for configuring PendingList
type PendingListOption func(*PendingList)

// WithPendingNowFunc sets a custom time function for testing
func WithPendingNowFunc(fn func() time.Time) PendingListOption {
	return func(p *PendingList) {
		p.nowFunc = fn
	}
}

// NewPendingList creates or loads a pending list from disk. A missing
// or corrupted file yields an empty list.
func NewPendingList(stateDir string, opts ...PendingListOption) (*PendingList, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pending directory: %w", err)
	}

	pending := &PendingList{
		updates: make(map[string]PendingUpdate),
		path:    filepath.Join(stateDir, "pending.json"),
		nowFunc: time.Now,
	}

	for _, opt := range opts {
		opt(pending)
	}

	if err := pending.load(); err != nil && !os.IsNotExist(err) {
		pending.updates = make(map[string]PendingUpdate)
	}

	return pending, nil
}

// load reads the pending list from disk
func (p *PendingList) load() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}

	var pf pendingFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("%w: %v", ErrPendingCorrupted, err)
	}

	if pf.Updates != nil {
		p.updates = pf.Updates
	}
	return nil
}

// Add records a detected update. An existing entry for the same id is
// kept unless the detected version changed, in which case the entry is
// reset to pending.
func (p *PendingList) Add(update PendingUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.updates[update.ID]; ok {
		if existing.NewVersion == update.NewVersion {
			return nil
		}
	}

	update.Status = StatusPending
	update.Error = ""
	if update.DetectedAt.IsZero() {
		update.DetectedAt = p.nowFunc()
	}
	p.updates[update.ID] = update

	return p.saveUnsafe()
}

// Get returns the pending update for a package id.
func (p *PendingList) Get(id string) (PendingUpdate, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.updates[id]
	return u, ok
}

// List returns all pending updates, sorted by package id.
func (p *PendingList) List() []PendingUpdate {
	p.mu.RLock()
	defer p.mu.RUnlock()

	updates := make([]PendingUpdate, 0, len(p.updates))
	for _, u := range p.updates {
		updates = append(updates, u)
	}
	sort.Slice(updates, func(i, j int) bool {
		return updates[i].ID < updates[j].ID
	})
	return updates
}

// ListByStatus returns pending updates with the given status, sorted by
// package id.
func (p *PendingList) ListByStatus(status UpdateStatus) []PendingUpdate {
	var filtered []PendingUpdate
	for _, u := range p.List() {
		if u.Status == status {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// SetStatus transitions a pending update to a new status. The errMsg is
// stored for failed transitions and cleared otherwise.
func (p *PendingList) SetStatus(id string, status UpdateStatus, errMsg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.updates[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInPending, id)
	}

	if !isValidTransition(u.Status, status) {
		return fmt.Errorf("%w: %s -> %s for %s", ErrInvalidStatusTransition, u.Status, status, id)
	}

	u.Status = status
	if status == StatusFailed {
		u.Error = errMsg
	} else {
		u.Error = ""
	}
	p.updates[id] = u

	return p.saveUnsafe()
}

// isValidTransition checks whether a status change is allowed
func isValidTransition(from, to UpdateStatus) bool {
	for _, valid := range validTransitions[from] {
		if to == valid {
			return true
		}
	}
	return false
}

// Remove deletes a package from the pending list.
func (p *PendingList) Remove(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.updates[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotInPending, id)
	}
	delete(p.updates, id)
	return p.saveUnsafe()
}

// Clear removes all entries from the pending list.
func (p *PendingList) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.updates = make(map[string]PendingUpdate)
	return p.saveUnsafe()
}

// Len returns the number of tracked updates.
func (p *PendingList) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.updates)
}

// saveUnsafe persists the pending list to disk without locking.
// Caller must hold the write lock.
func (p *PendingList) saveUnsafe() error {
	pf := pendingFile{
		Updates: p.updates,
	}

	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pending list: %w", err)
	}

	tmpPath := p.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write pending file: %w", err)
	}

	if err := os.Rename(tmpPath, p.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename pending file: %w", err)
	}

	return nil
}
