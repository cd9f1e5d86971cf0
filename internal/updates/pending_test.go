package updates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestPending(t *testing.T) *PendingList {
	t.Helper()
	pending, err := NewPendingList(t.TempDir())
	if err != nil {
		t.Fatalf("NewPendingList: %v", err)
	}
	return pending
}

func TestPendingAddAndList(t *testing.T) {
	pending := newTestPending(t)

	updates := []PendingUpdate{
		{ID: "Mozilla.Firefox", Name: "Mozilla Firefox", CurrentVersion: "124.0.1", NewVersion: "125.0.2"},
		{ID: "7zip.7zip", Name: "7-Zip", CurrentVersion: "23.01", NewVersion: "24.05"},
	}
	for _, u := range updates {
		if err := pending.Add(u); err != nil {
			t.Fatalf("Add(%s): %v", u.ID, err)
		}
	}

	list := pending.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(list))
	}
	// Sorted by id
	if list[0].ID != "7zip.7zip" || list[1].ID != "Mozilla.Firefox" {
		t.Errorf("list not sorted by id: %v, %v", list[0].ID, list[1].ID)
	}
	if list[0].Status != StatusPending {
		t.Errorf("new entries should be pending, got %s", list[0].Status)
	}
	if list[0].DetectedAt.IsZero() {
		t.Error("DetectedAt should be set on add")
	}
}

func TestPendingAddSameVersionKeepsEntry(t *testing.T) {
	now := time.Now()
	pending, err := NewPendingList(t.TempDir(), WithPendingNowFunc(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewPendingList: %v", err)
	}

	if err := pending.Add(PendingUpdate{ID: "7zip.7zip", NewVersion: "24.05"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := pending.SetStatus("7zip.7zip", StatusFailed, "network error"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	// Re-detecting the same version must not reset the failed status
	if err := pending.Add(PendingUpdate{ID: "7zip.7zip", NewVersion: "24.05"}); err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	u, _ := pending.Get("7zip.7zip")
	if u.Status != StatusFailed || u.Error != "network error" {
		t.Errorf("same-version re-add should keep state, got %+v", u)
	}

	// A newer version resets the entry to pending
	if err := pending.Add(PendingUpdate{ID: "7zip.7zip", NewVersion: "24.06"}); err != nil {
		t.Fatalf("newer Add: %v", err)
	}
	u, _ = pending.Get("7zip.7zip")
	if u.Status != StatusPending || u.Error != "" || u.NewVersion != "24.06" {
		t.Errorf("newer version should reset entry, got %+v", u)
	}
}

func TestPendingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    UpdateStatus
		to      UpdateStatus
		wantErr bool
	}{
		{"pending to installed", StatusPending, StatusInstalled, false},
		{"pending to failed", StatusPending, StatusFailed, false},
		{"pending to skipped", StatusPending, StatusSkipped, false},
		{"failed to installed", StatusFailed, StatusInstalled, false},
		{"failed to pending", StatusFailed, StatusPending, false},
		{"installed to failed", StatusInstalled, StatusFailed, true},
		{"installed to skipped", StatusInstalled, StatusSkipped, true},
		{"skipped to installed", StatusSkipped, StatusInstalled, false},
		{"skipped to failed", StatusSkipped, StatusFailed, true},
		{"installed to installed", StatusInstalled, StatusInstalled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending := newTestPending(t)
			if err := pending.Add(PendingUpdate{ID: "pkg", NewVersion: "1.0"}); err != nil {
				t.Fatalf("Add: %v", err)
			}
			if tt.from != StatusPending {
				if err := pending.SetStatus("pkg", tt.from, "boom"); err != nil {
					t.Fatalf("setup transition to %s: %v", tt.from, err)
				}
			}

			err := pending.SetStatus("pkg", tt.to, "")
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPendingSetStatusUnknownPackage(t *testing.T) {
	pending := newTestPending(t)
	err := pending.SetStatus("Missing.Package", StatusInstalled, "")
	if !errors.Is(err, ErrNotInPending) {
		t.Errorf("expected ErrNotInPending, got %v", err)
	}
}

func TestPendingFailedStoresError(t *testing.T) {
	pending := newTestPending(t)
	if err := pending.Add(PendingUpdate{ID: "pkg", NewVersion: "1.0"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := pending.SetStatus("pkg", StatusFailed, "exit status 1"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	u, _ := pending.Get("pkg")
	if u.Error != "exit status 1" {
		t.Errorf("failed status should store error, got %q", u.Error)
	}

	if err := pending.SetStatus("pkg", StatusPending, ""); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	u, _ = pending.Get("pkg")
	if u.Error != "" {
		t.Errorf("non-failed status should clear error, got %q", u.Error)
	}
}

func TestPendingListByStatus(t *testing.T) {
	pending := newTestPending(t)
	for _, id := range []string{"a.one", "b.two", "c.three"} {
		if err := pending.Add(PendingUpdate{ID: id, NewVersion: "1.0"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := pending.SetStatus("b.two", StatusInstalled, ""); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	installed := pending.ListByStatus(StatusInstalled)
	if len(installed) != 1 || installed[0].ID != "b.two" {
		t.Errorf("ListByStatus(installed) = %v", installed)
	}
	if got := len(pending.ListByStatus(StatusPending)); got != 2 {
		t.Errorf("ListByStatus(pending): got %d, want 2", got)
	}
}

func TestPendingPersistence(t *testing.T) {
	dir := t.TempDir()

	pending, err := NewPendingList(dir)
	if err != nil {
		t.Fatalf("NewPendingList: %v", err)
	}
	if err := pending.Add(PendingUpdate{ID: "pkg", Name: "Pkg", NewVersion: "1.0"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reloaded, err := NewPendingList(dir)
	if err != nil {
		t.Fatalf("NewPendingList reload: %v", err)
	}
	u, ok := reloaded.Get("pkg")
	if !ok || u.Name != "Pkg" {
		t.Errorf("reloaded entry: %+v, %v", u, ok)
	}
}

func TestPendingCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pending.json"), []byte("oops"), 0644); err != nil {
		t.Fatalf("write corrupted file: %v", err)
	}

	pending, err := NewPendingList(dir)
	if err != nil {
		t.Fatalf("NewPendingList should tolerate corruption: %v", err)
	}
	if pending.Len() != 0 {
		t.Errorf("corrupted pending list should start empty, got %d", pending.Len())
	}
}

func TestPendingRemoveAndClear(t *testing.T) {
	pending := newTestPending(t)
	if err := pending.Add(PendingUpdate{ID: "pkg", NewVersion: "1.0"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := pending.Remove("pkg"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !errors.Is(pending.Remove("pkg"), ErrNotInPending) {
		t.Error("removing a missing entry should fail")
	}

	if err := pending.Add(PendingUpdate{ID: "pkg", NewVersion: "1.0"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := pending.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if pending.Len() != 0 {
		t.Errorf("Clear should empty the list, got %d", pending.Len())
	}
}
