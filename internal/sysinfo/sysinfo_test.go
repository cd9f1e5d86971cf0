package sysinfo

import (
	"strings"
	"testing"
)

func TestCollect(t *testing.T) {
	r := Collect()
	if r == nil {
		t.Fatal("Collect returned nil")
	}
	if r.OS == "" {
		t.Error("OS should always be set")
	}
	if r.GoVersion == "" {
		t.Error("GoVersion should always be set")
	}
}

func TestFormat(t *testing.T) {
	r := &Report{
		OS:             "linux",
		Platform:       "debian 12",
		KernelArch:     "x86_64",
		GoVersion:      "go1.24.0",
		CPUModel:       "AMD EPYC 7763",
		PhysicalCores:  8,
		LogicalCores:   16,
		TotalRAM:       32 << 30,
		AvailableRAM:   24 << 30,
		RAMUsedPercent: 25.0,
		DiskTotal:      512 << 30,
		DiskFree:       128 << 30,
		DiskUsedPct:    75.0,
	}

	out := r.Format()

	expected := []string{
		"linux debian 12 (x86_64)",
		"AMD EPYC 7763",
		"8 physical, 16 logical",
		"32.00 GB",
		"24.00 GB",
		"25.0%",
		"75.0%",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatOmitsMissingProbes(t *testing.T) {
	r := &Report{
		OS:        "linux",
		GoVersion: "go1.24.0",
		Warnings:  []string{"cpu info unavailable: denied"},
	}

	out := r.Format()
	if strings.Contains(out, "CPU Cores") {
		t.Error("Format should omit zero core counts")
	}
	if strings.Contains(out, "Total RAM") {
		t.Error("Format should omit zero RAM stats")
	}
	if !strings.Contains(out, "cpu info unavailable") {
		t.Error("Format should include warnings")
	}
}

func TestGB(t *testing.T) {
	if got := gb(1 << 30); got != 1.0 {
		t.Errorf("gb(1GiB) = %v, want 1.0", got)
	}
	if got := gb(0); got != 0 {
		t.Errorf("gb(0) = %v, want 0", got)
	}
}
