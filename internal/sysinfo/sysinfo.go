// Package sysinfo collects a host hardware and OS summary for the
// doctor command and the HTTP service.
package sysinfo

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Report is a host hardware and OS summary. Probes that fail leave
// their fields zero and add a warning instead of aborting the report.
type Report struct {
	OS             string  `json:"os"`
	Platform       string  `json:"platform"`
	KernelArch     string  `json:"kernel_arch"`
	GoVersion      string  `json:"go_version"`
	CPUModel       string  `json:"cpu_model"`
	PhysicalCores  int     `json:"physical_cores"`
	LogicalCores   int     `json:"logical_cores"`
	TotalRAM       uint64  `json:"total_ram"`
	AvailableRAM   uint64  `json:"available_ram"`
	RAMUsedPercent float64 `json:"ram_used_percent"`
	DiskTotal      uint64  `json:"disk_total"`
	DiskFree       uint64  `json:"disk_free"`
	DiskUsedPct    float64 `json:"disk_used_percent"`

	Warnings []string `json:"warnings,omitempty"`
}

// Collect gathers the system report. It never returns an error; failed
// probes are reported via Warnings.
func Collect() *Report {
	r := &Report{
		GoVersion: runtime.Version(),
	}

	if info, err := host.Info(); err == nil {
		r.OS = info.OS
		r.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		r.KernelArch = info.KernelArch
	} else {
		r.OS = runtime.GOOS
		r.warn("host info unavailable: %v", err)
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		r.CPUModel = infos[0].ModelName
	} else if err != nil {
		r.warn("cpu info unavailable: %v", err)
	}
	if physical, err := cpu.Counts(false); err == nil {
		r.PhysicalCores = physical
	}
	if logical, err := cpu.Counts(true); err == nil {
		r.LogicalCores = logical
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		r.TotalRAM = vm.Total
		r.AvailableRAM = vm.Available
		r.RAMUsedPercent = vm.UsedPercent
	} else {
		r.warn("memory info unavailable: %v", err)
	}

	if usage, err := disk.Usage(diskRoot()); err == nil {
		r.DiskTotal = usage.Total
		r.DiskFree = usage.Free
		r.DiskUsedPct = usage.UsedPercent
	} else {
		r.warn("disk info unavailable: %v", err)
	}

	return r
}

func (r *Report) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// diskRoot returns the filesystem root to probe
func diskRoot() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// Format renders the report as an aligned text block.
func (r *Report) Format() string {
	var b strings.Builder

	line := func(label, format string, args ...interface{}) {
		fmt.Fprintf(&b, "%-18s %s\n", label+":", fmt.Sprintf(format, args...))
	}

	line("Operating System", "%s %s (%s)", r.OS, r.Platform, r.KernelArch)
	line("Go Version", "%s", r.GoVersion)
	if r.CPUModel != "" {
		line("CPU", "%s", r.CPUModel)
	}
	if r.LogicalCores > 0 {
		line("CPU Cores", "%d physical, %d logical", r.PhysicalCores, r.LogicalCores)
	}
	if r.TotalRAM > 0 {
		line("Total RAM", "%.2f GB", gb(r.TotalRAM))
		line("Available RAM", "%.2f GB", gb(r.AvailableRAM))
		line("RAM Usage", "%.1f%%", r.RAMUsedPercent)
	}
	if r.DiskTotal > 0 {
		line("Disk Total", "%.2f GB", gb(r.DiskTotal))
		line("Disk Free", "%.2f GB", gb(r.DiskFree))
		line("Disk Usage", "%.1f%%", r.DiskUsedPct)
	}
	for _, w := range r.Warnings {
		line("Warning", "%s", w)
	}

	return b.String()
}

// gb converts bytes to gigabytes
func gb(bytes uint64) float64 {
	return float64(bytes) / (1 << 30)
}
