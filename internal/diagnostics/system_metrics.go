package diagnostics

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemMetrics holds a point-in-time view of host resources. Fields a
// platform cannot report stay zero.
type SystemMetrics struct {
	CPUModel   string `json:"cpu_model"`
	CPUThreads int    `json:"cpu_threads"`

	// Memory (in MB)
	MemTotalMB     float64 `json:"mem_total_mb"`
	MemAvailableMB float64 `json:"mem_available_mb"`
	MemPercent     float64 `json:"mem_percent"`

	// Load Average (Unix)
	LoadAvg1 float64 `json:"load_avg_1"`

	FDOpen  int `json:"fd_open"`
	FDLimit int `json:"fd_limit"`
}

// CollectSystemMetrics gathers current host statistics on a best-effort basis.
func CollectSystemMetrics() SystemMetrics {
	var stats SystemMetrics

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		stats.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}
	stats.CPUThreads = runtime.NumCPU()
	if threads, err := cpu.Counts(true); err == nil && threads > 0 {
		stats.CPUThreads = threads
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemTotalMB = float64(vm.Total) / 1024 / 1024
		stats.MemAvailableMB = float64(vm.Available) / 1024 / 1024
		stats.MemPercent = vm.UsedPercent
	}

	if avg, err := load.Avg(); err == nil {
		stats.LoadAvg1 = avg.Load1
	}

	stats.FDOpen, stats.FDLimit = CountFDs()
	return stats
}
