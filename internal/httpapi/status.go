package httpapi

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

var processStart = time.Now()

// Liveness handles GET / per spec.md §6.
func Liveness(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

type osInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Arch    string `json:"arch"`
}

type cpuInfo struct {
	CPUCount int     `json:"cpu_count"`
	CPUUsage float64 `json:"cpu_usage"`
}

type memoryInfo struct {
	TotalMemory        uint64  `json:"total_memory"`
	UsedMemory         uint64  `json:"used_memory"`
	AvailableMemory    uint64  `json:"available_memory"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`
}

type serverStatus struct {
	Timestamp     int64      `json:"timestamp"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	OS            osInfo     `json:"os"`
	CPU           cpuInfo    `json:"cpu"`
	Memory        memoryInfo `json:"memory"`
}

// Status handles the supplemental GET /status process-status route,
// adapted from original_source's apps/api/src/system/status.rs onto
// gopsutil (the teacher pack's sysinfo-equivalent Go library) in place of
// the Rust sysinfo crate.
func Status(c *gin.Context) {
	hostInfo, _ := host.Info()
	cpuPercents, _ := cpu.Percent(200*time.Millisecond, false)
	vmem, _ := mem.VirtualMemory()

	status := serverStatus{
		Timestamp:     time.Now().Unix(),
		UptimeSeconds: int64(time.Since(processStart).Seconds()),
		OS: osInfo{
			Arch: runtime.GOARCH,
		},
		CPU: cpuInfo{
			CPUCount: runtime.NumCPU(),
		},
	}

	if hostInfo != nil {
		status.OS.Name = hostInfo.Platform
		status.OS.Version = hostInfo.PlatformVersion
	}
	if len(cpuPercents) > 0 {
		status.CPU.CPUUsage = cpuPercents[0]
	}
	if vmem != nil {
		status.Memory = memoryInfo{
			TotalMemory:        vmem.Total,
			UsedMemory:         vmem.Used,
			AvailableMemory:    vmem.Available,
			MemoryUsagePercent: vmem.UsedPercent,
		}
	}

	c.JSON(200, status)
}
