package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var startTime = time.Now()

// HealthChecker is satisfied by cache backends that can report liveness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves GET /health with process and system stats.
type HealthHandler struct {
	version string
	cache   HealthChecker
}

// NewHealthHandler creates a health handler. cache may be nil when the
// in-memory store is in use.
func NewHealthHandler(version string, cache HealthChecker) *HealthHandler {
	return &HealthHandler{version: version, cache: cache}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Services  map[string]string `json:"services"`
	System    SystemStats       `json:"system"`
}

type SystemStats struct {
	Goroutines    int     `json:"goroutines"`
	MemoryUsedPct float64 `json:"memoryUsedPct"`
	CPUUsedPct    float64 `json:"cpuUsedPct"`
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	services := make(map[string]string)
	status := "healthy"

	if h.cache != nil {
		if err := h.cache.HealthCheck(c.Request.Context()); err != nil {
			services["cache"] = "unhealthy: " + err.Error()
			status = "degraded"
		} else {
			services["cache"] = "healthy"
		}
	} else {
		services["cache"] = "healthy (in-memory)"
	}

	stats := SystemStats{Goroutines: runtime.NumGoroutine()}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryUsedPct = vm.UsedPercent
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		stats.CPUUsedPct = pct[0]
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Services:  services,
		System:    stats,
	})
}
