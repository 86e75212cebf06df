package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/scheduler"
	"github.com/aristath/folio/internal/server/respond"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemHandlers contains system-wide HTTP handlers
type SystemHandlers struct {
	snapshot  *scheduler.Snapshot
	bus       *events.Bus
	startedAt time.Time
	stats     func() (float64, float64)
	log       zerolog.Logger
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(snapshot *scheduler.Snapshot, bus *events.Bus, log zerolog.Logger) *SystemHandlers {
	h := &SystemHandlers{
		snapshot:  snapshot,
		bus:       bus,
		startedAt: time.Now(),
		log:       log.With().Str("handler", "system").Logger(),
	}
	h.stats = h.getSystemStats
	return h
}

// SystemStatusResponse represents the system status
type SystemStatusResponse struct {
	Status          string            `json:"status" msgpack:"status"`
	Ready           bool              `json:"ready" msgpack:"ready"`
	UptimeSeconds   int64             `json:"uptime_seconds" msgpack:"uptime_seconds"`
	CPUPercent      float64           `json:"cpu_percent" msgpack:"cpu_percent"`
	MemoryPercent   float64           `json:"memory_percent" msgpack:"memory_percent"`
	ProcessRSSBytes uint64            `json:"process_rss_bytes" msgpack:"process_rss_bytes"`
	Goroutines      int               `json:"goroutines" msgpack:"goroutines"`
	StreamClients   int               `json:"stream_clients" msgpack:"stream_clients"`
	Refresh         *scheduler.Status `json:"refresh,omitempty" msgpack:"refresh,omitempty"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.stats()

	resp := SystemStatusResponse{
		Status:          "healthy",
		UptimeSeconds:   int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:      cpuPercent,
		MemoryPercent:   memPercent,
		ProcessRSSBytes: processRSS(),
		Goroutines:      runtime.NumGoroutine(),
	}
	if h.bus != nil {
		resp.StreamClients = h.bus.Subscribers(events.CycleCompleted)
	}
	if h.snapshot != nil {
		status := h.snapshot.Status()
		resp.Refresh = &status
		resp.Ready = h.snapshot.Latest() != nil
		if status.LastError != "" {
			resp.Status = "degraded"
		}
	}

	respond.Write(w, r, http.StatusOK, resp, h.log)
}

// getSystemStats returns host CPU and memory usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	var cpuValue, memValue float64

	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Debug().Err(err).Msg("Failed to read CPU usage")
	} else if len(cpuPercent) > 0 {
		cpuValue = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Debug().Err(err).Msg("Failed to read memory usage")
	} else {
		memValue = memStat.UsedPercent
	}

	return cpuValue, memValue
}

func processRSS() uint64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	info, err := p.MemoryInfo()
	if err != nil || info == nil {
		return 0
	}
	return info.RSS
}
