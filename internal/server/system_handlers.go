package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/mt5-bridge/internal/modules/snapshots"
)

// SystemHandlers handles liveness and system monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	store       *snapshots.Store
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, store *snapshots.Store) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: time.Now(),
		store:       store,
	}
}

// HandleHealthz handles GET /healthz. It only reads the store's key count and
// performs no aggregation.
func (h *SystemHandlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"accounts": h.store.Count(),
	})
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, memUsed := h.resourceUsage()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":          "mt5-bridge",
		"uptime_seconds":   int64(time.Since(h.startupTime).Seconds()),
		"accounts_tracked": h.store.Count(),
		"goroutines":       runtime.NumGoroutine(),
		"cpu_percent":      cpuAvg,
		"memory_percent":   memUsed,
		"timestamp":        time.Now().Format(time.RFC3339),
	})
}

// resourceUsage samples CPU and memory usage; failures degrade to zeros
func (h *SystemHandlers) resourceUsage() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
