package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/metrics"
)

// MetricsHandler serves process and request counters.
type MetricsHandler struct {
	startTime time.Time
	version   string
	backend   string
	recorder  *metrics.Recorder
}

func NewMetricsHandler(version, backend string, recorder *metrics.Recorder) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		backend:   backend,
		recorder:  recorder,
	}
}

type MetricsResponse struct {
	Status    string        `json:"status"`
	Uptime    string        `json:"uptime"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version"`
	StartTime string        `json:"start_time"`
	System    SystemMetrics `json:"system"`
	API       APIMetrics    `json:"api"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     string `json:"mem_alloc"`
	MemTotal     string `json:"mem_total"`
	NumGC        uint32 `json:"num_gc"`
}

// APIMetrics are the service-level numbers. Counter names are
// "<operation>.<outcome>" plus "requests".
type APIMetrics struct {
	Counters          map[string]int64 `json:"counters"`
	StorageBackend    string           `json:"storageBackend"`
	LibraryMaxEntries int              `json:"libraryMaxEntries"`
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, MetricsResponse{
		Status:    "healthy",
		Uptime:    time.Since(h.startTime).Round(10 * time.Millisecond).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		System: SystemMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     humanize.Bytes(m.Alloc),
			MemTotal:     humanize.Bytes(m.TotalAlloc),
			NumGC:        m.NumGC,
		},
		API: APIMetrics{
			Counters:          h.recorder.Counters(),
			StorageBackend:    h.backend,
			LibraryMaxEntries: library.MaxEntries,
		},
	})
}
