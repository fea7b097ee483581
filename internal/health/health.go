// Package health reports a runtime snapshot of the responder process.
package health

import (
	"runtime"
	"time"
)

// Snapshot is the state reported by the detailed health endpoint.
type Snapshot struct {
	Status     string      `json:"status"`
	Uptime     string      `json:"uptime"`
	Goroutines int         `json:"goroutines"`
	Memory     MemoryInfo  `json:"memory"`
	Runtime    RuntimeInfo `json:"runtime"`
	Responder  *Responder  `json:"responder,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

// MemoryInfo summarizes runtime.MemStats.
type MemoryInfo struct {
	AllocMB      float64 `json:"allocMB"`
	TotalAllocMB float64 `json:"totalAllocMB"`
	SysMB        float64 `json:"sysMB"`
	NumGC        uint32  `json:"numGC"`
}

// RuntimeInfo describes the Go runtime.
type RuntimeInfo struct {
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	CPUs    int    `json:"cpus"`
}

// Responder describes the service configuration.
type Responder struct {
	Backend        string `json:"backend,omitempty"`
	RateRequests   int    `json:"rateRequests"`
	RateWindow     string `json:"rateWindow"`
	TrackedClients int    `json:"trackedClients"`
}

// Options feeds service details into Collect.
type Options struct {
	StartedAt time.Time
	Responder *Responder
	Now       func() time.Time
}

// Collect returns a health snapshot for the current process.
func Collect(opts Options) Snapshot {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	t := now()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := Snapshot{
		Status:     "healthy",
		Goroutines: runtime.NumGoroutine(),
		Memory: MemoryInfo{
			AllocMB:      float64(mem.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(mem.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(mem.Sys) / 1024 / 1024,
			NumGC:        mem.NumGC,
		},
		Runtime: RuntimeInfo{
			Version: runtime.Version(),
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			CPUs:    runtime.NumCPU(),
		},
		Responder: opts.Responder,
		Timestamp: t.Format(time.RFC3339),
	}
	if !opts.StartedAt.IsZero() {
		s.Uptime = t.Sub(opts.StartedAt).Round(time.Second).String()
	}
	return s
}
