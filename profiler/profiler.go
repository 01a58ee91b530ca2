// Package profiler captures runtime memory statistics around a unit of work.
//
// Snapshots are taken synchronously on the calling goroutine; nothing runs in
// the background.
package profiler

import (
	"fmt"
	"runtime"
)

// Snapshot is a point-in-time copy of the runtime memory counters.
type Snapshot struct {
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	Mallocs         uint64 `json:"mallocs"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	NumGC           uint32 `json:"num_gc"`
}

// Delta is the change of memory counters between two snapshots.
type Delta struct {
	// AllocBytes is the number of bytes allocated in between.
	AllocBytes uint64 `json:"alloc_bytes"`
	// Mallocs is the number of heap objects allocated in between.
	Mallocs uint64 `json:"mallocs"`
	// NumGC is the number of completed GC cycles in between.
	NumGC uint32 `json:"num_gc"`
	// HeapAllocBytes is the live heap size at the later snapshot.
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
}

// Take reads the current memory statistics.
//
// Returns:
// - A snapshot of the cumulative allocation and GC counters.
func Take() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Snapshot{
		TotalAllocBytes: m.TotalAlloc,
		Mallocs:         m.Mallocs,
		HeapAllocBytes:  m.HeapAlloc,
		NumGC:           m.NumGC,
	}
}

// Since returns the change from an earlier snapshot to s.
//
// Arguments:
// - before: The earlier snapshot.
//
// Returns:
// - The counter deltas; cumulative counters never decrease.
func (s Snapshot) Since(before Snapshot) Delta {
	return Delta{
		AllocBytes:     s.TotalAllocBytes - before.TotalAllocBytes,
		Mallocs:        s.Mallocs - before.Mallocs,
		NumGC:          s.NumGC - before.NumGC,
		HeapAllocBytes: s.HeapAllocBytes,
	}
}

// FormatBytes formats byte counts in human-readable format.
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
