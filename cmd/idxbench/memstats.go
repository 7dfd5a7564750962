package main

import "runtime"

// memStats is a point-in-time memory snapshot, used to compare the
// footprint of the page-cached btreeidx.Index against Pebble's in-memory
// memtable + block cache after each suite.
type memStats struct {
	allocMB     uint64
	heapObjects uint64
}

// sampleMem forces a GC so the sample reflects live data, not garbage
// still waiting to be collected.
func sampleMem() memStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return memStats{
		allocMB:     m.Alloc / 1024 / 1024,
		heapObjects: m.HeapObjects,
	}
}
