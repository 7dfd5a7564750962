package main

import (
	"encoding/csv"
	"strconv"
)

// benchResult is one row of the benchmark CSV: one (structure, config,
// operation) measurement.
type benchResult struct {
	Structure   string
	Config      string
	Operation   string
	LatencyNs   int64
	MemMB       uint64
	HeapObjects uint64
}

func writeCSVHeader(w *csv.Writer) error {
	return w.Write([]string{"Structure", "Config", "Operation", "LatencyNs", "MemMB", "HeapObjects"})
}

func recordResult(w *csv.Writer, r benchResult) error {
	return w.Write([]string{
		r.Structure,
		r.Config,
		r.Operation,
		strconv.FormatInt(r.LatencyNs, 10),
		strconv.FormatUint(r.MemMB, 10),
		strconv.FormatUint(r.HeapObjects, 10),
	})
}
