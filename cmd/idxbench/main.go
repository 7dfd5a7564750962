// Command idxbench drives the same insert/locate/scan workload against
// btreeidx.Index and the Pebble-backed comparison index, and records
// latency and memory footprint for each.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/relstore/btreeidx"
	"github.com/relstore/btreeidx/internal/pagefile"
	"github.com/relstore/btreeidx/internal/refindex/pebbleidx"
)

type config struct {
	n        int
	pageSize int
	outDir   string
}

func parseFlags() config {
	var c config
	flag.IntVar(&c.n, "n", 200000, "number of keys to insert")
	flag.IntVar(&c.pageSize, "pagesize", btreeidx.DefaultPageSize, "btreeidx page size in bytes")
	flag.StringVar(&c.outDir, "out", "bench_results", "directory to write results.csv and results.png into")
	flag.Parse()
	return c
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		log.Fatalf("idxbench: %v", err)
	}
}

func run(cfg config) error {
	if err := os.MkdirAll(cfg.outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	csvPath := filepath.Join(cfg.outDir, "results.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", csvPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := writeCSVHeader(w); err != nil {
		return err
	}

	var allResults []benchResult

	btreeResults, err := runBTreeSuite(cfg)
	if err != nil {
		return fmt.Errorf("btreeidx suite: %w", err)
	}
	allResults = append(allResults, btreeResults...)

	pebbleResults, err := runPebbleSuite(cfg)
	if err != nil {
		return fmt.Errorf("pebbleidx suite: %w", err)
	}
	allResults = append(allResults, pebbleResults...)

	for _, r := range allResults {
		if err := recordResult(w, r); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	chartPath := filepath.Join(cfg.outDir, "results.png")
	if err := renderChart(chartPath, allResults); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	fmt.Printf("wrote %s and %s\n", csvPath, chartPath)
	return nil
}

func runBTreeSuite(cfg config) ([]benchResult, error) {
	dir, err := os.MkdirTemp("", "idxbench-btree-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	pf, err := pagefile.Open(filepath.Join(dir, "bench.idx"), cfg.pageSize, 1024)
	if err != nil {
		return nil, err
	}
	idx, err := btreeidx.Create(pf)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	var results []benchResult
	confStr := fmt.Sprintf("page=%d", cfg.pageSize)

	start := time.Now()
	for k := 1; k <= cfg.n; k++ {
		if err := idx.Insert(int32(k), btreeidx.RecordID{PageID: int16(k), SlotID: 0}); err != nil {
			return nil, fmt.Errorf("insert %d: %w", k, err)
		}
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(cfg.n)
	mem := sampleMem()
	results = append(results, benchResult{"btreeidx", confStr, "Insert", insertLatency, mem.allocMB, mem.heapObjects})

	lookups := cfg.n / 10
	if lookups < 1 {
		lookups = 1
	}
	start = time.Now()
	for i := 0; i < lookups; i++ {
		key := int32(rand.Intn(cfg.n) + 1)
		if _, _, err := idx.Locate(key); err != nil && err != btreeidx.ErrNoSuchRecord {
			return nil, fmt.Errorf("locate %d: %w", key, err)
		}
	}
	locateLatency := time.Since(start).Nanoseconds() / int64(lookups)
	mem = sampleMem()
	results = append(results, benchResult{"btreeidx", confStr, "Locate", locateLatency, mem.allocMB, mem.heapObjects})

	start = time.Now()
	_, cur, err := idx.Locate(0)
	if err != nil && err != btreeidx.ErrNoSuchRecord {
		return nil, err
	}
	scanner := btreeidx.NewScanner(idx, cur)
	scanned := 0
	for {
		if _, _, err := scanner.Next(); err != nil {
			if err == btreeidx.ErrNoSuchRecord {
				break
			}
			return nil, fmt.Errorf("scan: %w", err)
		}
		scanned++
	}
	scanLatency := time.Since(start).Nanoseconds() / int64(max(scanned, 1))
	mem = sampleMem()
	results = append(results, benchResult{"btreeidx", confStr, "ScanAll", scanLatency, mem.allocMB, mem.heapObjects})

	return results, nil
}

func runPebbleSuite(cfg config) ([]benchResult, error) {
	dir, err := os.MkdirTemp("", "idxbench-pebble-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	idx, err := pebbleidx.Open(dir)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	var results []benchResult
	confStr := "default"

	start := time.Now()
	for k := 1; k <= cfg.n; k++ {
		if err := idx.Insert(int32(k), btreeidx.RecordID{PageID: int16(k), SlotID: 0}); err != nil {
			return nil, fmt.Errorf("insert %d: %w", k, err)
		}
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(cfg.n)
	mem := sampleMem()
	results = append(results, benchResult{"pebbleidx", confStr, "Insert", insertLatency, mem.allocMB, mem.heapObjects})

	lookups := cfg.n / 10
	if lookups < 1 {
		lookups = 1
	}
	start = time.Now()
	for i := 0; i < lookups; i++ {
		key := int32(rand.Intn(cfg.n) + 1)
		if _, err := idx.Locate(key); err != nil && err != btreeidx.ErrNoSuchRecord {
			return nil, fmt.Errorf("locate %d: %w", key, err)
		}
	}
	locateLatency := time.Since(start).Nanoseconds() / int64(lookups)
	mem = sampleMem()
	results = append(results, benchResult{"pebbleidx", confStr, "Locate", locateLatency, mem.allocMB, mem.heapObjects})

	start = time.Now()
	scanned := 0
	if err := idx.ScanAll(func(int32, btreeidx.RecordID) error {
		scanned++
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	scanLatency := time.Since(start).Nanoseconds() / int64(max(scanned, 1))
	mem = sampleMem()
	results = append(results, benchResult{"pebbleidx", confStr, "ScanAll", scanLatency, mem.allocMB, mem.heapObjects})

	return results, nil
}
