package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/relstore/btreeidx"
)

// runBuild creates a fresh index file and populates it from a CSV of
// "key,pageID,slotID" rows (no header).
func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfg := bindConfigFlags(fs)
	csvPath := fs.String("csv", "", "input CSV of key,pageID,slotID rows")
	fs.Parse(args)

	if cfg.IdxPath == "" || *csvPath == "" {
		return fmt.Errorf("build: -idx and -csv are required")
	}

	in, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", *csvPath, err)
	}
	defer in.Close()

	idx, err := cfg.createFresh()
	if err != nil {
		return err
	}
	defer idx.Close()

	r := csv.NewReader(in)
	r.FieldsPerRecord = 3
	n := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", *csvPath, err)
		}
		key, err := strconv.ParseInt(rec[0], 10, 32)
		if err != nil {
			return fmt.Errorf("row %d: bad key %q: %w", n+1, rec[0], err)
		}
		pageID, err := strconv.ParseInt(rec[1], 10, 16)
		if err != nil {
			return fmt.Errorf("row %d: bad pageID %q: %w", n+1, rec[1], err)
		}
		slotID, err := strconv.ParseInt(rec[2], 10, 16)
		if err != nil {
			return fmt.Errorf("row %d: bad slotID %q: %w", n+1, rec[2], err)
		}
		rid := btreeidx.RecordID{PageID: int16(pageID), SlotID: int16(slotID)}
		if err := idx.Insert(int32(key), rid); err != nil {
			return fmt.Errorf("row %d: insert %d: %w", n+1, key, err)
		}
		n++
	}

	fmt.Printf("inserted %d entries into %s (height %d)\n", n, cfg.IdxPath, idx.Height())
	return nil
}
