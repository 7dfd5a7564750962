package main

import (
	"flag"
	"fmt"

	"github.com/relstore/btreeidx"
)

// runScan prints every (key, locator) pair from -from onward, in key order.
func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	cfg := bindConfigFlags(fs)
	from := fs.Int64("from", 0, "smallest key to start the scan at")
	fs.Parse(args)

	if cfg.IdxPath == "" {
		return fmt.Errorf("scan: -idx is required")
	}

	idx, err := cfg.openExisting()
	if err != nil {
		return err
	}
	defer idx.Close()

	if idx.RootPid() == btreeidx.NoPid {
		fmt.Println("0 entries")
		return nil
	}

	_, cur, err := idx.Locate(int32(*from))
	if err != nil && err != btreeidx.ErrNoSuchRecord {
		return fmt.Errorf("scan: %w", err)
	}

	sc := btreeidx.NewScanner(idx, cur)
	n := 0
	for {
		key, rid, err := sc.Next()
		if err == btreeidx.ErrNoSuchRecord {
			break
		}
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		fmt.Printf("%d -> page=%d slot=%d\n", key, rid.PageID, rid.SlotID)
		n++
	}

	fmt.Printf("%d entries\n", n)
	return nil
}
