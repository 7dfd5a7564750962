package main

import (
	"flag"
	"fmt"

	"github.com/relstore/btreeidx"
)

// runLookup prints the record locator stored for a single key, if any.
func runLookup(args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	cfg := bindConfigFlags(fs)
	key := fs.Int64("key", 0, "key to look up")
	fs.Parse(args)

	if cfg.IdxPath == "" {
		return fmt.Errorf("lookup: -idx is required")
	}

	idx, err := cfg.openExisting()
	if err != nil {
		return err
	}
	defer idx.Close()

	rid, _, err := idx.Locate(int32(*key))
	if err == btreeidx.ErrNoSuchRecord {
		fmt.Printf("key %d not found\n", *key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup %d: %w", *key, err)
	}

	fmt.Printf("key %d -> page=%d slot=%d\n", *key, rid.PageID, rid.SlotID)
	return nil
}
