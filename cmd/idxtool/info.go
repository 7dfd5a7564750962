package main

import (
	"flag"
	"fmt"
)

// runInfo prints the tree height and total entry count of an index file.
func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cfg := bindConfigFlags(fs)
	fs.Parse(args)

	if cfg.IdxPath == "" {
		return fmt.Errorf("info: -idx is required")
	}

	idx, err := cfg.openExisting()
	if err != nil {
		return err
	}
	defer idx.Close()

	count, err := idx.Count()
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	fmt.Printf("path=%s height=%d entries=%d pagesize=%d\n", cfg.IdxPath, idx.Height(), count, idx.PageSize())
	return nil
}
