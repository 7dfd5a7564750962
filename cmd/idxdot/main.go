// Command idxdot renders a btreeidx index file as a Graphviz diagram, for
// debugging tree shape and split behavior by eye.
//
// Usage:
//
//	idxdot -idx table.idx -out tree.png [-pagesize 1024]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/relstore/btreeidx"
	"github.com/relstore/btreeidx/internal/pagefile"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("idxdot: ")

	idxPath := flag.String("idx", "", "index file to render")
	outPath := flag.String("out", "tree.png", "output PNG path")
	dotPath := flag.String("dot", "", "keep the intermediate .dot file at this path instead of a temp file")
	pageSize := flag.Int("pagesize", btreeidx.DefaultPageSize, "page size in bytes")
	flag.Parse()

	if *idxPath == "" {
		log.Fatal("-idx is required")
	}

	if err := run(*idxPath, *outPath, *dotPath, *pageSize); err != nil {
		log.Fatal(err)
	}
}

func run(idxPath, outPath, dotPath string, pageSize int) error {
	pf, err := pagefile.Open(idxPath, pageSize, pagefile.DefaultCachePages)
	if err != nil {
		return fmt.Errorf("open %s: %w", idxPath, err)
	}
	idx, err := btreeidx.Open(pf)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()

	keepDot := dotPath != ""
	if !keepDot {
		f, err := os.CreateTemp("", "idxdot-*.dot")
		if err != nil {
			return fmt.Errorf("create temp dot file: %w", err)
		}
		dotPath = f.Name()
		f.Close()
		defer os.Remove(dotPath)
	}

	if err := exportDOT(idx, dotPath); err != nil {
		return fmt.Errorf("export dot: %w", err)
	}

	cmd := exec.Command("dot", "-Tpng", dotPath, "-o", outPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run graphviz 'dot' (is it installed?): %w", err)
	}

	fmt.Printf("wrote %s\n", outPath)
	return nil
}
