// Command idxtool builds, inspects, and queries a btreeidx index file
// from the command line.
//
// Usage:
//
//	idxtool build -idx table.idx -csv records.csv [-pagesize 1024]
//	idxtool lookup -idx table.idx -key 42
//	idxtool scan -idx table.idx [-from 0]
//	idxtool info -idx table.idx
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/relstore/btreeidx"
	"github.com/relstore/btreeidx/internal/pagefile"
)

// Config holds the page-file settings shared by every subcommand.
type Config struct {
	IdxPath    string
	PageSize   int
	CachePages int
}

func bindConfigFlags(fs *flag.FlagSet) *Config {
	cfg := &Config{}
	fs.StringVar(&cfg.IdxPath, "idx", "", "index file path")
	fs.IntVar(&cfg.PageSize, "pagesize", btreeidx.DefaultPageSize, "page size in bytes")
	fs.IntVar(&cfg.CachePages, "cache", pagefile.DefaultCachePages, "number of pages to cache in memory")
	return cfg
}

func (cfg *Config) openExisting() (*btreeidx.Index, error) {
	pf, err := pagefile.Open(cfg.IdxPath, cfg.PageSize, cfg.CachePages)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.IdxPath, err)
	}
	idx, err := btreeidx.Open(pf)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return idx, nil
}

func (cfg *Config) createFresh() (*btreeidx.Index, error) {
	pf, err := pagefile.Open(cfg.IdxPath, cfg.PageSize, cfg.CachePages)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.IdxPath, err)
	}
	idx, err := btreeidx.Create(pf)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return idx, nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("idxtool: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "lookup":
		err = runLookup(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: idxtool <build|lookup|scan|info> [flags]")
}
