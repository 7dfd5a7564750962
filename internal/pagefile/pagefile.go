// Package pagefile implements btreeidx.PageFile on top of an os.File: a
// flat array of fixed-size pages with an LRU cache of recently touched
// ones, sized in units of pages rather than bytes.
package pagefile

import (
	"fmt"
	"os"

	"github.com/relstore/btreeidx"
)

// DefaultCachePages is the cache size used when a caller doesn't override it.
const DefaultCachePages = 256

// File is a concrete, os.File-backed btreeidx.PageFile.
type File struct {
	file      *os.File
	pageSize  int
	cache     *lruCache
	pageCount int64 // total number of pages ever allocated, including pid 0
}

// Open opens (or creates) path as a page file with the given fixed page
// size, caching up to cachePages recently touched pages in memory.
func Open(path string, pageSize, cachePages int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("pagefile: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pagefile: stat %s: %w", path, err)
	}
	if info.Size()%int64(pageSize) != 0 {
		f.Close()
		return nil, fmt.Errorf("pagefile: %s: size %d is not a multiple of page size %d: %w", path, info.Size(), pageSize, btreeidx.ErrFileFormat)
	}

	return &File{
		file:      f,
		pageSize:  pageSize,
		cache:     newLRUCache(cachePages),
		pageCount: info.Size() / int64(pageSize),
	}, nil
}

// PageSize returns the fixed page size this file was opened with.
func (f *File) PageSize() int { return f.pageSize }

// EndPid returns one past the last allocated page id.
func (f *File) EndPid() btreeidx.Pid { return btreeidx.Pid(f.pageCount) }

// Read transfers the page at pid into buf, which must be exactly
// PageSize() bytes. Reading a never-written page beyond EndPid() is an error.
func (f *File) Read(pid btreeidx.Pid, buf []byte) error {
	if len(buf) != f.pageSize {
		return fmt.Errorf("pagefile: read pid %d: buffer is %d bytes, want %d", pid, len(buf), f.pageSize)
	}
	if int64(pid) >= f.pageCount {
		return fmt.Errorf("pagefile: read pid %d: %w", pid, btreeidx.ErrInvalidPid)
	}

	if cached := f.cache.get(pid); cached != nil {
		copy(buf, cached)
		return nil
	}

	if _, err := f.file.ReadAt(buf, f.offset(pid)); err != nil {
		return fmt.Errorf("pagefile: read pid %d: %w", pid, err)
	}
	cp := make([]byte, f.pageSize)
	copy(cp, buf)
	f.cache.put(pid, cp)
	return nil
}

// Write transfers buf to the page at pid, extending the file when pid
// equals EndPid() (the one-past-the-end "append" position).
func (f *File) Write(pid btreeidx.Pid, buf []byte) error {
	if len(buf) != f.pageSize {
		return fmt.Errorf("pagefile: write pid %d: buffer is %d bytes, want %d", pid, len(buf), f.pageSize)
	}
	if int64(pid) > f.pageCount {
		return fmt.Errorf("pagefile: write pid %d: %w", pid, btreeidx.ErrInvalidPid)
	}

	if _, err := f.file.WriteAt(buf, f.offset(pid)); err != nil {
		return fmt.Errorf("pagefile: write pid %d: %w", pid, err)
	}
	if int64(pid) == f.pageCount {
		f.pageCount++
	}

	cp := make([]byte, f.pageSize)
	copy(cp, buf)
	f.cache.put(pid, cp)
	return nil
}

// Close flushes and closes the underlying file.
func (f *File) Close() error {
	return f.file.Close()
}

func (f *File) offset(pid btreeidx.Pid) int64 {
	return int64(pid) * int64(f.pageSize)
}

// ─── LRU cache of page buffers ──────────────────────────────────────────────

type lruEntry struct {
	pid  btreeidx.Pid
	page []byte
	prev *lruEntry
	next *lruEntry
}

type lruCache struct {
	cap   int
	items map[btreeidx.Pid]*lruEntry
	head  *lruEntry // most recent
	tail  *lruEntry // least recent
}

func newLRUCache(cap int) *lruCache {
	if cap < 1 {
		cap = 1
	}
	return &lruCache{
		cap:   cap,
		items: make(map[btreeidx.Pid]*lruEntry, cap),
	}
}

func (c *lruCache) get(pid btreeidx.Pid) []byte {
	e, ok := c.items[pid]
	if !ok {
		return nil
	}
	c.moveToFront(e)
	return e.page
}

func (c *lruCache) put(pid btreeidx.Pid, page []byte) {
	if e, ok := c.items[pid]; ok {
		e.page = page
		c.moveToFront(e)
		return
	}
	e := &lruEntry{pid: pid, page: page}
	c.items[pid] = e
	c.pushFront(e)
	if len(c.items) > c.cap {
		c.evict()
	}
}

func (c *lruCache) pushFront(e *lruEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) moveToFront(e *lruEntry) {
	if c.head == e {
		return
	}
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.tail == e {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
}

func (c *lruCache) evict() {
	if c.tail == nil {
		return
	}
	delete(c.items, c.tail.pid)
	if c.tail.prev != nil {
		c.tail.prev.next = nil
	}
	c.tail = c.tail.prev
	if c.tail == nil {
		c.head = nil
	}
}
