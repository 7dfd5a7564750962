package btreeidx

import "errors"

// Errors surfaced to callers (spec error taxonomy). NoSuchRecord is
// non-fatal: the cursor it accompanies is still positioned correctly
// for a forward scan. All others are fatal to the current operation.
var (
	// ErrNoSuchRecord is returned by Locate when the search key is not
	// present in the index.
	ErrNoSuchRecord = errors.New("btreeidx: no such record")

	// ErrInvalidPid is returned by SetNextNodePtr when given a negative pid
	// other than NoPid.
	ErrInvalidPid = errors.New("btreeidx: invalid pid")

	// ErrInvalidEid is returned on an out-of-range entry index.
	ErrInvalidEid = errors.New("btreeidx: invalid entry id")

	// ErrFileFormat is returned when the backing file's layout is
	// malformed: internal/pagefile.Open reports it when the file size is
	// not a multiple of the page size.
	ErrFileFormat = errors.New("btreeidx: bad file format")

	// errNodeFull is an internal signal only: it never escapes the
	// Index's public API. It is returned by LeafNode/InternalNode
	// Insert to tell the caller a split is required.
	errNodeFull = errors.New("btreeidx: node full")
)
