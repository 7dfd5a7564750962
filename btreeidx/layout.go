// Package btreeidx implements a disk-backed B+Tree index mapping 32-bit
// integer keys to opaque record locators. It is the primary access path
// for a small relational storage engine: tuples live in heap-organized
// table files (out of scope here), and this index accelerates equality
// and range predicates over one integer-keyed attribute.
//
// Page layout (page size P, pid a signed 32-bit page id):
//
//	metadata page (pid 0): { rootPid int32, treeHeight int32 }
//	leaf page:              [ entry_1 .. entry_C ][ nextSiblingPid int32 ]
//	internal page:          [ leftmostChildPid int32 ][ entry_1 .. entry_C ]
//
// Both node kinds share one capacity formula: C = floor((P - 4) / 8),
// since a leaf's trailing sibling pid and an internal node's leading
// child pid each cost exactly one pid-sized slot. A zero key marks an
// empty slot in both kinds — callers must never insert key 0.
package btreeidx

import "encoding/binary"

// DefaultPageSize is the page size used when a caller doesn't override it.
const DefaultPageSize = 1024

const pidSize = 4  // int32
const entrySize = 8 // int32 key + 4 bytes of payload, in both node kinds

// Capacity returns the maximum number of entries a node can hold for the
// given page size, per the shared leaf/internal formula.
func Capacity(pageSize int) int {
	return (pageSize - pidSize) / entrySize
}

// Pid is an index page id. NoPid marks "no page" (end of sibling chain,
// empty tree root).
type Pid int32

const NoPid Pid = -1

func getInt32(buf []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[off : off+4]))
}

func putInt32(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(v))
}

func getInt16(buf []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[off : off+2]))
}

func putInt16(buf []byte, off int, v int16) {
	binary.LittleEndian.PutUint16(buf[off:off+2], uint16(v))
}

// ── Leaf entry layout: [int32 key][int16 pageID][int16 slotID] ──────────────

func leafEntryOffset(i int) int { return i * entrySize }

func leafEntryKey(buf []byte, i int) int32 {
	return getInt32(buf, leafEntryOffset(i))
}

func leafEntryRID(buf []byte, i int) RecordID {
	off := leafEntryOffset(i)
	return RecordID{
		PageID: getInt16(buf, off+4),
		SlotID: getInt16(buf, off+6),
	}
}

func setLeafEntry(buf []byte, i int, key int32, rid RecordID) {
	off := leafEntryOffset(i)
	putInt32(buf, off, key)
	putInt16(buf, off+4, rid.PageID)
	putInt16(buf, off+6, rid.SlotID)
}

func clearLeafEntry(buf []byte, i int) {
	off := leafEntryOffset(i)
	for j := 0; j < entrySize; j++ {
		buf[off+j] = 0
	}
}

func leafSiblingOffset(capacity int) int { return capacity * entrySize }

// ── Internal entry layout: leading child pid, then [int32 key][int32 child] ─

func internalLeftmostOffset() int { return 0 }

func internalEntryOffset(i int) int { return pidSize + i*entrySize }

func internalEntryKey(buf []byte, i int) int32 {
	return getInt32(buf, internalEntryOffset(i))
}

func internalEntryChild(buf []byte, i int) Pid {
	return Pid(getInt32(buf, internalEntryOffset(i)+4))
}

func setInternalEntry(buf []byte, i int, key int32, child Pid) {
	off := internalEntryOffset(i)
	putInt32(buf, off, key)
	putInt32(buf, off+4, int32(child))
}

func clearInternalEntry(buf []byte, i int) {
	off := internalEntryOffset(i)
	for j := 0; j < entrySize; j++ {
		buf[off+j] = 0
	}
}
