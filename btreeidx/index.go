package btreeidx

import "fmt"

// bootstrapLeafPid is the hardcoded pid of the very first leaf an empty
// index ever allocates. Pid 0 is reserved for metadata, so the first
// leaf is pinned here rather than obtained from PageFile.EndPid() — on a
// brand new file EndPid() and this constant agree anyway, but pinning it
// keeps an empty index's shape fixed regardless of allocator behavior.
const bootstrapLeafPid Pid = 1

// Index is a disk-backed B+Tree mapping int32 keys to RecordIDs. It owns
// no page-file state itself beyond the pid-0 metadata cache; every
// operation reads whatever pages it needs from pf and writes back the
// ones it changes.
type Index struct {
	pf         PageFile
	rootPid    Pid
	treeHeight int32
}

// Open reads the metadata page of pf and returns a ready Index. pf must
// already be positioned at a valid (possibly empty) index file: Open
// does not format one. A file with no pages at all, such as one left by
// Create with no Insert, opens as an empty index. Use Index.Create to
// initialize a fresh file.
func Open(pf PageFile) (*Index, error) {
	if pf.EndPid() == 0 {
		return &Index{pf: pf, rootPid: NoPid, treeHeight: 0}, nil
	}
	m, err := readMetadata(pf)
	if err != nil {
		return nil, fmt.Errorf("btreeidx: open: %w", err)
	}
	return &Index{pf: pf, rootPid: m.rootPid, treeHeight: m.treeHeight}, nil
}

// Create returns a handle onto a fresh, empty index over pf. pf must have
// no pages allocated yet. Create itself writes nothing to pf — the
// metadata page is not formatted on disk until the first Insert
// allocates the first leaf, so EndPid() stays 0 until then.
func Create(pf PageFile) (*Index, error) {
	return &Index{pf: pf, rootPid: NoPid, treeHeight: 0}, nil
}

// Close releases the underlying page file.
func (idx *Index) Close() error {
	return idx.pf.Close()
}

// Height returns the number of node levels in the tree, 0 for an empty index.
func (idx *Index) Height() int32 { return idx.treeHeight }

// RootPid returns the pid of the root node, or NoPid for an empty index.
func (idx *Index) RootPid() Pid { return idx.rootPid }

// PageSize returns the page size of the underlying page file.
func (idx *Index) PageSize() int { return idx.pf.PageSize() }

// ReadLeaf reads the leaf node at pid. It is exposed for tools (debug
// dumps, Graphviz export) that need to walk the tree from outside the
// package; ordinary callers should use Locate/ReadForward/Scanner.
func (idx *Index) ReadLeaf(pid Pid) (*LeafNode, error) {
	leaf := NewLeafNode(idx.pf.PageSize())
	if err := leaf.Read(idx.pf, pid); err != nil {
		return nil, err
	}
	return leaf, nil
}

// ReadInternal reads the internal node at pid. See ReadLeaf.
func (idx *Index) ReadInternal(pid Pid) (*InternalNode, error) {
	node := NewInternalNode(idx.pf.PageSize())
	if err := node.Read(idx.pf, pid); err != nil {
		return nil, err
	}
	return node, nil
}

// Count returns the number of entries in the index by walking the leaf
// chain once. It is O(n); callers on a hot path should track counts
// themselves.
func (idx *Index) Count() (int, error) {
	if idx.rootPid == NoPid {
		return 0, nil
	}
	pid, err := idx.leftmostLeaf()
	if err != nil {
		return 0, err
	}
	total := 0
	leaf := NewLeafNode(idx.pf.PageSize())
	for pid != NoPid {
		if err := leaf.Read(idx.pf, pid); err != nil {
			return 0, err
		}
		total += leaf.KeyCount()
		pid = leaf.GetNextNodePtr()
	}
	return total, nil
}

func (idx *Index) leftmostLeaf() (Pid, error) {
	pid := idx.rootPid
	height := idx.treeHeight
	node := NewInternalNode(idx.pf.PageSize())
	for height > 1 {
		if err := node.Read(idx.pf, pid); err != nil {
			return NoPid, err
		}
		pid = node.LeftmostChild()
		height--
	}
	return pid, nil
}

func (idx *Index) flushMetadata() error {
	return writeMetadata(idx.pf, metadata{rootPid: idx.rootPid, treeHeight: idx.treeHeight})
}

func (idx *Index) allocPid() Pid {
	return idx.pf.EndPid()
}

// Insert adds (key, rid) to the index. key must not be 0: that value is
// the structural "empty slot" sentinel and inserting it would corrupt
// every KeyCount() scan that follows.
func (idx *Index) Insert(key int32, rid RecordID) error {
	if key == 0 {
		return fmt.Errorf("btreeidx: insert: key 0 is reserved")
	}

	if idx.rootPid == NoPid {
		leaf := NewLeafNode(idx.pf.PageSize())
		if err := leaf.SetNextNodePtr(NoPid); err != nil {
			return err
		}
		if err := leaf.Insert(key, rid); err != nil {
			return err
		}
		// The metadata page (pid 0) has never been written on a fresh
		// file: EndPid() is still 0. flushMetadata must run first so it
		// lands at pid 0 and advances EndPid() to 1, the pid the
		// bootstrap leaf write below requires.
		idx.rootPid = bootstrapLeafPid
		idx.treeHeight = 1
		if err := idx.flushMetadata(); err != nil {
			return err
		}
		return leaf.Write(idx.pf, bootstrapLeafPid)
	}

	promoted, promotedKey, promotedPid, err := idx.insertInto(idx.rootPid, idx.treeHeight, key, rid)
	if err != nil {
		return err
	}
	if !promoted {
		return nil
	}

	newRootPid := idx.allocPid()
	newRoot := NewInternalNode(idx.pf.PageSize())
	newRoot.InitializeRoot(idx.rootPid, promotedKey, promotedPid)
	if err := newRoot.Write(idx.pf, newRootPid); err != nil {
		return err
	}
	idx.rootPid = newRootPid
	idx.treeHeight++
	return idx.flushMetadata()
}

// insertInto recursively descends to the leaf level and inserts, using
// the call stack as the implicit parent chain. It returns (true, key,
// pid, nil) when the node at pid split and a new routing entry must be
// absorbed by the caller.
func (idx *Index) insertInto(pid Pid, height int32, key int32, rid RecordID) (promoted bool, promotedKey int32, promotedPid Pid, err error) {
	if height == 1 {
		return idx.insertIntoLeaf(pid, key, rid)
	}

	node := NewInternalNode(idx.pf.PageSize())
	if err := node.Read(idx.pf, pid); err != nil {
		return false, 0, 0, err
	}
	childPid := node.LocateChildPtr(key)

	childPromoted, childKey, childPid2, err := idx.insertInto(childPid, height-1, key, rid)
	if err != nil {
		return false, 0, 0, err
	}
	if !childPromoted {
		return false, 0, 0, nil
	}

	if err := node.Insert(childKey, childPid2); err == nil {
		if err := node.Write(idx.pf, pid); err != nil {
			return false, 0, 0, err
		}
		return false, 0, 0, nil
	} else if err != errNodeFull {
		return false, 0, 0, err
	}

	siblingPid := idx.allocPid()
	sibling := NewInternalNode(idx.pf.PageSize())
	promoKey, err := node.InsertAndSplit(childKey, childPid2, sibling)
	if err != nil {
		return false, 0, 0, err
	}
	if err := node.Write(idx.pf, pid); err != nil {
		return false, 0, 0, err
	}
	if err := sibling.Write(idx.pf, siblingPid); err != nil {
		return false, 0, 0, err
	}
	return true, promoKey, siblingPid, nil
}

func (idx *Index) insertIntoLeaf(pid Pid, key int32, rid RecordID) (promoted bool, promotedKey int32, promotedPid Pid, err error) {
	leaf := NewLeafNode(idx.pf.PageSize())
	if err := leaf.Read(idx.pf, pid); err != nil {
		return false, 0, 0, err
	}

	if err := leaf.Insert(key, rid); err == nil {
		if err := leaf.Write(idx.pf, pid); err != nil {
			return false, 0, 0, err
		}
		return false, 0, 0, nil
	} else if err != errNodeFull {
		return false, 0, 0, err
	}

	siblingPid := idx.allocPid()
	sibling := NewLeafNode(idx.pf.PageSize())
	siblingKey, err := leaf.InsertAndSplit(key, rid, sibling)
	if err != nil {
		return false, 0, 0, err
	}

	// Fixed sibling linking: the new sibling inherits the old leaf's
	// forward pointer, and the old leaf now points at the new sibling.
	// (An earlier revision overwrote this unconditionally, which dropped
	// every leaf to the right of a split from the forward chain.)
	if err := sibling.SetNextNodePtr(leaf.GetNextNodePtr()); err != nil {
		return false, 0, 0, err
	}
	if err := leaf.SetNextNodePtr(siblingPid); err != nil {
		return false, 0, 0, err
	}

	if err := leaf.Write(idx.pf, pid); err != nil {
		return false, 0, 0, err
	}
	if err := sibling.Write(idx.pf, siblingPid); err != nil {
		return false, 0, 0, err
	}
	return true, siblingKey, siblingPid, nil
}

// Locate searches for key and returns its RecordID and a Cursor
// positioned at the matching entry. If key is absent, it returns
// ErrNoSuchRecord along with a Cursor positioned at the entry where key
// would be inserted — still valid for a forward scan of whatever comes
// after it.
func (idx *Index) Locate(key int32) (RecordID, Cursor, error) {
	if idx.rootPid == NoPid {
		return RecordID{}, Cursor{}, ErrNoSuchRecord
	}

	pid := idx.rootPid
	height := idx.treeHeight
	node := NewInternalNode(idx.pf.PageSize())
	for height > 1 {
		if err := node.Read(idx.pf, pid); err != nil {
			return RecordID{}, Cursor{}, err
		}
		pid = node.LocateChildPtr(key)
		height--
	}

	leaf := NewLeafNode(idx.pf.PageSize())
	if err := leaf.Read(idx.pf, pid); err != nil {
		return RecordID{}, Cursor{}, err
	}
	found, eid := leaf.Locate(key)
	cur := Cursor{Pid: pid, Eid: eid}
	if !found {
		return RecordID{}, cur, ErrNoSuchRecord
	}
	_, rid, err := leaf.ReadEntry(eid)
	if err != nil {
		return RecordID{}, Cursor{}, err
	}
	return rid, cur, nil
}

// ReadForward returns the entry at cur and the cursor for the entry
// immediately after it within the SAME leaf. It does not follow a leaf's
// sibling pointer: when cur.Eid is the last occupied entry of its leaf,
// the returned next Cursor is out of range for this leaf and a further
// ReadForward on it fails with ErrInvalidEid. Callers that want to
// stream across leaf boundaries should use Scanner, or follow
// GetNextNodePtr on the leaf themselves.
func (idx *Index) ReadForward(cur Cursor) (int32, RecordID, Cursor, error) {
	leaf := NewLeafNode(idx.pf.PageSize())
	if err := leaf.Read(idx.pf, cur.Pid); err != nil {
		return 0, RecordID{}, cur, err
	}
	key, rid, err := leaf.ReadEntry(cur.Eid)
	if err != nil {
		return 0, RecordID{}, cur, err
	}
	next := Cursor{Pid: cur.Pid, Eid: cur.Eid + 1}
	return key, rid, next, nil
}

// nextLeaf returns the forward sibling pid of the leaf at pid.
func (idx *Index) nextLeaf(pid Pid) (Pid, error) {
	leaf := NewLeafNode(idx.pf.PageSize())
	if err := leaf.Read(idx.pf, pid); err != nil {
		return NoPid, err
	}
	return leaf.GetNextNodePtr(), nil
}
