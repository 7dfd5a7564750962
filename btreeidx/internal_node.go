package btreeidx

// InternalNode is an in-memory view over one page-sized buffer holding a
// leftmost child pid followed by a sorted sequence of (key, child pid)
// entries. An internal node routes searches; it never stores RecordIDs.
//
// Entry i's key is the smallest key reachable through entry i's child
// (equivalently: the separator between child i-1 and child i, where
// child -1 is the leftmost pointer). Locate walks entries left to right
// and returns the leftmost-pointer child when the search key is smaller
// than every entry's key.
type InternalNode struct {
	buf      []byte
	capacity int
}

// NewInternalNode allocates a zeroed internal-node view sized for pageSize.
func NewInternalNode(pageSize int) *InternalNode {
	return &InternalNode{
		buf:      make([]byte, pageSize),
		capacity: Capacity(pageSize),
	}
}

// Read transfers the page at pid from pf into this node.
func (n *InternalNode) Read(pf PageFile, pid Pid) error {
	return pf.Read(pid, n.buf)
}

// Write transfers this node's buffer to the page at pid.
func (n *InternalNode) Write(pf PageFile, pid Pid) error {
	return pf.Write(pid, n.buf)
}

// InitializeRoot sets up a fresh two-child root: leftmost pointer left,
// one routing entry (key, right).
func (n *InternalNode) InitializeRoot(left Pid, key int32, right Pid) {
	putInt32(n.buf, internalLeftmostOffset(), int32(left))
	setInternalEntry(n.buf, 0, key, right)
}

// KeyCount returns the number of occupied routing entries, found the same
// way a leaf's is: scan for the first zero key, or capacity.
func (n *InternalNode) KeyCount() int {
	for i := 0; i < n.capacity; i++ {
		if internalEntryKey(n.buf, i) == 0 {
			return i
		}
	}
	return n.capacity
}

// LeftmostChild returns the pointer used when the search key is smaller
// than every routing entry.
func (n *InternalNode) LeftmostChild() Pid {
	return Pid(getInt32(n.buf, internalLeftmostOffset()))
}

// EntryKey returns the key of routing entry i, bounds-checked against KeyCount.
func (n *InternalNode) EntryKey(i int) (int32, error) {
	if i < 0 || i >= n.KeyCount() {
		return 0, ErrInvalidEid
	}
	return internalEntryKey(n.buf, i), nil
}

// EntryChild returns the child pid of routing entry i, bounds-checked
// against KeyCount.
func (n *InternalNode) EntryChild(i int) (Pid, error) {
	if i < 0 || i >= n.KeyCount() {
		return NoPid, ErrInvalidEid
	}
	return internalEntryChild(n.buf, i), nil
}

// LocateChildPtr returns the child pid to descend into for searchKey: the
// leftmost pointer if searchKey is smaller than every entry's key,
// otherwise the child of the last entry whose key is <= searchKey.
func (n *InternalNode) LocateChildPtr(searchKey int32) Pid {
	count := n.KeyCount()
	child := n.LeftmostChild()
	for i := 0; i < count; i++ {
		if internalEntryKey(n.buf, i) > searchKey {
			break
		}
		child = internalEntryChild(n.buf, i)
	}
	return child
}

// locateInsertPos returns the index a new (key, child) entry belongs at,
// i.e. the smallest i with entries[i].key > key.
func (n *InternalNode) locateInsertPos(key int32) int {
	count := n.KeyCount()
	for i := 0; i < count; i++ {
		if internalEntryKey(n.buf, i) > key {
			return i
		}
	}
	return count
}

// Insert places a (key, child) routing entry in sorted position. It fails
// with errNodeFull if the node is already at capacity. Insertion at the
// end and insertion in the middle are handled identically: both shift the
// tail right before writing, with no special-cased append path.
func (n *InternalNode) Insert(key int32, child Pid) error {
	count := n.KeyCount()
	if count == n.capacity {
		return errNodeFull
	}
	i := n.locateInsertPos(key)
	for j := count; j > i; j-- {
		k := internalEntryKey(n.buf, j-1)
		c := internalEntryChild(n.buf, j-1)
		setInternalEntry(n.buf, j, k, c)
	}
	setInternalEntry(n.buf, i, key, child)
	return nil
}

// InsertAndSplit splits a full internal node. Precondition: sibling is
// empty and this node is full with n = KeyCount() entries.
//
// s = floor((n-1)/2); if key > entries[s+1].key, s++ (so a new key destined
// for the right half also shifts the pivot right). The pivot entries[s].key
// is promoted to the parent and is NOT stored in either half — unlike a
// leaf split, an internal node holds no data at the separator key, only
// routing pointers, so there is nothing to duplicate. Sibling is
// initialized with entries[s].child as its leftmost pointer and
// entries[s+1:n) as its routing entries; this node is truncated to its
// first s entries. Finally the new (key, child) lands in whichever half
// keeps that half's ordering.
func (n *InternalNode) InsertAndSplit(key int32, child Pid, sibling *InternalNode) (promotedKey int32, err error) {
	count := n.KeyCount()

	s := (count - 1) / 2
	if key > internalEntryKey(n.buf, s+1) {
		s++
	}
	promotedKey = internalEntryKey(n.buf, s)

	putInt32(sibling.buf, internalLeftmostOffset(), int32(internalEntryChild(n.buf, s)))
	for j := s + 1; j < count; j++ {
		setInternalEntry(sibling.buf, j-s-1, internalEntryKey(n.buf, j), internalEntryChild(n.buf, j))
	}
	for j := s; j < count; j++ {
		clearInternalEntry(n.buf, j)
	}

	if key < promotedKey {
		i := n.locateInsertPos(key) // within this node's surviving s entries
		for j := s; j > i; j-- {
			k := internalEntryKey(n.buf, j-1)
			c := internalEntryChild(n.buf, j-1)
			setInternalEntry(n.buf, j, k, c)
		}
		setInternalEntry(n.buf, i, key, child)
	} else {
		rcount := count - s - 1
		ri := sibling.locateInsertPos(key)
		for j := rcount; j > ri; j-- {
			k := internalEntryKey(sibling.buf, j-1)
			c := internalEntryChild(sibling.buf, j-1)
			setInternalEntry(sibling.buf, j, k, c)
		}
		setInternalEntry(sibling.buf, ri, key, child)
	}

	return promotedKey, nil
}
