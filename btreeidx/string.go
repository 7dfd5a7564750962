package btreeidx

import (
	"fmt"
	"strings"
)

// String renders a leaf's occupied entries as "[key:pid.slot ...] -> next".
func (n *LeafNode) String() string {
	var b strings.Builder
	b.WriteByte('[')
	count := n.KeyCount()
	for i := 0; i < count; i++ {
		key, rid, _ := n.ReadEntry(i)
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d:%d.%d", key, rid.PageID, rid.SlotID)
	}
	b.WriteByte(']')
	fmt.Fprintf(&b, " -> %d", n.GetNextNodePtr())
	return b.String()
}

// String renders an internal node's routing entries as
// "child0 key1 child1 key2 child2 ...".
func (n *InternalNode) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", n.LeftmostChild())
	count := n.KeyCount()
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, " %d %d", internalEntryKey(n.buf, i), internalEntryChild(n.buf, i))
	}
	return b.String()
}

// String dumps the whole tree level by level, leaf entries last.
func (idx *Index) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "root=%d height=%d\n", idx.rootPid, idx.treeHeight)
	if idx.rootPid == NoPid {
		return b.String()
	}
	idx.dumpLevel(&b, []Pid{idx.rootPid}, idx.treeHeight)
	return b.String()
}

func (idx *Index) dumpLevel(b *strings.Builder, pids []Pid, height int32) {
	if height == 1 {
		leaf := NewLeafNode(idx.pf.PageSize())
		for _, pid := range pids {
			if err := leaf.Read(idx.pf, pid); err != nil {
				fmt.Fprintf(b, "leaf %d: <read error: %v>\n", pid, err)
				continue
			}
			fmt.Fprintf(b, "leaf %d: %s\n", pid, leaf)
		}
		return
	}

	node := NewInternalNode(idx.pf.PageSize())
	var children []Pid
	for _, pid := range pids {
		if err := node.Read(idx.pf, pid); err != nil {
			fmt.Fprintf(b, "node %d: <read error: %v>\n", pid, err)
			continue
		}
		fmt.Fprintf(b, "node %d: %s\n", pid, node)
		children = append(children, node.LeftmostChild())
		for i := 0; i < node.KeyCount(); i++ {
			children = append(children, internalEntryChild(node.buf, i))
		}
	}
	idx.dumpLevel(b, children, height-1)
}
