package main

import (
	"fmt"
	"os"

	"github.com/relstore/btreeidx"
)

// exportDOT walks idx's tree and writes a Graphviz description to path:
// one box per node, blue for internal routing nodes and green for
// leaves, with dashed horizontal edges tracing the leaf sibling chain.
func exportDOT(idx *btreeidx.Index, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "digraph BTreeIdx {")
	fmt.Fprintln(f, "  graph [ranksep=0.8, nodesep=0.5, rankdir=TB];")
	fmt.Fprintln(f, "  node [shape=none, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(f, "  edge [arrowsize=0.8, color=\"#444444\"];")

	if idx.RootPid() == btreeidx.NoPid {
		fmt.Fprintln(f, "  empty [label=\"(empty index)\"];")
		fmt.Fprintln(f, "}")
		return nil
	}

	var leafPids []btreeidx.Pid
	counter := 0
	names := make(map[btreeidx.Pid]string)

	var walk func(pid btreeidx.Pid, height int32) (string, error)
	walk = func(pid btreeidx.Pid, height int32) (string, error) {
		if name, ok := names[pid]; ok {
			return name, nil
		}
		name := fmt.Sprintf("node%d", counter)
		counter++
		names[pid] = name

		if height == 1 {
			leaf, err := idx.ReadLeaf(pid)
			if err != nil {
				return name, err
			}
			fmt.Fprintf(f, "  %s [label=%s];\n", name, leafLabel(pid, leaf))
			leafPids = append(leafPids, pid)
			return name, nil
		}

		node, err := idx.ReadInternal(pid)
		if err != nil {
			return name, err
		}
		count := node.KeyCount()
		fmt.Fprintf(f, "  %s [label=%s];\n", name, internalLabel(pid, node))

		leftName, err := walk(node.LeftmostChild(), height-1)
		if err != nil {
			return name, err
		}
		fmt.Fprintf(f, "  %s:f0 -> %s;\n", name, leftName)

		for i := 0; i < count; i++ {
			child, err := node.EntryChild(i)
			if err != nil {
				return name, err
			}
			childName, err := walk(child, height-1)
			if err != nil {
				return name, err
			}
			fmt.Fprintf(f, "  %s:f%d -> %s;\n", name, i+1, childName)
		}
		return name, nil
	}

	if _, err := walk(idx.RootPid(), idx.Height()); err != nil {
		return err
	}

	if len(leafPids) > 1 {
		fmt.Fprintln(f, "  { rank=same;")
		for _, pid := range leafPids {
			fmt.Fprintf(f, "    %s;\n", names[pid])
		}
		fmt.Fprintln(f, "  }")
		for _, pid := range leafPids {
			leaf, err := idx.ReadLeaf(pid)
			if err != nil {
				return err
			}
			next := leaf.GetNextNodePtr()
			if next != btreeidx.NoPid {
				if target, ok := names[next]; ok {
					fmt.Fprintf(f, "  %s -> %s [style=dashed, color=\"#03A9F4\", constraint=false];\n", names[pid], target)
				}
			}
		}
	}

	fmt.Fprintln(f, "}")
	return nil
}

func leafLabel(pid btreeidx.Pid, leaf *btreeidx.LeafNode) string {
	label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">`+
		`<TR><TD BGCOLOR="#D5E8D4"><B>PAGE %d (LEAF)</B></TD></TR>`+
		`<TR><TD BGCOLOR="#F5F5F5" ALIGN="LEFT">`, pid)
	for i := 0; i < leaf.KeyCount(); i++ {
		k, rid, _ := leaf.ReadEntry(i)
		label += fmt.Sprintf("<B>%d</B> -> %d.%d<BR/>", k, rid.PageID, rid.SlotID)
	}
	label += "</TD></TR></TABLE>>"
	return label
}

func internalLabel(pid btreeidx.Pid, node *btreeidx.InternalNode) string {
	count := node.KeyCount()
	label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">`+
		`<TR><TD COLSPAN="%d" BGCOLOR="#DAE8FC"><B>PAGE %d (INTERNAL)</B></TD></TR><TR>`, count+1, pid)
	label += fmt.Sprintf(`<TD PORT="f0" BGCOLOR="#E1F5FE">P:%d</TD>`, node.LeftmostChild())
	for i := 0; i < count; i++ {
		key, _ := node.EntryKey(i)
		child, _ := node.EntryChild(i)
		label += fmt.Sprintf(`<TD PORT="f%d" BGCOLOR="#E1F5FE"><B>%d</B> P:%d</TD>`, i+1, key, child)
	}
	label += "</TR></TABLE>>"
	return label
}
