package btreeidx

// metadata is the fixed pid-0 page: the tree's root pointer and height.
// An empty index has rootPid == NoPid, treeHeight == 0.
type metadata struct {
	rootPid    Pid
	treeHeight int32
}

const (
	metaRootPidOffset = 0
	metaHeightOffset  = 4
)

func readMetadata(pf PageFile) (metadata, error) {
	buf := make([]byte, pf.PageSize())
	if err := pf.Read(0, buf); err != nil {
		return metadata{}, err
	}
	return metadata{
		rootPid:    Pid(getInt32(buf, metaRootPidOffset)),
		treeHeight: getInt32(buf, metaHeightOffset),
	}, nil
}

func writeMetadata(pf PageFile, m metadata) error {
	buf := make([]byte, pf.PageSize())
	putInt32(buf, metaRootPidOffset, int32(m.rootPid))
	putInt32(buf, metaHeightOffset, m.treeHeight)
	return pf.Write(0, buf)
}
